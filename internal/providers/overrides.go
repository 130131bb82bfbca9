package providers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Override replaces provider endpoints and scopes, keyed by provider name
// in the overrides file. Lets staging deployments and tests point a
// provider at stand-in endpoints without a rebuild.
type Override struct {
	AuthURL     string   `yaml:"auth_url"`
	TokenURL    string   `yaml:"token_url"`
	UserInfoURL string   `yaml:"userinfo_url"`
	EmailsURL   string   `yaml:"emails_url"`
	Scopes      []string `yaml:"scopes"`
}

func LoadOverrides(path string) (map[string]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	var overrides map[string]Override
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file: %w", err)
	}

	return overrides, nil
}

// Apply replaces endpoint URLs and scopes with any non-empty override
// values.
func (p *GitHub) Apply(o Override) {
	if o.AuthURL != "" {
		p.config.Endpoint.AuthURL = o.AuthURL
	}
	if o.TokenURL != "" {
		p.config.Endpoint.TokenURL = o.TokenURL
	}
	if o.UserInfoURL != "" {
		p.userURL = o.UserInfoURL
	}
	if o.EmailsURL != "" {
		p.emailsURL = o.EmailsURL
	}
	if len(o.Scopes) > 0 {
		p.config.Scopes = o.Scopes
	}
}

// Apply replaces endpoint URLs and scopes with any non-empty override
// values.
func (p *Google) Apply(o Override) {
	if o.AuthURL != "" {
		p.config.Endpoint.AuthURL = o.AuthURL
	}
	if o.TokenURL != "" {
		p.config.Endpoint.TokenURL = o.TokenURL
	}
	if o.UserInfoURL != "" {
		p.userInfoURL = o.UserInfoURL
	}
	if len(o.Scopes) > 0 {
		p.config.Scopes = o.Scopes
	}
}
