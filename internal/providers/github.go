package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

type GitHub struct {
	config    *oauth2.Config
	userURL   string
	emailsURL string
}

func NewGitHub(clientID, clientSecret string) *GitHub {
	return &GitHub{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoints.GitHub,
			Scopes:       []string{"read:user", "user:email"},
		},
		userURL:   githubUserURL,
		emailsURL: githubEmailsURL,
	}
}

func (p *GitHub) Name() string { return "github" }

func (p *GitHub) AuthCodeURL(state, redirectURI string) string {
	cfg := *p.config // copy
	cfg.RedirectURL = redirectURI
	return cfg.AuthCodeURL(state)
}

func (p *GitHub) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	cfg := *p.config // copy
	cfg.RedirectURL = redirectURI
	return cfg.Exchange(ctx, code)
}

func (p *GitHub) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	var gh struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, p.userURL, &gh); err != nil {
		return nil, fmt.Errorf("failed to fetch github profile: %w", err)
	}

	name := gh.Name
	if name == "" {
		name = gh.Login
	}

	email := gh.Email
	if email == "" {
		email = p.lookupEmail(ctx, client)
	}
	if email == "" {
		// Still hidden: synthesize a stable placeholder from the login.
		email = gh.Login + "@github.user"
	}

	return &Identity{
		ID:       strconv.FormatInt(gh.ID, 10),
		Name:     name,
		Email:    email,
		Avatar:   gh.AvatarURL,
		Username: gh.Login,
	}, nil
}

// lookupEmail queries the emails endpoint, preferring the address marked
// primary over list order. Privacy settings can hide the profile email
// while this endpoint still answers under the user:email scope.
func (p *GitHub) lookupEmail(ctx context.Context, client *http.Client) string {
	var emails []struct {
		Email   string `json:"email"`
		Primary bool   `json:"primary"`
	}
	if err := getJSON(ctx, client, p.emailsURL, &emails); err != nil {
		return ""
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email
		}
	}
	if len(emails) > 0 {
		return emails[0].Email
	}
	return ""
}
