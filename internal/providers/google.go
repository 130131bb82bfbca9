package providers

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Google struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogle(clientID, clientSecret string) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *Google) Name() string { return "google" }

func (p *Google) AuthCodeURL(state, redirectURI string) string {
	cfg := *p.config // copy
	cfg.RedirectURL = redirectURI
	return cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (p *Google) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	cfg := *p.config // copy
	cfg.RedirectURL = redirectURI
	return cfg.Exchange(ctx, code)
}

func (p *Google) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	var gu struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, client, p.userInfoURL, &gu); err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}

	return &Identity{
		ID:     gu.ID,
		Name:   gu.Name,
		Email:  gu.Email,
		Avatar: gu.Picture,
	}, nil
}
