package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Identity is the neutral profile shape after provider field mapping.
type Identity struct {
	ID       string
	Name     string
	Email    string
	Avatar   string
	Username string
}

// Provider describes one upstream identity provider. A single pair of
// flow handlers is parameterized by this interface instead of one handler
// file per provider.
type Provider interface {
	Name() string

	// AuthCodeURL builds the consent-screen URL carrying the CSRF state.
	AuthCodeURL(state, redirectURI string) string

	// Exchange swaps the authorization code for an access token. Codes are
	// single-use; a failed exchange is never retried.
	Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)

	// FetchIdentity retrieves and maps the provider profile for the token.
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error)
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
