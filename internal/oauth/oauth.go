// Package oauth implements the authorization-code login flow against the
// configured identity providers: redirect to consent, validate the CSRF
// state on callback, exchange the code, mirror the profile, and issue an
// application session.
package oauth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/q-ots/siteauth/internal/cookies"
	"github.com/q-ots/siteauth/internal/models"
	"github.com/q-ots/siteauth/internal/providers"
	"github.com/q-ots/siteauth/internal/storage"
)

const sessionTTL = 7 * 24 * time.Hour

// Error codes surfaced to the front end via the auth_error query
// parameter. Provider-supplied error values pass through verbatim.
const (
	ErrNoCode        = "no_code"
	ErrInvalidState  = "invalid_state"
	ErrTokenExchange = "token_exchange_failed"
	ErrUserInfo      = "userinfo_failed"
	ErrServer        = "server_error"
)

type Service struct {
	siteURL   string
	providers map[string]providers.Provider
	sessions  storage.SessionStore
	users     storage.UserStore
	now       func() time.Time
}

func NewService(siteURL string, sessions storage.SessionStore, users storage.UserStore, provs ...providers.Provider) *Service {
	byName := make(map[string]providers.Provider, len(provs))
	for _, p := range provs {
		byName[p.Name()] = p
	}

	return &Service{
		siteURL:   strings.TrimRight(siteURL, "/"),
		providers: byName,
		sessions:  sessions,
		users:     users,
		now:       time.Now,
	}
}

// HandleAuth serves GET /api/auth/{provider}. The route is
// self-referential: it is also the redirect URI registered with the
// provider, so requests carrying code/state/error complete a login and
// requests without them start one.
func (s *Service) HandleAuth(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")
	provider, ok := s.providers[name]
	if !ok {
		// Missing credentials are a deployment mistake, not a flow error.
		// A diagnostic beats a redirect to a half-built consent URL.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": name + " OAuth not configured"})
		return
	}

	q := r.URL.Query()
	if q.Has("code") || q.Has("state") || q.Has("error") {
		s.callback(w, r, provider)
		return
	}

	s.begin(w, r, provider)
}

// begin starts a login attempt: fresh CSRF state in a short-lived cookie,
// then off to the provider's consent screen.
func (s *Service) begin(w http.ResponseWriter, r *http.Request, p providers.Provider) {
	state := uuid.NewString()
	cookies.Set(w, cookies.State, state, cookies.StateMaxAge, true)

	slog.Info("Starting OAuth login", "provider", p.Name())
	http.Redirect(w, r, p.AuthCodeURL(state, s.redirectURI(p)), http.StatusFound)
}

// callback completes a login attempt. Every failure branch is fail-closed
// and non-retrying: no session cookie is issued and the user restarts from
// begin.
func (s *Service) callback(w http.ResponseWriter, r *http.Request, p providers.Provider) {
	// The state cookie is single-use: cleared on every callback, success
	// or failure.
	cookies.Clear(w, cookies.State)

	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		slog.Warn("Provider declined login", "provider", p.Name(), "error", errParam)
		s.redirectError(w, r, errParam)
		return
	}

	code := q.Get("code")
	if code == "" {
		s.redirectError(w, r, ErrNoCode)
		return
	}

	state := q.Get("state")
	stateCookie, err := r.Cookie(cookies.State)
	if err != nil || state == "" || stateCookie.Value != state {
		slog.Warn("State mismatch on callback", "provider", p.Name())
		s.redirectError(w, r, ErrInvalidState)
		return
	}

	token, err := p.Exchange(r.Context(), code, s.redirectURI(p))
	if err != nil {
		slog.Error("Token exchange failed", "provider", p.Name(), "error", err)
		s.redirectError(w, r, ErrTokenExchange)
		return
	}

	identity, err := p.FetchIdentity(r.Context(), token)
	if err != nil {
		slog.Error("Profile fetch failed", "provider", p.Name(), "error", err)
		s.redirectError(w, r, ErrUserInfo)
		return
	}

	now := s.now()

	// The profile mirror is best-effort: the login is already proven, so
	// a store outage must not block it.
	user := &models.User{
		Provider:  p.Name(),
		ID:        identity.ID,
		Email:     identity.Email,
		Name:      identity.Name,
		Avatar:    identity.Avatar,
		LastLogin: now,
	}
	if err := s.users.UpsertUser(r.Context(), user); err != nil {
		slog.Error("User upsert failed", "provider", p.Name(), "userId", identity.ID, "error", err)
	}

	session := &models.Session{
		Token: uuid.NewString(),
		Data: models.SessionData{
			UserID:   identity.ID,
			Email:    identity.Email,
			Name:     identity.Name,
			Avatar:   identity.Avatar,
			Provider: p.Name(),
			Username: identity.Username,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := s.sessions.SaveSession(r.Context(), session); err != nil {
		slog.Error("Session save failed", "provider", p.Name(), "error", err)
	}

	cookies.Set(w, cookies.Session, session.Token, cookies.SessionMaxAge, true)
	if payload, err := json.Marshal(session.Data); err == nil {
		cookies.Set(w, cookies.UserData, url.QueryEscape(string(payload)), cookies.SessionMaxAge, false)
	}

	slog.Info("Login completed", "provider", p.Name(), "userId", identity.ID)
	http.Redirect(w, r, s.siteURL+"/?auth_success=1", http.StatusFound)
}

func (s *Service) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, s.siteURL+"/?auth_error="+url.QueryEscape(code), http.StatusFound)
}

func (s *Service) redirectURI(p providers.Provider) string {
	return s.siteURL + "/api/auth/" + p.Name()
}
