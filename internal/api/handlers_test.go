package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/q-ots/siteauth/internal/cookies"
	"github.com/q-ots/siteauth/internal/models"
	"github.com/q-ots/siteauth/internal/storage"
	"github.com/stretchr/testify/require"
)

type capturingContactStore struct {
	saved []*models.Contact
	err   error
}

func (c *capturingContactStore) SaveContact(ctx context.Context, contact *models.Contact) error {
	if c.err != nil {
		return c.err
	}
	c.saved = append(c.saved, contact)
	return nil
}

func seedSession(t *testing.T, store storage.SessionStore) *models.Session {
	t.Helper()

	session := &models.Session{
		Token: "tok-valid",
		Data: models.SessionData{
			UserID:   "98765",
			Email:    "qdev@example.com",
			Name:     "Q Developer",
			Provider: "github",
		},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.SaveSession(context.Background(), session))
	return session
}

func TestMeUnauthenticated(t *testing.T) {
	server := NewServer(storage.NewMemoryStore(), &capturingContactStore{})

	rec := httptest.NewRecorder()
	server.MeHandler(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithValidSession(t *testing.T) {
	sessions := storage.NewMemoryStore()
	session := seedSession(t, sessions)
	server := NewServer(sessions, &capturingContactStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: cookies.Session, Value: session.Token})
	rec := httptest.NewRecorder()
	server.MeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Authenticated bool               `json:"authenticated"`
		User          models.SessionData `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Authenticated)
	require.Equal(t, session.Data, body.User)
}

func TestMeWithBearerToken(t *testing.T) {
	sessions := storage.NewMemoryStore()
	session := seedSession(t, sessions)
	server := NewServer(sessions, &capturingContactStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	server.MeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMeWithExpiredSession(t *testing.T) {
	sessions := storage.NewMemoryStore()
	require.NoError(t, sessions.SaveSession(context.Background(), &models.Session{
		Token:     "tok-expired",
		ExpiresAt: time.Now().Add(-time.Second),
	}))
	server := NewServer(sessions, &capturingContactStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: cookies.Session, Value: "tok-expired"})
	rec := httptest.NewRecorder()
	server.MeHandler(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutDeletesSessionAndClearsCookies(t *testing.T) {
	sessions := storage.NewMemoryStore()
	session := seedSession(t, sessions)
	server := NewServer(sessions, &capturingContactStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookies.Session, Value: session.Token})
	rec := httptest.NewRecorder()
	server.LogoutHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	got, err := sessions.GetSession(context.Background(), session.Token)
	require.NoError(t, err)
	require.Nil(t, got)

	var clearedSession, clearedUserData bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookies.Session && c.MaxAge < 0 {
			clearedSession = true
		}
		if c.Name == cookies.UserData && c.MaxAge < 0 {
			clearedUserData = true
		}
	}
	require.True(t, clearedSession)
	require.True(t, clearedUserData)
}

func TestContactValidation(t *testing.T) {
	server := NewServer(storage.NewMemoryStore(), &capturingContactStore{})

	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{"name":"A","email":"a@b.co"}`},
		{"invalid email", `{"name":"A","email":"not-an-email","subject":"s","message":"m"}`},
		{"bad json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			server.ContactHandler(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestContactSaved(t *testing.T) {
	contacts := &capturingContactStore{}
	server := NewServer(storage.NewMemoryStore(), contacts)

	body := `{"name":"Visitor","email":"visitor@example.com","subject":"Question","message":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ContactHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, contacts.saved, 1)
	require.Equal(t, "Visitor", contacts.saved[0].Name)
	require.NotEmpty(t, contacts.saved[0].ID)
}

func TestContactStoreFailure(t *testing.T) {
	contacts := &capturingContactStore{err: errors.New("disk full")}
	server := NewServer(storage.NewMemoryStore(), contacts)

	body := `{"name":"Visitor","email":"visitor@example.com","subject":"Question","message":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ContactHandler(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	server := NewServer(storage.NewMemoryStore(), &capturingContactStore{})

	rec := httptest.NewRecorder()
	server.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight should not reach the handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/contact", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
}
