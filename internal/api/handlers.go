package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/q-ots/siteauth/internal/cookies"
	"github.com/q-ots/siteauth/internal/models"
	"github.com/q-ots/siteauth/internal/storage"
)

type Server struct {
	sessions storage.SessionStore
	contacts storage.ContactStore
}

func NewServer(sessions storage.SessionStore, contacts storage.ContactStore) *Server {
	return &Server{
		sessions: sessions,
		contacts: contacts,
	}
}

// sessionToken pulls the opaque session token from the cookie, falling
// back to a bearer Authorization header for non-browser clients.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(cookies.Session); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return ""
}

// MeHandler reports the identity payload of the presented session. The
// payload is served straight from the store; it is never re-validated
// against the provider.
func (s *Server) MeHandler(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
		return
	}

	session, err := s.sessions.GetSession(r.Context(), token)
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get session"})
		return
	}
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          session.Data,
		"expires":       session.ExpiresAt,
	})
}

// LogoutHandler deletes the session entry and clears both session cookies.
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := s.sessions.DeleteSession(r.Context(), token); err != nil {
			slog.Error("Failed to delete session", "error", err)
		}
	}

	cookies.Clear(w, cookies.Session)
	cookies.Clear(w, cookies.UserData)

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactHandler stores a contact-form submission.
func (s *Server) ContactHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	if request.Name == "" || request.Email == "" || request.Subject == "" || request.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "All fields are required"})
		return
	}

	if !emailPattern.MatchString(request.Email) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid email address"})
		return
	}

	contact := &models.Contact{
		ID:        uuid.NewString(),
		Name:      request.Name,
		Email:     request.Email,
		Subject:   request.Subject,
		Message:   request.Message,
		CreatedAt: time.Now(),
	}

	if err := s.contacts.SaveContact(r.Context(), contact); err != nil {
		slog.Error("Failed to save contact", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save message"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "received", "id": contact.ID})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
