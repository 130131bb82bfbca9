// Package cookies centralizes the site's cookie names and attributes so
// the auth flow and the API handlers cannot drift apart on them.
package cookies

import (
	"net/http"
)

// Cookie names shared with the front-end page script.
const (
	State    = "oauth_state"
	Session  = "session"
	UserData = "user_data"
)

const (
	// StateMaxAge bounds a single login attempt to ten minutes.
	StateMaxAge = 600
	// SessionMaxAge is seven days, matching the session store TTL.
	SessionMaxAge = 7 * 24 * 60 * 60
)

// Set writes a cookie with the site-wide attributes: Path=/, Secure,
// SameSite=Lax. httpOnly is false only for the client-readable user_data
// cookie.
func Set(w http.ResponseWriter, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires a cookie immediately. MaxAge < 0 serializes as Max-Age=0.
func Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
