package models

import (
	"time"
)

// SessionData is the minimal identity payload stored against a session
// token. The same payload is mirrored into the client-readable user_data
// cookie so the page script can render the signed-in UI without a round
// trip.
type SessionData struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Provider string `json:"provider"`
	Username string `json:"username,omitempty"`
}

type Session struct {
	Token     string      `json:"token"`
	Data      SessionData `json:"data"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}
