package models

import (
	"time"
)

// User mirrors the provider profile of a signed-in visitor. There is one
// row per (provider, id); profile fields are overwritten and LastLogin
// advanced on every successful login.
type User struct {
	Provider  string    `json:"provider"`
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	LastLogin time.Time `json:"lastLogin"`
}
