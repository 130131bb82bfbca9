package storage

import (
	"context"

	"github.com/q-ots/siteauth/internal/models"
)

// UserStore holds the durable profile mirror. GetUser returns (nil, nil)
// when no record exists.
type UserStore interface {
	UpsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, provider, id string) (*models.User, error)
}

// SessionStore holds session payloads keyed by opaque token. GetSession
// returns (nil, nil) for absent or expired tokens.
type SessionStore interface {
	SaveSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// ContactStore holds contact-form submissions.
type ContactStore interface {
	SaveContact(ctx context.Context, contact *models.Contact) error
}
