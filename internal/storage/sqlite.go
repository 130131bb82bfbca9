package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/q-ots/siteauth/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteTimeFormat = time.RFC3339Nano

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	provider TEXT NOT NULL,
	id TEXT NOT NULL,
	email TEXT,
	name TEXT,
	avatar TEXT,
	last_login TEXT NOT NULL,
	PRIMARY KEY (provider, id)
);

CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'new',
	created_at TEXT NOT NULL
);
`

// SQLiteStore implements UserStore and ContactStore over a local SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (provider, id, email, name, avatar, last_login)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider, id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			avatar = excluded.avatar,
			last_login = excluded.last_login`,
		user.Provider, user.ID, user.Email, user.Name, user.Avatar,
		user.LastLogin.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, provider, id string) (*models.User, error) {
	var user models.User
	var lastLogin string

	err := s.db.QueryRowContext(ctx,
		`SELECT provider, id, email, name, avatar, last_login
		FROM users WHERE provider = ? AND id = ?`,
		provider, id,
	).Scan(&user.Provider, &user.ID, &user.Email, &user.Name, &user.Avatar, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.LastLogin, err = time.Parse(sqliteTimeFormat, lastLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_login: %w", err)
	}

	return &user, nil
}

func (s *SQLiteStore) SaveContact(ctx context.Context, contact *models.Contact) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, subject, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		contact.ID, contact.Name, contact.Email, contact.Subject, contact.Message,
		contact.CreatedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to save contact: %w", err)
	}

	return nil
}
