package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/q-ots/siteauth/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements SessionStore with server-side expiry: entries are
// written with a TTL derived from ExpiresAt, so expired sessions simply
// vanish from the keyspace.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

func (r *RedisStore) SaveSession(ctx context.Context, session *models.Session) error {
	key := fmt.Sprintf("session:%s", session.Token)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *RedisStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	key := fmt.Sprintf("session:%s", token)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		r.client.Del(ctx, key)
		return nil, nil
	}

	return &session, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, token string) error {
	key := fmt.Sprintf("session:%s", token)
	return r.client.Del(ctx, key).Err()
}
