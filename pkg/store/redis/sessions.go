package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore tracks live refresh tokens by jti. A refresh token is valid
// only while its jti is present; rotation deletes the old entry and writes
// the new one, logout deletes outright.
type SessionStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: client.Client(), ttl: ttl}
}

func sessionKey(jti string) string {
	return "sessions:refresh:" + jti
}

func (s *SessionStore) Put(ctx context.Context, jti, userID string) error {
	return s.rdb.Set(ctx, sessionKey(jti), userID, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, jti string) (string, error) {
	userID, err := s.rdb.Get(ctx, sessionKey(jti)).Result()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	return userID, err
}

// Rotate atomically replaces oldJTI with newJTI for the same user.
func (s *SessionStore) Rotate(ctx context.Context, oldJTI, newJTI, userID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(oldJTI))
	pipe.Set(ctx, sessionKey(newJTI), userID, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Revoke(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, sessionKey(jti)).Err()
}
