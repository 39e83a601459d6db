package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Smital-1903/docview-watchlist-truedata/internal/model"
)

// DefaultKey is the fixed storage key for the credential record.
const DefaultKey = "td_credentials"

// Compile-time check to ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// RedisStore keeps the credential record as a JSON value under a fixed
// key, surviving process restarts.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store over an existing Redis client. An empty
// key falls back to DefaultKey.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{
		client: client,
		key:    key,
	}
}

// Load returns the stored credentials, if any.
func (s *RedisStore) Load(ctx context.Context) (model.Credentials, bool, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return model.Credentials{}, false, nil
	}
	if err != nil {
		return model.Credentials{}, false, fmt.Errorf("load credentials: %w", err)
	}

	var creds model.Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		// A corrupt record is indistinguishable from a logged-out state.
		return model.Credentials{}, false, nil
	}
	return creds, true, nil
}

// Save replaces the stored credentials.
func (s *RedisStore) Save(ctx context.Context, creds model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Clear removes the stored credentials.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
