package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rirekisho/pkg/domain"
	"rirekisho/pkg/platform/sentinel"
)

// RedisStore persists application envelopes as JSON blobs. A zero TTL keeps
// entries until deleted; a positive TTL makes the store a session cache.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed application store.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func applicationKey(id domain.ApplicationID) string {
	return "application:" + id.String()
}

func (s *RedisStore) Save(ctx context.Context, app *Application) error {
	blob, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("encode application: %w", err)
	}
	if err := s.client.Set(ctx, applicationKey(app.ID), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("save application: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, id domain.ApplicationID) (*Application, error) {
	blob, err := s.client.Get(ctx, applicationKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	app := &Application{}
	if err := json.Unmarshal(blob, app); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	return app, nil
}

func (s *RedisStore) Delete(ctx context.Context, id domain.ApplicationID) error {
	removed, err := s.client.Del(ctx, applicationKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if removed == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
