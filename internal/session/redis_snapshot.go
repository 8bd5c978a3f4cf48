package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultSnapshotPrefix = "blockauth:session"

// RedisSnapshot stores the session as a single keyed JSON record in Redis.
type RedisSnapshot struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshot builds a Redis-backed snapshot keyed by profile key.
func NewRedisSnapshot(client *redis.Client, profileKey string) *RedisSnapshot {
	profileKey = strings.TrimSpace(profileKey)
	if profileKey == "" {
		profileKey = "default"
	}
	return &RedisSnapshot{
		client: client,
		key:    fmt.Sprintf("%s:%s", defaultSnapshotPrefix, profileKey),
	}
}

// Load fetches and decodes the persisted session.
func (r *RedisSnapshot) Load(ctx context.Context) (Session, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNoSnapshot
		}
		return Session{}, fmt.Errorf("redis get snapshot: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, ErrCorruptSnapshot
	}
	if s.ID == "" {
		return Session{}, ErrCorruptSnapshot
	}
	return s, nil
}

// Save replaces the persisted session record.
func (r *RedisSnapshot) Save(ctx context.Context, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

// Clear removes the persisted session record. Deleting an absent key is fine.
func (r *RedisSnapshot) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}
	return nil
}
