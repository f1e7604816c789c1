package concierge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tradewinds/models"

	"github.com/go-redis/redis/v8"
)

const conciergeSessionPrefix = "concierge:session:"

// SnapshotStore persists concierge sessions so they survive restarts and can
// be picked up by another instance.
type SnapshotStore interface {
	Get(ctx context.Context, id string) (*models.ConciergeSnapshot, error)
	Set(ctx context.Context, snap *models.ConciergeSnapshot) error
	Clear(ctx context.Context, id string) error
}

type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func (s *RedisSnapshotStore) Get(ctx context.Context, id string) (*models.ConciergeSnapshot, error) {
	data, err := s.client.Get(ctx, conciergeSessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load concierge session: %w", err)
	}
	var snap models.ConciergeSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse concierge session %s: %w", id, err)
	}
	return &snap, nil
}

func (s *RedisSnapshotStore) Set(ctx context.Context, snap *models.ConciergeSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal concierge session: %w", err)
	}
	return s.client.Set(ctx, conciergeSessionPrefix+snap.ID, b, s.ttl).Err()
}

func (s *RedisSnapshotStore) Clear(ctx context.Context, id string) error {
	return s.client.Del(ctx, conciergeSessionPrefix+id).Err()
}
