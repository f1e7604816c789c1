package inquiry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tradewinds/models"

	"github.com/go-redis/redis/v8"
)

const inquirySessionPrefix = "inquiry:session:"

// SessionStore persists wizard sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.WizardSession, error)
	Save(ctx context.Context, s *models.WizardSession) error
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions as JSON with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	data, err := s.client.Get(ctx, inquirySessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load inquiry session: %w", err)
	}
	var session models.WizardSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse inquiry session %s: %w", id, err)
	}
	if session.Answers == nil {
		session.Answers = make(map[models.WizardStep]models.Answer)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal inquiry session: %w", err)
	}
	if err := s.client.Set(ctx, inquirySessionPrefix+session.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store inquiry session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, inquirySessionPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete inquiry session: %w", err)
	}
	return nil
}
