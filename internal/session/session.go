// Package session persists logged-in agents outside the process, keyed by an
// opaque token, so a restart does not log everyone out.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/rapidoqa/coach-server/pkg/cache"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// KV defines the key-value operations the session store needs.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Del(ctx context.Context, key string) error
}

// Store issues and resolves session tokens.
type Store struct {
	kv     KV
	ttl    time.Duration
	logger *zap.Logger
}

func NewStore(kv KV, ttl time.Duration, logger *zap.Logger) *Store {
	if kv == nil {
		panic("kv must not be nil")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, ttl: ttl, logger: logger.Named("session")}
}

// Create stores the agent under a fresh opaque token.
func (s *Store) Create(ctx context.Context, agent domain.Agent) (string, error) {
	token := uuid.NewString()
	if err := s.kv.Set(ctx, keyPrefix+token, agent, s.ttl); err != nil {
		return "", err
	}
	s.logger.Debug("session created", zap.String("agent", agent.AgentEmail))
	return token, nil
}

// Get resolves a token back to its agent.
func (s *Store) Get(ctx context.Context, token string) (domain.Agent, error) {
	var agent domain.Agent
	err := s.kv.Get(ctx, keyPrefix+token, &agent)
	switch {
	case err == nil:
		return agent, nil
	case errors.Is(err, cache.Nil):
		return domain.Agent{}, ErrNotFound
	default:
		return domain.Agent{}, err
	}
}

// Delete invalidates a token. Deleting an unknown token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.kv.Del(ctx, keyPrefix+token)
}
