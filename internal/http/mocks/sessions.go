package mocks

import (
	"context"

	"github.com/rapidoqa/coach-server/internal/domain"
)

// MockSessionStore is a function-field test double for the session store.
type MockSessionStore struct {
	CreateFunc func(ctx context.Context, agent domain.Agent) (string, error)
	GetFunc    func(ctx context.Context, token string) (domain.Agent, error)
	DeleteFunc func(ctx context.Context, token string) error
}

func (m *MockSessionStore) Create(ctx context.Context, agent domain.Agent) (string, error) {
	return m.CreateFunc(ctx, agent)
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (domain.Agent, error) {
	return m.GetFunc(ctx, token)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	return m.DeleteFunc(ctx, token)
}
