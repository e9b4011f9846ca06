package mocks

import (
	"context"
	"errors"

	"github.com/rapidoqa/coach-server/internal/source"
)

// MockTabularSource is a mock implementation of the TabularSource interface
// for testing the service layer.
type MockTabularSource struct {
	FetchFunc func(ctx context.Context, table string) (source.Grid, error)
}

// Fetch implements the TabularSource interface
func (m *MockTabularSource) Fetch(ctx context.Context, table string) (source.Grid, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, table)
	}
	return nil, errors.New("FetchFunc not implemented")
}
