package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rapidoqa/coach-server/pkg/cache"
)

// InMemoryKV is a map-backed stand-in for the redis cache. Expiration is
// ignored; e2e runs are far shorter than any session TTL.
type InMemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{data: make(map[string][]byte)}
}

func (k *InMemoryKV) Get(ctx context.Context, key string, dest any) error {
	k.mu.RLock()
	raw, ok := k.data[key]
	k.mu.RUnlock()
	if !ok {
		return cache.Nil
	}
	return json.Unmarshal(raw, dest)
}

func (k *InMemoryKV) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	k.mu.Lock()
	k.data[key] = raw
	k.mu.Unlock()
	return nil
}

func (k *InMemoryKV) Del(ctx context.Context, key string) error {
	k.mu.Lock()
	delete(k.data, key)
	k.mu.Unlock()
	return nil
}
