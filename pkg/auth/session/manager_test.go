package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(tokenID string) string {
	return fmt.Sprintf("sess:%s", tokenID)
}

func TestManagerStartCheckRevoke(t *testing.T) {
	store := newMockStore()
	manager := &Manager{
		store: store,
		keyer: store,
		ttl:   time.Hour,
	}

	ctx := context.Background()
	tokenID := NewTokenID()

	if err := manager.Start(ctx, tokenID, "user-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	alive, err := manager.HasSession(ctx, tokenID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !alive {
		t.Fatal("expected live session after start")
	}

	if err := manager.Revoke(ctx, tokenID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	alive, err = manager.HasSession(ctx, tokenID)
	if err != nil {
		t.Fatalf("has session after revoke: %v", err)
	}
	if alive {
		t.Fatal("expected session gone after revoke")
	}
}

func TestManagerRejectsEmptyTokenID(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}

	ctx := context.Background()
	if err := manager.Start(ctx, " ", "user-1"); err == nil {
		t.Fatal("expected error for blank token id")
	}
	if _, err := manager.HasSession(ctx, ""); err == nil {
		t.Fatal("expected error for empty token id")
	}
}
