package metastore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation for tests and local
// development. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

func memoryKey(tenantID uuid.UUID, namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", tenantID, namespace, key)
}

// Get retrieves the value stored under (tenant, namespace, key).
func (s *MemoryStore) Get(_ context.Context, tenantID uuid.UUID, namespace, key string) ([]byte, error) {
	if tenantID == uuid.Nil {
		return nil, ErrNilTenantID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[memoryKey(tenantID, namespace, key)]
	if !ok {
		return nil, ErrValueNotFound
	}

	// Copy so callers cannot mutate stored state.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under (tenant, namespace, key).
func (s *MemoryStore) Set(_ context.Context, tenantID uuid.UUID, namespace, key string, value []byte) error {
	if tenantID == uuid.Nil {
		return ErrNilTenantID
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[memoryKey(tenantID, namespace, key)] = stored
	return nil
}

// ResolveOwnerID returns the tenant ID itself; an in-memory store has no
// separate owner identity.
func (s *MemoryStore) ResolveOwnerID(_ context.Context, tenantID uuid.UUID) (string, error) {
	if tenantID == uuid.Nil {
		return "", ErrNilTenantID
	}
	return tenantID.String(), nil
}

// Len reports the number of stored values. Intended for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
