package metastore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists tenant metadata in Redis. Values never expire: the
// consumer decides staleness (e.g. by embedding a date in the stored blob),
// so records are overwritten in place rather than evicted.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore on top of an established client.
// The prefix namespaces all keys written by this store and defaults to "meta".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "meta"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) storeKey(tenantID uuid.UUID, namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s:%s", s.prefix, tenantID, namespace, key)
}

func (s *RedisStore) validate(tenantID uuid.UUID, namespace, key string) error {
	if tenantID == uuid.Nil {
		return ErrNilTenantID
	}
	if namespace == "" {
		return ErrEmptyNamespace
	}
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}

// Get retrieves the value stored under (tenant, namespace, key).
func (s *RedisStore) Get(ctx context.Context, tenantID uuid.UUID, namespace, key string) ([]byte, error) {
	if err := s.validate(tenantID, namespace, key); err != nil {
		return nil, err
	}

	value, err := s.client.Get(ctx, s.storeKey(tenantID, namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrValueNotFound
		}
		return nil, errors.Join(ErrReadFailed, err)
	}
	return value, nil
}

// Set stores value under (tenant, namespace, key) without expiration.
func (s *RedisStore) Set(ctx context.Context, tenantID uuid.UUID, namespace, key string, value []byte) error {
	if err := s.validate(tenantID, namespace, key); err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.storeKey(tenantID, namespace, key), value, 0).Err(); err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	return nil
}

// ResolveOwnerID returns the key prefix under which the tenant's metadata
// lives. Redis needs no remote lookup for this; the identifier is derived
// locally to satisfy the Store contract.
func (s *RedisStore) ResolveOwnerID(_ context.Context, tenantID uuid.UUID) (string, error) {
	if tenantID == uuid.Nil {
		return "", ErrNilTenantID
	}
	return fmt.Sprintf("%s:%s", s.prefix, tenantID), nil
}
