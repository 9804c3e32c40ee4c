package metastore

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the contract for tenant-scoped metadata persistence.
// Implementations are remote stores; every call is a blocking network round
// trip and honors context cancellation only as far as the underlying client
// does.
type Store interface {
	// Get retrieves the value stored under (tenant, namespace, key).
	// Returns ErrValueNotFound if nothing is stored there.
	Get(ctx context.Context, tenantID uuid.UUID, namespace, key string) ([]byte, error)

	// Set stores value under (tenant, namespace, key), overwriting any
	// previous value.
	Set(ctx context.Context, tenantID uuid.UUID, namespace, key string, value []byte) error

	// ResolveOwnerID returns the store-side identifier owning the tenant's
	// metadata. Callers normally don't need it; it exists for stores where
	// writes must be addressed to a resolved owner rather than the tenant
	// directly.
	ResolveOwnerID(ctx context.Context, tenantID uuid.UUID) (string, error)
}
