package billing

import (
	"context"

	"github.com/google/uuid"
)

// Provider defines the minimal billing provider surface the entitlement
// engine depends on. Both calls are blocking round trips; the engine performs
// no retries, so a single failure surfaces as a decision failure.
type Provider interface {
	// ListSubscriptions returns every subscription the tenant currently
	// holds, in provider order. An empty slice is a legitimate result, not
	// an error.
	ListSubscriptions(ctx context.Context, tenantID uuid.UUID) ([]SubscriptionSnapshot, error)

	// CreateSubscription presents the offer to the provider and returns the
	// confirmation the tenant must approve. Field-level provider rejections
	// surface as *ProviderError; a response carrying neither errors nor a
	// confirmation URL surfaces as ErrNoConfirmationURL.
	CreateSubscription(ctx context.Context, tenantID uuid.UUID, offer Offer) (*Confirmation, error)
}
