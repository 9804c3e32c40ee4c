package entitlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekit/pkg/billing"
)

// Initiator creates new subscription offers on the billing provider.
type Initiator struct {
	provider billing.Provider
	cfg      Config
}

// NewInitiator creates an Initiator presenting the fixed offer from cfg.
// Panics if provider is nil to fail fast during initialization.
func NewInitiator(provider billing.Provider, cfg Config) *Initiator {
	if provider == nil {
		panic("entitlement: billing.Provider is required")
	}
	if cfg.ProductName == "" {
		panic(ErrMissingProductName)
	}
	return &Initiator{provider: provider, cfg: cfg}
}

// CreateOffer sends the configured offer to the provider and returns the
// URL the tenant must visit to approve it. Provider rejections pass through
// as *billing.ProviderError; a response with no confirmation URL fails with
// billing.ErrNoConfirmationURL, which is a protocol violation by the
// provider and not retryable.
func (i *Initiator) CreateOffer(ctx context.Context, tenantID uuid.UUID, returnURL string) (string, error) {
	confirmation, err := i.provider.CreateSubscription(ctx, tenantID, i.cfg.Offer(returnURL))
	if err != nil {
		return "", err
	}
	if confirmation == nil || confirmation.URL == "" {
		return "", billing.ErrNoConfirmationURL
	}
	return confirmation.URL, nil
}
