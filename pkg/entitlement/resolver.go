package entitlement

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekit/pkg/billing"
)

// Resolver classifies a tenant's subscription state from billing provider
// data. It only observes: subscription transitions happen on the provider
// side, so this is a classification table, not a state machine.
type Resolver struct {
	provider billing.Provider
	cfg      Config
	now      func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverClock injects the time source used for trial-window math.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a Resolver.
// Panics if provider is nil or the product name is unset, to fail fast
// during initialization.
func NewResolver(provider billing.Provider, cfg Config, opts ...ResolverOption) *Resolver {
	if provider == nil {
		panic("entitlement: billing.Provider is required")
	}
	if cfg.ProductName == "" {
		panic(ErrMissingProductName)
	}

	r := &Resolver{
		provider: provider,
		cfg:      cfg,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve computes the tenant's entitlement state:
//
//   - no subscription matching the configured product name: no access.
//   - status active: paid access, not a trial.
//   - a trial-eligible status: access while now is within
//     createdAt + trialDays. A missing createdAt fails open to trial access
//     with no days-remaining figure, preferring availability over precision
//     when provider data is incomplete. An elapsed window means no access;
//     there is no grace period.
//   - any other status (declined, cancelled, expired, frozen, pending, ...):
//     no access.
func (r *Resolver) Resolve(ctx context.Context, tenantID uuid.UUID) (State, error) {
	subs, err := r.provider.ListSubscriptions(ctx, tenantID)
	if err != nil {
		return State{}, errors.Join(ErrSubscriptionCheckFailed, err)
	}

	var match *billing.SubscriptionSnapshot
	for i := range subs {
		if subs[i].Name == r.cfg.ProductName {
			match = &subs[i]
			break
		}
	}
	if match == nil {
		return State{}, nil
	}

	switch {
	case match.Status == billing.StatusActive:
		return State{HasAccess: true}, nil

	case match.Status.IsTrialEligible():
		return r.resolveTrial(match), nil

	default:
		return State{}, nil
	}
}

func (r *Resolver) resolveTrial(sub *billing.SubscriptionSnapshot) State {
	if sub.CreatedAt == nil {
		return State{HasAccess: true, IsTrial: true}
	}

	trialDays := sub.TrialDays
	if trialDays <= 0 {
		trialDays = r.cfg.TrialDays
	}

	trialEnd := sub.CreatedAt.AddDate(0, 0, trialDays)
	now := r.now()
	if now.After(trialEnd) {
		return State{}
	}

	days := int(math.Ceil(trialEnd.Sub(now).Hours() / 24))
	return State{HasAccess: true, IsTrial: true, DaysRemaining: &days}
}
