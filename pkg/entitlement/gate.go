package entitlement

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekit/pkg/usage"
)

// StateResolver yields a tenant's subscription entitlement state.
type StateResolver interface {
	Resolve(ctx context.Context, tenantID uuid.UUID) (State, error)
}

// UsageMeter consumes one unit of today's quota for a tenant.
type UsageMeter interface {
	CheckAndIncrement(ctx context.Context, tenantID uuid.UUID) (usage.Decision, error)
}

// Gate composes the subscription gate and the usage gate into one verdict
// per metered request.
type Gate struct {
	resolver StateResolver
	meter    UsageMeter
	failOpen bool
	log      *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithGateLogger sets the logger used for policy warnings.
func WithGateLogger(log *slog.Logger) GateOption {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGate creates a Gate. The fail-open billing policy is taken from cfg.
// Panics if resolver or meter is nil to fail fast during initialization.
func NewGate(resolver StateResolver, meter UsageMeter, cfg Config, opts ...GateOption) *Gate {
	if resolver == nil {
		panic("entitlement: StateResolver is required")
	}
	if meter == nil {
		panic("entitlement: UsageMeter is required")
	}

	g := &Gate{
		resolver: resolver,
		meter:    meter,
		failOpen: cfg.BillingFailOpen,
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Check runs both gates for one metered request, in order:
//
//  1. The subscription state is resolved. Without access the request is
//     denied immediately and the usage counter is not touched, so denied
//     requests never consume quota.
//  2. Only then is one unit of quota consumed. An exhausted quota denies the
//     request with the generation step never reached.
//
// Resolver failures follow the configured billing policy: with fail-open
// enabled the request proceeds as if access were granted (logged, since the
// access is unverified); otherwise the error propagates and the caller must
// deny. Counter write failures always propagate.
func (g *Gate) Check(ctx context.Context, tenantID uuid.UUID) (Decision, error) {
	state, err := g.resolver.Resolve(ctx, tenantID)
	if err != nil {
		if !g.failOpen {
			return Decision{}, err
		}
		g.log.WarnContext(ctx, "billing check failed, granting unverified access",
			slog.String("tenant_id", tenantID.String()),
			slog.Any("error", err),
		)
		state = State{HasAccess: true}
	}

	if !state.HasAccess {
		return Decision{
			Allowed: false,
			Reason:  ReasonSubscriptionRequired,
			State:   state,
		}, nil
	}

	quota, err := g.meter.CheckAndIncrement(ctx, tenantID)
	if err != nil {
		return Decision{}, err
	}

	if !quota.Allowed {
		return Decision{
			Allowed:    false,
			Reason:     ReasonDailyLimitReached,
			State:      state,
			UsageCount: quota.Count,
		}, nil
	}

	return Decision{
		Allowed:    true,
		Reason:     ReasonOK,
		State:      state,
		UsageCount: quota.Count,
	}, nil
}
