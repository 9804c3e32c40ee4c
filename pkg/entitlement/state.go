package entitlement

// State is the classified subscription entitlement of a tenant. It is
// derived, never persisted, and never cached across requests.
type State struct {
	HasAccess bool
	IsTrial   bool
	// DaysRemaining is set only for trials whose end could be computed. It
	// can be 0 on the trial's last partial day while access is still
	// granted for that whole day.
	DaysRemaining *int
}

// Reason explains a gate verdict.
type Reason string

const (
	// ReasonOK means both gates passed and the generation step may run.
	ReasonOK Reason = "ok"
	// ReasonSubscriptionRequired means no active subscription or unexpired
	// trial was found; the usage counter was not consulted.
	ReasonSubscriptionRequired Reason = "subscription_required"
	// ReasonDailyLimitReached means the subscription gate passed but today's
	// quota is exhausted.
	ReasonDailyLimitReached Reason = "daily_limit_reached"
)

// Decision is the combined verdict for one metered request.
type Decision struct {
	Allowed bool
	Reason  Reason
	State   State
	// UsageCount is today's count after the check. Zero when the
	// subscription gate denied before the counter ran.
	UsageCount int
}
