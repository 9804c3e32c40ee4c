package billing

import "time"

// SubscriptionStatus represents the normalized state of a subscription as
// reported by the billing provider. Providers use their own vocabularies;
// implementations map them into this set and pass unknown values through
// unchanged.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusAccepted  SubscriptionStatus = "accepted"
	StatusTrialing  SubscriptionStatus = "trialing"
	StatusDeclined  SubscriptionStatus = "declined"
	StatusExpired   SubscriptionStatus = "expired"
	StatusFrozen    SubscriptionStatus = "frozen"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusPending   SubscriptionStatus = "pending"
)

// IsTrialEligible reports whether the status grants access through a trial
// window rather than a completed payment.
func (s SubscriptionStatus) IsTrialEligible() bool {
	return s == StatusAccepted || s == StatusTrialing
}

// SubscriptionSnapshot is a read-only view of one subscription held by a
// tenant. A tenant may hold several (including leftovers from other
// products); consumers select by Name.
type SubscriptionSnapshot struct {
	Name      string
	Status    SubscriptionStatus
	CreatedAt *time.Time // nil when the provider omitted it
	TrialDays int        // 0 when the provider did not supply one
}

// Money represents a monetary amount in the smallest currency unit.
// For example, $9.99 USD is Amount: 999, Currency: "USD".
type Money struct {
	Amount   int64
	Currency string // ISO 4217 currency code
}

// Offer describes the fixed subscription terms presented to a tenant.
type Offer struct {
	ProductName  string
	Price        Money
	IntervalDays int // billing interval length, normally 30
	TrialDays    int
	ReturnURL    string // where the provider sends the tenant after approval
}

// Confirmation is the provider's response to a created offer: the URL the
// tenant must visit to approve it.
type Confirmation struct {
	URL string
}
