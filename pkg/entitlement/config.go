package entitlement

import "github.com/dmitrymomot/gatekit/pkg/billing"

// Config carries the pricing and policy parameters the engine depends on.
// Nothing here is a compiled-in literal so the engine stays testable against
// arbitrary pricing and trial terms.
type Config struct {
	// ProductName identifies this application's own subscription among
	// possibly many on the tenant's account. Matching is an exact string
	// comparison.
	ProductName string `env:"ENTITLEMENT_PRODUCT_NAME" envDefault:"AI Generation"`

	// DailyLimit is the metered-request ceiling per tenant per calendar day.
	DailyLimit int `env:"ENTITLEMENT_DAILY_LIMIT" envDefault:"100"`

	// TrialDays is the trial window length applied when the provider did not
	// supply one on the subscription itself.
	TrialDays int `env:"ENTITLEMENT_TRIAL_DAYS" envDefault:"14"`

	// PriceAmount and PriceCurrency define the fixed monthly offer, in the
	// smallest currency unit.
	PriceAmount   int64  `env:"ENTITLEMENT_PRICE_AMOUNT" envDefault:"999"`
	PriceCurrency string `env:"ENTITLEMENT_PRICE_CURRENCY" envDefault:"USD"`

	// IntervalDays is the billing interval for new offers.
	IntervalDays int `env:"ENTITLEMENT_INTERVAL_DAYS" envDefault:"30"`

	// BillingFailOpen controls what a failed subscription check means. When
	// true, access is granted even though the provider could not be reached
	// (the tenant is not blocked by billing outages, at the cost of
	// unverified access). When false, the failure propagates and the caller
	// denies. Off by default: fail-open has cost and abuse implications and
	// must be an explicit choice.
	BillingFailOpen bool `env:"ENTITLEMENT_BILLING_FAIL_OPEN" envDefault:"false"`
}

// Offer builds the fixed subscription offer from the configured terms.
func (c Config) Offer(returnURL string) billing.Offer {
	return billing.Offer{
		ProductName: c.ProductName,
		Price: billing.Money{
			Amount:   c.PriceAmount,
			Currency: c.PriceCurrency,
		},
		IntervalDays: c.IntervalDays,
		TrialDays:    c.TrialDays,
		ReturnURL:    returnURL,
	}
}
