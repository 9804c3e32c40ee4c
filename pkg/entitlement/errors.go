package entitlement

import "errors"

var (
	ErrSubscriptionCheckFailed = errors.New("entitlement: failed to check subscription state")
	ErrMissingProductName      = errors.New("entitlement: product name is required")
)
