package billing

import (
	"errors"
	"strings"
)

var (
	ErrNoConfirmationURL  = errors.New("billing: no confirmation URL returned from provider")
	ErrMissingAPIKey      = errors.New("billing: provider API key is required")
	ErrMissingTenantID    = errors.New("billing: tenant ID is required")
	ErrMissingProduct     = errors.New("billing: offer product name is required")
	ErrInvalidEnvironment = errors.New("billing: invalid provider environment")
)

// ProviderError carries the field-level error messages a provider returned
// for a rejected request. It is a hard failure: the provider understood the
// request and refused it, so retrying is pointless.
type ProviderError struct {
	Messages []string
}

func (e *ProviderError) Error() string {
	if len(e.Messages) == 0 {
		return "billing provider rejected the request"
	}
	return "billing provider rejected the request: " + strings.Join(e.Messages, "; ")
}

// NewProviderError builds a ProviderError from the provider's messages.
func NewProviderError(messages ...string) *ProviderError {
	return &ProviderError{Messages: messages}
}
