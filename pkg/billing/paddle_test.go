package billing

import (
	"errors"
	"fmt"
	"testing"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/PaddleHQ/paddle-go-sdk/v4/pkg/paddleerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePaddleStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]SubscriptionStatus{
		"active":    StatusActive,
		"trialing":  StatusTrialing,
		"past_due":  StatusFrozen,
		"paused":    StatusFrozen,
		"canceled":  StatusCancelled,
		"cancelled": StatusCancelled,
		"expired":   StatusExpired,
		"ACTIVE":    StatusActive,
	}
	for raw, want := range cases {
		assert.Equal(t, want, normalizePaddleStatus(raw), "status %q", raw)
	}

	// Unknown statuses pass through so the resolver's default branch
	// treats them as no-access.
	assert.Equal(t, SubscriptionStatus("weird_new_status"), normalizePaddleStatus("weird_new_status"))
}

func TestTrialPeriodDays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 14, trialPeriodDays("day", 14))
	assert.Equal(t, 14, trialPeriodDays("week", 2))
	assert.Equal(t, 30, trialPeriodDays("month", 1))
	assert.Equal(t, 365, trialPeriodDays("year", 1))
	assert.Equal(t, 0, trialPeriodDays("day", 0))
	assert.Equal(t, 0, trialPeriodDays("fortnight", 3))
}

func TestSnapshotFromPaddle(t *testing.T) {
	t.Parallel()

	sub := &paddle.Subscription{
		Status:    "trialing",
		CreatedAt: "2026-08-15T10:00:00Z",
		Items: []paddle.SubscriptionItem{
			{
				Product: paddle.Product{Name: "AI Generation"},
				Price: paddle.Price{
					TrialPeriod: &paddle.Duration{Interval: "week", Frequency: 2},
				},
			},
		},
	}

	snap := snapshotFromPaddle(sub)
	assert.Equal(t, "AI Generation", snap.Name)
	assert.Equal(t, StatusTrialing, snap.Status)
	assert.Equal(t, 14, snap.TrialDays)
	require.NotNil(t, snap.CreatedAt)
	assert.Equal(t, "2026-08-15T10:00:00Z", snap.CreatedAt.Format(time.RFC3339))

	// Malformed timestamps and empty item lists degrade to a partial
	// snapshot instead of failing the listing.
	snap = snapshotFromPaddle(&paddle.Subscription{Status: "active", CreatedAt: "yesterday"})
	assert.Equal(t, StatusActive, snap.Status)
	assert.Nil(t, snap.CreatedAt)
	assert.Empty(t, snap.Name)
	assert.Zero(t, snap.TrialDays)
}

func TestProviderError(t *testing.T) {
	t.Parallel()

	t.Run("field errors enumerate into provider error", func(t *testing.T) {
		t.Parallel()

		sdkErr := &paddleerr.Error{
			Type:   paddleerr.ErrorTypeRequestError,
			Code:   "validation_error",
			Detail: "the request was rejected",
			Errors: []paddleerr.ValidationError{
				{Field: "items[0].price_id", Message: "is not a valid price id"},
				{Field: "custom_data", Message: "exceeds maximum size"},
			},
		}

		err := providerError("failed to create paddle transaction", fmt.Errorf("request failed: %w", sdkErr))

		var provErr *ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, []string{
			"items[0].price_id: is not a valid price id",
			"custom_data: exceeds maximum size",
		}, provErr.Messages)
	})

	t.Run("detail used when no field errors present", func(t *testing.T) {
		t.Parallel()

		sdkErr := &paddleerr.Error{
			Type:   paddleerr.ErrorTypeAPIError,
			Code:   "entity_not_found",
			Detail: "customer not found",
		}

		err := providerError("failed to list paddle subscriptions", sdkErr)

		var provErr *ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, []string{"customer not found"}, provErr.Messages)
	})

	t.Run("transport errors wrap with context", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		err := providerError("failed to list paddle subscriptions", cause)

		var provErr *ProviderError
		assert.False(t, errors.As(err, &provErr))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "failed to list paddle subscriptions")
	})
}

func TestNewPaddleProvider_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewPaddleProvider(PaddleConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewPaddleProvider(PaddleConfig{APIKey: "key", Environment: "staging"})
	assert.ErrorIs(t, err, ErrInvalidEnvironment)
}
