package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/PaddleHQ/paddle-go-sdk/v4/pkg/paddleerr"
	"github.com/google/uuid"
)

// PaddleConfig holds configuration for the Paddle billing provider.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY,required"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
	// PriceID is the catalog price implementing this application's fixed
	// offer. Paddle hosts prices in its catalog, so the offer's amount,
	// interval and trial length must be configured there under this ID.
	PriceID string `env:"PADDLE_PRICE_ID,required"`
}

// PaddleProvider implements Provider for Paddle.
type PaddleProvider struct {
	client *paddle.SDK
	config PaddleConfig
}

// NewPaddleProvider creates a new Paddle billing provider.
func NewPaddleProvider(config PaddleConfig) (*PaddleProvider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var client *paddle.SDK
	var err error

	switch strings.ToLower(config.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(config.APIKey)
	case "production", "":
		client, err = paddle.New(config.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnvironment, config.Environment)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return &PaddleProvider{
		client: client,
		config: config,
	}, nil
}

// ListSubscriptions returns every subscription the tenant holds in Paddle.
func (p *PaddleProvider) ListSubscriptions(ctx context.Context, tenantID uuid.UUID) ([]SubscriptionSnapshot, error) {
	if tenantID == uuid.Nil {
		return nil, ErrMissingTenantID
	}

	res, err := p.client.SubscriptionsClient.ListSubscriptions(ctx, &paddle.ListSubscriptionsRequest{
		CustomerID: []string{tenantID.String()},
	})
	if err != nil {
		return nil, providerError("failed to list paddle subscriptions", err)
	}

	snapshots := make([]SubscriptionSnapshot, 0)
	if err := res.Iter(ctx, func(sub *paddle.Subscription) (bool, error) {
		snapshots = append(snapshots, snapshotFromPaddle(sub))
		return true, nil
	}); err != nil {
		return nil, providerError("failed to iterate paddle subscriptions", err)
	}

	return snapshots, nil
}

// CreateSubscription creates a catalog transaction for the configured price
// and returns its hosted checkout URL as the confirmation the tenant must
// approve. The offer terms travel in custom data for reconciliation; the
// canonical price lives in the Paddle catalog under PaddleConfig.PriceID.
func (p *PaddleProvider) CreateSubscription(ctx context.Context, tenantID uuid.UUID, offer Offer) (*Confirmation, error) {
	if tenantID == uuid.Nil {
		return nil, ErrMissingTenantID
	}
	if offer.ProductName == "" {
		return nil, ErrMissingProduct
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  p.config.PriceID,
		Quantity: 1,
	})

	transactionReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"tenant_id":     tenantID.String(),
			"product_name":  offer.ProductName,
			"price_amount":  offer.Price.Amount,
			"currency":      offer.Price.Currency,
			"interval_days": offer.IntervalDays,
			"trial_days":    offer.TrialDays,
		},
	}

	if offer.ReturnURL != "" {
		transactionReq.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(offer.ReturnURL),
		}
	}

	transaction, err := p.client.TransactionsClient.CreateTransaction(ctx, transactionReq)
	if err != nil {
		return nil, providerError("failed to create paddle transaction", err)
	}

	if transaction.Checkout == nil || transaction.Checkout.URL == nil || *transaction.Checkout.URL == "" {
		return nil, ErrNoConfirmationURL
	}

	return &Confirmation{URL: *transaction.Checkout.URL}, nil
}

// snapshotFromPaddle converts a Paddle subscription into the normalized view.
// The subscription's first item carries the product and price; Paddle
// subscriptions created by this application always have exactly one item.
func snapshotFromPaddle(sub *paddle.Subscription) SubscriptionSnapshot {
	snap := SubscriptionSnapshot{
		Status: normalizePaddleStatus(string(sub.Status)),
	}

	if created, err := time.Parse(time.RFC3339, sub.CreatedAt); err == nil {
		snap.CreatedAt = &created
	}

	if len(sub.Items) > 0 {
		item := sub.Items[0]
		snap.Name = item.Product.Name
		if tp := item.Price.TrialPeriod; tp != nil {
			snap.TrialDays = trialPeriodDays(string(tp.Interval), int(tp.Frequency))
		}
	}

	return snap
}

// trialPeriodDays flattens a provider trial period into whole days.
func trialPeriodDays(interval string, frequency int) int {
	if frequency <= 0 {
		return 0
	}
	switch interval {
	case "day":
		return frequency
	case "week":
		return frequency * 7
	case "month":
		return frequency * 30
	case "year":
		return frequency * 365
	default:
		return 0
	}
}

// normalizePaddleStatus maps Paddle subscription statuses to the normalized
// set. Unknown statuses pass through unchanged so the resolver's default
// branch handles them as no-access.
func normalizePaddleStatus(status string) SubscriptionStatus {
	switch strings.ToLower(status) {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due", "paused":
		return StatusFrozen
	case "canceled", "cancelled":
		return StatusCancelled
	case "expired":
		return StatusExpired
	default:
		return SubscriptionStatus(status)
	}
}

// providerError converts SDK failures into the package error contract.
// Field-level rejections become *ProviderError with every message the
// provider returned; anything else wraps the transport error.
func providerError(msg string, err error) error {
	var pErr *paddleerr.Error
	if errors.As(err, &pErr) {
		messages := make([]string, 0, len(pErr.Errors)+1)
		for _, fe := range pErr.Errors {
			messages = append(messages, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
		}
		if len(messages) == 0 && pErr.Detail != "" {
			messages = append(messages, pErr.Detail)
		}
		return NewProviderError(messages...)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
