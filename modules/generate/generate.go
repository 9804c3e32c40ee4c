// Package generate exposes the metered AI-generation feature over HTTP.
// The module is deliberately thin: authentication, rendering and the
// generation content itself stay outside, injected as collaborators. Its
// only real job is to run the entitlement gate before the generation call
// and translate verdicts into responses.
package generate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekit/pkg/billing"
	"github.com/dmitrymomot/gatekit/pkg/entitlement"
)

// Generator produces text for a prompt. Invoked only after the entitlement
// gate has allowed the request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GateChecker runs the combined entitlement check for one request.
type GateChecker interface {
	Check(ctx context.Context, tenantID uuid.UUID) (entitlement.Decision, error)
}

// OfferCreator starts a new subscription offer for a tenant.
type OfferCreator interface {
	CreateOffer(ctx context.Context, tenantID uuid.UUID, returnURL string) (string, error)
}

// UsagePeeker reports today's usage without consuming quota.
type UsagePeeker interface {
	Peek(ctx context.Context, tenantID uuid.UUID) int
	Limit() int
}

// TenantResolver extracts the tenant identity from a request. Transport
// authentication is out of scope here; the default resolver trusts the
// X-Tenant-ID header and real deployments replace it with a session- or
// token-backed one.
type TenantResolver func(r *http.Request) (uuid.UUID, error)

func headerTenantResolver(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.Header.Get("X-Tenant-ID"))
}

// Service wires the entitlement engine to HTTP routes.
type Service struct {
	gate       GateChecker
	offers     OfferCreator
	usage      UsagePeeker
	generator  Generator
	tenantFrom TenantResolver
	health     func(context.Context) error
	log        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTenantResolver replaces the default header-based tenant resolver.
func WithTenantResolver(resolver TenantResolver) Option {
	return func(s *Service) {
		if resolver != nil {
			s.tenantFrom = resolver
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithHealthcheck wires a readiness probe into GET /healthz.
func WithHealthcheck(probe func(context.Context) error) Option {
	return func(s *Service) {
		if probe != nil {
			s.health = probe
		}
	}
}

// NewService creates the generation module.
// Panics on nil required collaborators to fail fast during initialization.
func NewService(gate GateChecker, offers OfferCreator, usage UsagePeeker, generator Generator, opts ...Option) *Service {
	if gate == nil {
		panic("generate: GateChecker is required")
	}
	if offers == nil {
		panic("generate: OfferCreator is required")
	}
	if usage == nil {
		panic("generate: UsagePeeker is required")
	}
	if generator == nil {
		panic("generate: Generator is required")
	}

	s := &Service{
		gate:       gate,
		offers:     offers,
		usage:      usage,
		generator:  generator,
		tenantFrom: headerTenantResolver,
		log:        slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handle returns the module router.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/generate", s.generate)
	r.Post("/subscribe", s.subscribe)
	r.Get("/usage", s.usageInfo)
	r.Get("/healthz", s.healthz)

	return r
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text          string `json:"text"`
	UsageCount    int    `json:"usage_count"`
	UsageLimit    int    `json:"usage_limit"`
	IsTrial       bool   `json:"is_trial"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`
}

func (s *Service) generate(w http.ResponseWriter, r *http.Request) {
	tenantID, err := s.tenantFrom(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unknown tenant")
		return
	}

	var req generateRequest
	if err := decodeJSON(r, &req); err != nil || req.Prompt == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	decision, err := s.gate.Check(r.Context(), tenantID)
	if err != nil {
		s.log.ErrorContext(r.Context(), "entitlement check failed",
			slog.String("tenant_id", tenantID.String()),
			slog.Any("error", err),
		)
		respondError(w, http.StatusServiceUnavailable, "could not verify access, please try again")
		return
	}

	if !decision.Allowed {
		switch decision.Reason {
		case entitlement.ReasonSubscriptionRequired:
			respondError(w, http.StatusPaymentRequired, "access requires an active subscription or unexpired trial")
		case entitlement.ReasonDailyLimitReached:
			respondError(w, http.StatusTooManyRequests, "daily limit reached")
		default:
			respondError(w, http.StatusForbidden, "access denied")
		}
		return
	}

	text, err := s.generator.Generate(r.Context(), req.Prompt)
	if err != nil {
		s.log.ErrorContext(r.Context(), "generation failed",
			slog.String("tenant_id", tenantID.String()),
			slog.Any("error", err),
		)
		respondError(w, http.StatusBadGateway, "generation failed")
		return
	}

	respondJSON(w, http.StatusOK, generateResponse{
		Text:          text,
		UsageCount:    decision.UsageCount,
		UsageLimit:    s.usage.Limit(),
		IsTrial:       decision.State.IsTrial,
		DaysRemaining: decision.State.DaysRemaining,
	})
}

type subscribeRequest struct {
	ReturnURL string `json:"return_url"`
}

type subscribeResponse struct {
	ConfirmationURL string `json:"confirmation_url"`
}

func (s *Service) subscribe(w http.ResponseWriter, r *http.Request) {
	tenantID, err := s.tenantFrom(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unknown tenant")
		return
	}

	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil || req.ReturnURL == "" {
		respondError(w, http.StatusBadRequest, "return_url is required")
		return
	}

	confirmationURL, err := s.offers.CreateOffer(r.Context(), tenantID, req.ReturnURL)
	if err != nil {
		var providerErr *billing.ProviderError
		switch {
		case errors.As(err, &providerErr):
			respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "billing provider rejected the subscription",
				"errors": providerErr.Messages,
			})
		default:
			s.log.ErrorContext(r.Context(), "subscription offer failed",
				slog.String("tenant_id", tenantID.String()),
				slog.Any("error", err),
			)
			respondError(w, http.StatusBadGateway, "could not create subscription")
		}
		return
	}

	respondJSON(w, http.StatusOK, subscribeResponse{ConfirmationURL: confirmationURL})
}

type usageResponse struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}

func (s *Service) usageInfo(w http.ResponseWriter, r *http.Request) {
	tenantID, err := s.tenantFrom(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unknown tenant")
		return
	}

	respondJSON(w, http.StatusOK, usageResponse{
		Count: s.usage.Peek(r.Context(), tenantID),
		Limit: s.usage.Limit(),
	})
}

func (s *Service) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
