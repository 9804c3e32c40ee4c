package generate_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/modules/generate"
	"github.com/dmitrymomot/gatekit/pkg/billing"
	"github.com/dmitrymomot/gatekit/pkg/entitlement"
)

type stubGate struct {
	decision entitlement.Decision
	err      error
	calls    int
}

func (s *stubGate) Check(ctx context.Context, tenantID uuid.UUID) (entitlement.Decision, error) {
	s.calls++
	return s.decision, s.err
}

type stubOffers struct {
	url string
	err error
}

func (s *stubOffers) CreateOffer(ctx context.Context, tenantID uuid.UUID, returnURL string) (string, error) {
	return s.url, s.err
}

type stubUsage struct {
	count int
	limit int
}

func (s *stubUsage) Peek(ctx context.Context, tenantID uuid.UUID) int { return s.count }
func (s *stubUsage) Limit() int                                       { return s.limit }

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.text, s.err
}

type deps struct {
	gate      *stubGate
	offers    *stubOffers
	usage     *stubUsage
	generator *stubGenerator
}

func newTestService(t *testing.T, d deps) http.Handler {
	t.Helper()
	if d.gate == nil {
		d.gate = &stubGate{decision: entitlement.Decision{Allowed: true, Reason: entitlement.ReasonOK, UsageCount: 1}}
	}
	if d.offers == nil {
		d.offers = &stubOffers{url: "https://billing.example.com/confirm"}
	}
	if d.usage == nil {
		d.usage = &stubUsage{count: 1, limit: 100}
	}
	if d.generator == nil {
		d.generator = &stubGenerator{text: "generated text"}
	}

	svc := generate.NewService(d.gate, d.offers, d.usage, d.generator,
		generate.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return svc.Handle()
}

func doJSON(t *testing.T, h http.Handler, method, path, tenant, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if tenant != "" {
		req.Header.Set("X-Tenant-ID", tenant)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tenant := uuid.NewString()

	t.Run("allowed request returns text and usage", func(t *testing.T) {
		remaining := 9
		gate := &stubGate{decision: entitlement.Decision{
			Allowed:    true,
			Reason:     entitlement.ReasonOK,
			State:      entitlement.State{HasAccess: true, IsTrial: true, DaysRemaining: &remaining},
			UsageCount: 5,
		}}
		gen := &stubGenerator{text: "a poem"}
		h := newTestService(t, deps{gate: gate, generator: gen, usage: &stubUsage{count: 5, limit: 100}})

		rec := doJSON(t, h, http.MethodPost, "/generate", tenant, `{"prompt":"write a poem"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "a poem", resp["text"])
		assert.EqualValues(t, 5, resp["usage_count"])
		assert.EqualValues(t, 100, resp["usage_limit"])
		assert.Equal(t, true, resp["is_trial"])
		assert.EqualValues(t, 9, resp["days_remaining"])
		assert.Equal(t, 1, gen.calls)
	})

	t.Run("no subscription yields payment required", func(t *testing.T) {
		gate := &stubGate{decision: entitlement.Decision{Reason: entitlement.ReasonSubscriptionRequired}}
		gen := &stubGenerator{}
		h := newTestService(t, deps{gate: gate, generator: gen})

		rec := doJSON(t, h, http.MethodPost, "/generate", tenant, `{"prompt":"hi"}`)
		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Contains(t, rec.Body.String(), "active subscription or unexpired trial")
		assert.Equal(t, 0, gen.calls, "generation must not run when denied")
	})

	t.Run("exhausted quota yields too many requests", func(t *testing.T) {
		gate := &stubGate{decision: entitlement.Decision{
			Reason:     entitlement.ReasonDailyLimitReached,
			State:      entitlement.State{HasAccess: true},
			UsageCount: 100,
		}}
		gen := &stubGenerator{}
		h := newTestService(t, deps{gate: gate, generator: gen})

		rec := doJSON(t, h, http.MethodPost, "/generate", tenant, `{"prompt":"hi"}`)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "daily limit reached")
		assert.Equal(t, 0, gen.calls)
	})

	t.Run("gate failure yields service unavailable", func(t *testing.T) {
		gate := &stubGate{err: errors.New("counter write failed")}
		gen := &stubGenerator{}
		h := newTestService(t, deps{gate: gate, generator: gen})

		rec := doJSON(t, h, http.MethodPost, "/generate", tenant, `{"prompt":"hi"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, 0, gen.calls)
	})

	t.Run("generator failure yields bad gateway", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("model unavailable")}
		h := newTestService(t, deps{generator: gen})

		rec := doJSON(t, h, http.MethodPost, "/generate", tenant, `{"prompt":"hi"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing prompt", func(t *testing.T) {
		h := newTestService(t, deps{})
		rec := doJSON(t, h, http.MethodPost, "/generate", tenant, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		gate := &stubGate{}
		h := newTestService(t, deps{gate: gate})

		rec := doJSON(t, h, http.MethodPost, "/generate", "not-a-uuid", `{"prompt":"hi"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 0, gate.calls)
	})
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	tenant := uuid.NewString()

	t.Run("returns confirmation URL", func(t *testing.T) {
		h := newTestService(t, deps{offers: &stubOffers{url: "https://billing.example.com/confirm/xyz"}})

		rec := doJSON(t, h, http.MethodPost, "/subscribe", tenant, `{"return_url":"https://app.example.com/done"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "https://billing.example.com/confirm/xyz", resp["confirmation_url"])
	})

	t.Run("provider rejection enumerates messages", func(t *testing.T) {
		h := newTestService(t, deps{offers: &stubOffers{
			err: billing.NewProviderError("price: must be positive", "name: is required"),
		}})

		rec := doJSON(t, h, http.MethodPost, "/subscribe", tenant, `{"return_url":"https://app.example.com/done"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Errors []string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"price: must be positive", "name: is required"}, resp.Errors)
	})

	t.Run("missing confirmation URL is a gateway failure", func(t *testing.T) {
		h := newTestService(t, deps{offers: &stubOffers{err: billing.ErrNoConfirmationURL}})

		rec := doJSON(t, h, http.MethodPost, "/subscribe", tenant, `{"return_url":"https://app.example.com/done"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing return URL", func(t *testing.T) {
		h := newTestService(t, deps{})
		rec := doJSON(t, h, http.MethodPost, "/subscribe", tenant, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUsageEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestService(t, deps{usage: &stubUsage{count: 42, limit: 100}})

	rec := doJSON(t, h, http.MethodGet, "/usage", uuid.NewString(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp["count"])
	assert.Equal(t, 100, resp["limit"])
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	t.Run("ok without probe", func(t *testing.T) {
		h := newTestService(t, deps{})
		rec := doJSON(t, h, http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failing probe", func(t *testing.T) {
		svc := generate.NewService(
			&stubGate{}, &stubOffers{}, &stubUsage{}, &stubGenerator{},
			generate.WithHealthcheck(func(context.Context) error { return errors.New("redis down") }),
		)
		rec := doJSON(t, svc.Handle(), http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestNewService_Validation(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { generate.NewService(nil, &stubOffers{}, &stubUsage{}, &stubGenerator{}) })
	assert.Panics(t, func() { generate.NewService(&stubGate{}, nil, &stubUsage{}, &stubGenerator{}) })
	assert.Panics(t, func() { generate.NewService(&stubGate{}, &stubOffers{}, nil, &stubGenerator{}) })
	assert.Panics(t, func() { generate.NewService(&stubGate{}, &stubOffers{}, &stubUsage{}, nil) })
}
