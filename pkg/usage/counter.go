package usage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekit/pkg/metastore"
)

// DefaultDailyLimit is the number of metered requests a tenant may make per
// calendar day unless configured otherwise.
const DefaultDailyLimit = 100

const (
	defaultNamespace = "ai_generation"
	defaultKey       = "daily_usage"
)

// Decision is the outcome of a quota check. It is ephemeral; the persisted
// form is Record.
type Decision struct {
	Allowed bool
	Count   int
}

// Counter enforces the per-tenant daily quota on top of a metastore.Store.
type Counter struct {
	store     metastore.Store
	limit     int
	namespace string
	key       string
	now       func() time.Time
}

// CounterOption configures a Counter.
type CounterOption func(*Counter)

// WithDailyLimit overrides the default daily ceiling.
// Panics on non-positive limits to fail fast during initialization.
func WithDailyLimit(limit int) CounterOption {
	return func(c *Counter) {
		if limit <= 0 {
			panic(ErrInvalidLimit)
		}
		c.limit = limit
	}
}

// WithNamespace overrides the metastore namespace records are stored under.
func WithNamespace(namespace string) CounterOption {
	return func(c *Counter) {
		if namespace != "" {
			c.namespace = namespace
		}
	}
}

// WithClock injects the time source. The counter derives "today" from it in
// UTC, keeping day-rollover behavior deterministic under test.
func WithClock(now func() time.Time) CounterOption {
	return func(c *Counter) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCounter creates a Counter persisting through the given store.
// Panics if store is nil to fail fast during initialization.
func NewCounter(store metastore.Store, opts ...CounterOption) *Counter {
	if store == nil {
		panic("usage: metastore.Store is required")
	}

	c := &Counter{
		store:     store,
		limit:     DefaultDailyLimit,
		namespace: defaultNamespace,
		key:       defaultKey,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Limit returns the configured daily ceiling.
func (c *Counter) Limit() int {
	return c.limit
}

// Peek returns today's count without mutating state. Absent, stale and
// unreadable records all report 0.
func (c *Counter) Peek(ctx context.Context, tenantID uuid.UUID) int {
	rec, ok := c.read(ctx, tenantID)
	if !ok || !rec.IsFor(Day(c.now())) {
		return 0
	}
	return rec.Count
}

// CheckAndIncrement performs the read-modify-write quota cycle for one
// metered request:
//
//   - no usable record for today: a fresh record {1, today} is written and
//     the request is allowed. This single path covers both first use and the
//     implicit daily reset.
//   - count at or above the limit: the request is denied, nothing is
//     written, and the reported count stays frozen at the stored value.
//   - otherwise: the incremented record is written and the request allowed.
//
// A failed write returns ErrWriteFailed; no decision is made in that case
// and callers must deny the request.
func (c *Counter) CheckAndIncrement(ctx context.Context, tenantID uuid.UUID) (Decision, error) {
	today := Day(c.now())

	rec, ok := c.read(ctx, tenantID)
	if !ok || !rec.IsFor(today) {
		if err := c.write(ctx, tenantID, Record{Count: 1, Date: today}); err != nil {
			return Decision{}, err
		}
		return Decision{Allowed: true, Count: 1}, nil
	}

	if rec.Count >= c.limit {
		return Decision{Allowed: false, Count: rec.Count}, nil
	}

	next := Record{Count: rec.Count + 1, Date: today}
	if err := c.write(ctx, tenantID, next); err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: true, Count: next.Count}, nil
}

// read swallows every failure mode into "no record": absence, transport
// errors and malformed blobs all start a fresh day rather than propagate.
func (c *Counter) read(ctx context.Context, tenantID uuid.UUID) (Record, bool) {
	raw, err := c.store.Get(ctx, tenantID, c.namespace, c.key)
	if err != nil {
		return Record{}, false
	}
	return parseRecord(raw)
}

func (c *Counter) write(ctx context.Context, tenantID uuid.UUID, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	if err := c.store.Set(ctx, tenantID, c.namespace, c.key, raw); err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	return nil
}
