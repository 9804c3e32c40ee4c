// Package usage tracks per-tenant, per-day consumption of a metered feature
// and enforces a fixed daily ceiling.
//
// The counter keeps one Record per tenant in a metastore.Store. A record
// carries the count and the calendar day it was accumulated on; when the day
// rolls over the old record is simply overwritten by a fresh one, so no
// explicit reset operation exists. A stored record whose date is not today,
// or that fails to parse, is treated as absent.
//
// Failure policy is asymmetric on purpose: read failures collapse into the
// "no prior state" path so a broken counter store never locks out a tenant,
// while write failures surface to the caller, which must deny the request.
// Under-counting is preferred over blocking legitimate use.
//
// The read-modify-write cycle is not transactional against the store.
// Concurrent requests for the same tenant can observe the same count and
// both write, losing an increment. The quota is therefore soft under heavy
// concurrency; see the package-level design notes before "fixing" this.
//
// Basic usage:
//
//	store := metastore.NewRedisStore(client, "meta")
//	counter := usage.NewCounter(store, usage.WithDailyLimit(100))
//
//	decision, err := counter.CheckAndIncrement(ctx, tenantID)
//	if err != nil {
//		// counter write failed; deny the request
//	}
//	if !decision.Allowed {
//		// daily limit reached
//	}
package usage
