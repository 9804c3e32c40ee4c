// Package entitlement decides whether a tenant may use the metered
// AI-generation feature. Two independent gates are composed into a single
// verdict:
//
//   - the Resolver classifies the tenant's subscription state from the
//     billing provider's data (paid, unexpired trial, or nothing), and
//   - the usage Counter enforces the rolling daily quota.
//
// Ordering is significant: the counter is only consulted (and usage only
// consumed) after the subscription gate has granted access, and callers must
// only reach the generation step when both gates pass.
//
// State is derived fresh on every check. The billing provider is the source
// of truth and trial expiry is time-dependent, so nothing here is cached
// across requests.
//
// Typical wiring:
//
//	provider, _ := billing.NewPaddleProvider(paddleCfg)
//	counter := usage.NewCounter(store, usage.WithDailyLimit(cfg.DailyLimit))
//	resolver := entitlement.NewResolver(provider, cfg)
//	gate := entitlement.NewGate(resolver, counter, cfg)
//
//	decision, err := gate.Check(ctx, tenantID)
package entitlement
