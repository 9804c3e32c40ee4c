// Package billing abstracts the payment provider that owns subscription
// state. The provider is the source of truth: this package only reads
// subscription snapshots and creates new offers, it never mirrors or caches
// provider state locally.
//
// A Paddle implementation is included. Other providers (Stripe,
// Lemonsqueezy) can be plugged in by implementing Provider.
package billing
