// Package metastore provides access to remote, tenant-scoped key/value
// metadata. Values are opaque byte blobs addressed by (tenant, namespace, key);
// the package ships a Redis-backed store for production and an in-memory store
// for tests and local development.
package metastore
