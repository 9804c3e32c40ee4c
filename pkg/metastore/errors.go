package metastore

import "errors"

var (
	ErrValueNotFound  = errors.New("metastore: value not found")
	ErrWriteFailed    = errors.New("metastore: failed to write value")
	ErrReadFailed     = errors.New("metastore: failed to read value")
	ErrEmptyNamespace = errors.New("metastore: namespace is required")
	ErrEmptyKey       = errors.New("metastore: key is required")
	ErrNilTenantID    = errors.New("metastore: tenant ID is required")
)
