package usage

import "errors"

var (
	ErrWriteFailed  = errors.New("usage: failed to persist usage record")
	ErrInvalidLimit = errors.New("usage: daily limit must be positive")
)
