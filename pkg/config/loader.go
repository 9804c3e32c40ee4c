package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: destination must be a non-nil pointer")
	// ErrParseFailed wraps env parsing failures.
	ErrParseFailed = errors.New("config: failed to parse environment")
)

var dotenvOnce sync.Once

// Load populates cfg from environment variables according to `env` struct
// tags. The default .env file is loaded once per process before the first
// parse; a missing .env file is not an error.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParseFailed, err)
	}
	return nil
}

// MustLoad is Load that panics on failure. Intended for application startup
// where a misconfigured environment should prevent the process from running.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Errorf("config: %w", err))
	}
}
