package state

import (
	"context"

	"git.home.luguber.info/inful/tinypub/internal/config"
	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
	"git.home.luguber.info/inful/tinypub/internal/retry"
)

// Store is a key-value store of build records.
type Store interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written or was deleted.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists every stored key in lexical order.
	Keys(ctx context.Context) ([]string, error)
	// Backend names the implementation for logs.
	Backend() string
	Close() error
}

// Flusher is implemented by stores that buffer writes. Callers flush once at
// the end of a build instead of paying for every Put.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Flush writes buffered records when store supports it.
func Flush(ctx context.Context, store Store) error {
	if f, ok := store.(Flusher); ok {
		return f.Flush(ctx)
	}
	return nil
}

// Open creates the store selected by cfg.
func Open(ctx context.Context, cfg config.StateConfig) (Store, error) {
	switch cfg.Backend {
	case config.StateBackendJSON, "":
		return NewJSONStore(cfg.Path)
	case config.StateBackendSQLite:
		return NewSQLiteStore(ctx, cfg.Path)
	case config.StateBackendNATS:
		return dial(ctx, cfg, func(ctx context.Context) (Store, error) {
			return NewNATSStore(ctx, cfg.URL, cfg.Bucket)
		})
	case config.StateBackendRedis:
		return dial(ctx, cfg, func(ctx context.Context) (Store, error) {
			return NewRedisStore(ctx, cfg.URL, cfg.Bucket)
		})
	default:
		return nil, ferrors.ConfigError("unknown state backend").
			WithContext("state.backend", string(cfg.Backend)).
			Build()
	}
}

// dial connects to a remote backend, retrying per cfg.Retry.
func dial(ctx context.Context, cfg config.StateConfig, connect func(context.Context) (Store, error)) (Store, error) {
	var store Store
	err := retry.Do(ctx, retry.FromConfig(cfg.Retry), "connect state "+string(cfg.Backend), func(ctx context.Context) error {
		var err error
		store, err = connect(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func storeError(backend, op string, err error) error {
	return ferrors.StateError("state "+op+" failed").
		WithContext("backend", backend).
		WithCause(err).
		Build()
}

// unavailableError marks a connection failure that may succeed on retry.
func unavailableError(backend, op string, err error) error {
	return ferrors.StateError("state "+op+" failed").
		WithContext("backend", backend).
		WithCause(err).
		Retryable().
		Build()
}
