package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tinypub/internal/config"
	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

func TestFromConfigDefaults(t *testing.T) {
	p := FromConfig(config.RetryConfig{})
	assert.Equal(t, config.RetryBackoffLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Zero(t, p.MaxRetries)
}

func TestFromConfigClampsInitial(t *testing.T) {
	p := FromConfig(config.RetryConfig{Backoff: config.RetryBackoffFixed, Initial: 5 * time.Second, Max: 2 * time.Second, MaxRetries: 5})
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, config.RetryBackoffFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)
}

func TestDelayModes(t *testing.T) {
	tests := []struct {
		mode config.RetryBackoffMode
		want []time.Duration
	}{
		{config.RetryBackoffFixed, []time.Duration{100, 100, 100, 100}},
		{config.RetryBackoffLinear, []time.Duration{100, 200, 300, 350}},
		{config.RetryBackoffExponential, []time.Duration{100, 200, 350, 350}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := Policy{Mode: tt.mode, Initial: 100 * time.Millisecond, Max: 350 * time.Millisecond}
			for i, want := range tt.want {
				assert.Equal(t, want*time.Millisecond, p.Delay(i+1), "retry %d", i+1)
			}
			assert.Zero(t, p.Delay(0))
		})
	}
}

func TestDo(t *testing.T) {
	p := Policy{Mode: config.RetryBackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 3}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), p, "test", func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("unavailable")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), p, "test", func(context.Context) error {
			calls++
			return errors.New("down")
		})
		require.EqualError(t, err, "down")
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry permanent classified errors", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), p, "test", func(context.Context) error {
			calls++
			return ferrors.ConfigError("bad url").Build()
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries retryable classified errors", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), p, "test", func(context.Context) error {
			calls++
			return ferrors.StateError("unavailable").Retryable().Build()
		})
		require.Error(t, err)
		assert.Equal(t, 4, calls)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := Policy{Mode: config.RetryBackoffFixed, Initial: time.Hour, Max: time.Hour, MaxRetries: 3}
		calls := 0
		err := Do(ctx, slow, "test", func(context.Context) error {
			calls++
			cancel()
			return errors.New("down")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
