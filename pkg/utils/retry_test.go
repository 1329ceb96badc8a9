package utils_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rndrianasolo/commercepro/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	cfg := utils.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Multiplier:   2,
	}

	t.Run("succeeds on first attempt", func(t *testing.T) {
		calls := 0
		err := utils.Retry(cfg, func() error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("recovers after transient failures", func(t *testing.T) {
		calls := 0
		err := utils.Retry(cfg, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		wantErr := errors.New("still broken")
		calls := 0
		err := utils.Retry(cfg, func() error {
			calls++
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent errors short-circuit", func(t *testing.T) {
		notFound := errors.New("not found")
		calls := 0
		err := utils.Retry(cfg, func() error {
			calls++
			return notFound
		}, notFound)
		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("wrapped permanent errors short-circuit", func(t *testing.T) {
		notFound := errors.New("not found")
		calls := 0
		err := utils.Retry(cfg, func() error {
			calls++
			return errors.Join(errors.New("query failed"), notFound)
		}, notFound)
		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, 1, calls)
	})
}
