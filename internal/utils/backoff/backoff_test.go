package backoff

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponential(t *testing.T) {
	assert.Equal(t, 10*time.Millisecond, Exponential(10*time.Millisecond, 0))
	assert.Equal(t, 80*time.Millisecond, Exponential(10*time.Millisecond, 3))
	assert.Equal(t, 10*time.Millisecond, Exponential(10*time.Millisecond, -4))
	assert.Equal(t, time.Duration(0), Exponential(0, 3))
	assert.Equal(t, time.Duration(math.MaxInt64), Exponential(time.Hour, 62))
}

func TestFullJitter(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := FullJitter(time.Millisecond)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, time.Millisecond)
	}
	assert.Equal(t, time.Duration(0), FullJitter(-time.Second))
}

func TestSleepWithContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SleepWithContext(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetry(t *testing.T) {
	transient := errors.New("transient")
	fatal := errors.New("fatal")
	isTransient := func(err error) bool { return errors.Is(err, transient) }

	calls := 0
	err := Retry(context.Background(), 3, time.Microsecond, isTransient, func(context.Context) error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = Retry(context.Background(), 3, time.Microsecond, isTransient, func(context.Context) error {
		calls++
		return fatal
	})
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)

	calls = 0
	err = Retry(context.Background(), 2, time.Microsecond, isTransient, func(context.Context) error {
		calls++
		return transient
	})
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
}
