package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.True(t, (&Scheduler{}).Next(now).IsZero())
	assert.Equal(t, now.Add(time.Minute), (&Scheduler{Every: time.Minute}).Next(now))
}

func TestRunRepeatsAndSurvivesErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var runs, fails atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		(&Scheduler{Every: 5 * time.Millisecond}).Run(ctx, func(context.Context) error {
			if runs.Add(1)%2 == 0 {
				return errors.New("flaky")
			}
			return nil
		}, func(error) { fails.Add(1) })
	}()

	require.Eventually(t, func() bool { return fails.Load() >= 2 }, 2*time.Second, time.Millisecond)
	cancel()
	<-done
	assert.GreaterOrEqual(t, runs.Load(), int32(4))
}

func TestRunDisabledReturns(t *testing.T) {
	called := false
	(&Scheduler{}).Run(context.Background(), func(context.Context) error { called = true; return nil }, nil)
	assert.False(t, called)
}
