package cronjob

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(ctx)

	var runs, failures atomic.Int32
	require.NoError(t, s.Add("tick", "* * * * * *", func(context.Context) error {
		runs.Add(1)
		return nil
	}))
	require.NoError(t, s.Add("broken", "* * * * * *", func(context.Context) error {
		failures.Add(1)
		return errors.New("boom")
	}))

	done := make(chan struct{})
	go func() {
		s.Start()
		close(done)
	}()

	require.Eventually(t, func() bool { return runs.Load() > 0 && failures.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(context.Background())
	assert.Error(t, s.Add("bad", "every day", func(context.Context) error { return nil }))
	assert.Error(t, s.Add("five fields", "0 3 * * *", func(context.Context) error { return nil }))
}
