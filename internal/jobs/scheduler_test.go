package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsBadSpec(t *testing.T) {
	s := NewScheduler()

	err := s.Add("broken", "every tuesday", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Zero(t, s.Len())
}

func TestAddSkipsEmptySpec(t *testing.T) {
	s := NewScheduler()

	require.NoError(t, s.Add("disabled", "", func() {}))
	assert.Zero(t, s.Len())
}

func TestSchedulerRunsTasks(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32

	require.NoError(t, s.Add("tick", "@every 1s", func() { runs.Add(1) }))
	require.NoError(t, s.Add("daily", "0 3 * * *", func() {}))
	assert.Equal(t, 2, s.Len())

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestSchedulerRecoversFromPanic(t *testing.T) {
	s := NewScheduler()
	var after atomic.Bool

	require.NoError(t, s.Add("panics", "@every 1s", func() { panic("boom") }))
	require.NoError(t, s.Add("survivor", "@every 1s", func() { after.Store(true) }))

	s.Start()
	assert.Eventually(t, after.Load, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
