package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerSingleFlight(t *testing.T) {
	s := NewScheduler(nil, nil, time.UTC, 0, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Run("aggregate:2026-08-30", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	// Same job name while in flight is rejected.
	err := s.Run("aggregate:2026-08-30", func() error { return nil })
	assert.ErrorIs(t, err, ErrJobRunning)

	// A different name is an independent job.
	assert.NoError(t, s.Run("aggregate:2026-08-29", func() error { return nil }))

	close(release)
	require.NoError(t, <-done)

	// Once released, the name is free again.
	assert.NoError(t, s.Run("aggregate:2026-08-30", func() error { return nil }))
}

func TestSchedulerRunRecoversPanic(t *testing.T) {
	s := NewScheduler(nil, nil, time.UTC, 0, nil)

	err := s.Run("sweep", func() error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	// The guard must be released even after a panic.
	assert.NoError(t, s.Run("sweep", func() error { return nil }))
}

func TestNextDailyRun(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 31, 10, 30, 0, 0, loc)

	next := nextDailyRun(now, 0)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, loc), next)

	next = nextDailyRun(now, 11)
	assert.Equal(t, time.Date(2026, 8, 31, 11, 0, 0, 0, loc), next)

	// Exactly at the trigger instant schedules the following day.
	at := time.Date(2026, 8, 31, 11, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 9, 1, 11, 0, 0, 0, loc), nextDailyRun(at, 11))
}

func TestNextWeeklyRun(t *testing.T) {
	loc := time.UTC
	// 2026-08-31 is a Monday.
	now := time.Date(2026, 8, 31, 10, 30, 0, 0, loc)

	next := nextWeeklyRun(now, time.Sunday, 0)
	assert.Equal(t, time.Date(2026, 9, 6, 0, 0, 0, 0, loc), next)
	assert.Equal(t, time.Sunday, next.Weekday())

	// From a Sunday before the trigger hour, the run is the same day.
	sunday := time.Date(2026, 9, 6, 1, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 9, 6, 2, 0, 0, 0, loc), nextWeeklyRun(sunday, time.Sunday, 2))
}
