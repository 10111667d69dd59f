package stats

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrJobRunning is returned when a job with the same name is already in
// flight; overlapping runs would double-count.
var ErrJobRunning = errors.New("job already running")

// Scheduler drives the daily aggregation and the weekly retention sweep on
// plain timers. Jobs are guarded by a per-name single-flight lock, so a
// slow run can never overlap with the next trigger or with an operator
// replay of the same date.
type Scheduler struct {
	agg     *Aggregator
	sweeper *Sweeper
	loc     *time.Location
	hour    int
	log     *zap.SugaredLogger

	mu      sync.Mutex
	running map[string]struct{}

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewScheduler wires the scheduler. hour is the local hour of day at which
// the daily aggregation fires (the weekly sweep fires at the same hour on
// Sundays).
func NewScheduler(agg *Aggregator, sweeper *Sweeper, loc *time.Location, hour int, log *zap.SugaredLogger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scheduler{
		agg:     agg,
		sweeper: sweeper,
		loc:     loc,
		hour:    hour,
		log:     log,
		running: map[string]struct{}{},
		quit:    make(chan struct{}),
	}
}

// Start launches the timer loops.
func (s *Scheduler) Start() {
	s.wg.Add(2)
	go s.loop("daily aggregation", s.nextDaily, s.runDailyAggregation)
	go s.loop("weekly sweep", s.nextWeekly, s.runWeeklySweep)
}

// Stop terminates the timer loops and waits for them to exit. An in-flight
// job finishes its current per-campground unit before the process exits.
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}

func (s *Scheduler) loop(what string, next func(time.Time) time.Time, run func()) {
	defer s.wg.Done()
	for {
		fireAt := next(time.Now().In(s.loc))
		timer := time.NewTimer(time.Until(fireAt))
		s.log.Infof("%s scheduled for %s", what, fireAt.Format(time.RFC3339))
		select {
		case <-timer.C:
			run()
		case <-s.quit:
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) nextDaily(now time.Time) time.Time {
	return nextDailyRun(now, s.hour)
}

func (s *Scheduler) nextWeekly(now time.Time) time.Time {
	return nextWeeklyRun(now, time.Sunday, s.hour)
}

func (s *Scheduler) runDailyAggregation() {
	target := time.Now().In(s.loc).AddDate(0, 0, -1)
	if err := s.AggregateDate(target); err != nil {
		s.log.Errorw("daily stats aggregation failed",
			"date", target.Format("2006-01-02"), "error", err)
		return
	}
	s.log.Infow("daily stats aggregation done", "date", target.Format("2006-01-02"))
}

func (s *Scheduler) runWeeklySweep() {
	if err := s.Run("sweep", func() error {
		deleted, err := s.sweeper.Sweep()
		if err != nil {
			return err
		}
		s.log.Infow("view log sweep done", "deleted", deleted)
		return nil
	}); err != nil {
		s.log.Errorw("view log sweep failed", "error", err)
	}
}

// AggregateDate recomputes the rollup for one calendar day under the same
// single-flight guard the timer uses; operators call this through the admin
// replay endpoint.
func (s *Scheduler) AggregateDate(date time.Time) error {
	name := "aggregate:" + date.In(s.loc).Format("2006-01-02")
	return s.Run(name, func() error {
		return s.agg.AggregateDay(date.In(s.loc))
	})
}

// Run executes fn under the per-name single-flight guard, converting panics
// into errors so a bad batch cannot take the process down.
func (s *Scheduler) Run(name string, fn func() error) (err error) {
	if !s.tryAcquire(name) {
		return ErrJobRunning
	}
	defer s.release(name)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
	}()
	return fn()
}

func (s *Scheduler) tryAcquire(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.running[name]; busy {
		return false
	}
	s.running[name] = struct{}{}
	return true
}

func (s *Scheduler) release(name string) {
	s.mu.Lock()
	delete(s.running, name)
	s.mu.Unlock()
}

// nextDailyRun returns the next occurrence of hour o'clock after now, in
// now's location.
func nextDailyRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextWeeklyRun returns the next occurrence of hour o'clock on the given
// weekday after now, in now's location.
func nextWeeklyRun(now time.Time, weekday time.Weekday, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	for next.Weekday() != weekday || !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
