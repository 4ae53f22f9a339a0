package schedule

import (
	"context"
	"time"
)

// Scheduler runs a job at a fixed interval.
type Scheduler struct {
	Every time.Duration
}

// Next returns the time of the run after now, or the zero time when the
// scheduler is disabled.
func (s *Scheduler) Next(now time.Time) time.Time {
	if s.Every <= 0 {
		return time.Time{}
	}
	return now.Add(s.Every)
}

// Run calls job every s.Every until ctx is done. A failing run is handed
// to onErr (when set) and does not stop later runs. Run returns at once
// when the scheduler is disabled.
func (s *Scheduler) Run(ctx context.Context, job func(context.Context) error, onErr func(error)) {
	next := s.Next(time.Now())
	if next.IsZero() {
		return
	}
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := job(ctx); err != nil && onErr != nil && ctx.Err() == nil {
				onErr(err)
			}
			timer.Reset(time.Until(s.Next(time.Now())))
		}
	}
}
