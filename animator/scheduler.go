package animator

import (
	"context"
	"time"
)

// Scheduler runs a tick function on a fixed period. Each iteration measures
// its own cost and sleeps for the rest of the period, but never less than
// MinSleep.
type Scheduler struct {
	Period   time.Duration
	MinSleep time.Duration

	now func() time.Time
}

// NewScheduler returns a scheduler with the given period and sleep floor.
func NewScheduler(period, minSleep time.Duration) *Scheduler {
	return &Scheduler{Period: period, MinSleep: minSleep, now: time.Now}
}

// Pace returns how long to sleep after a tick that took elapsed.
func Pace(period, minSleep, elapsed time.Duration) time.Duration {
	return max(minSleep, period-elapsed)
}

// Run calls tick until it returns false or ctx is done. It returns ctx.Err()
// when cancelled and nil otherwise.
func (s *Scheduler) Run(ctx context.Context, tick func() bool) error {
	now := s.now
	if now == nil {
		now = time.Now
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := now()
		if !tick() {
			return nil
		}
		timer.Reset(Pace(s.Period, s.MinSleep, now().Sub(start)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}
