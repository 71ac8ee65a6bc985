// Package countdown computes the time left until the wedding.
package countdown

import (
	"context"
	"fmt"
	"time"
)

// Interval is how often Watch recomputes.
const Interval = time.Second

// TimeLeft is the countdown split into calendar units.
// Once the target has passed every counter is zero and EventPassed is set.
type TimeLeft struct {
	Days        int  `json:"days"`
	Hours       int  `json:"hours"`
	Minutes     int  `json:"minutes"`
	Seconds     int  `json:"seconds"`
	EventPassed bool `json:"eventPassed"`
}

// Compute returns the time from now until target.
func Compute(target, now time.Time) TimeLeft {
	d := target.Sub(now)
	if d <= 0 {
		return TimeLeft{EventPassed: true}
	}
	total := int64(d / time.Second)
	return TimeLeft{
		Days:    int(total / 86400),
		Hours:   int(total / 3600 % 24),
		Minutes: int(total / 60 % 60),
		Seconds: int(total % 60),
	}
}

// Pad renders a counter with at least two digits.
func Pad(n int) string {
	return fmt.Sprintf("%02d", n)
}

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Watch sends the countdown to emit immediately and then once per tick
// until ctx is cancelled or the event has passed. The terminal state is
// emitted once before Watch returns. An emit error stops the loop.
func Watch(ctx context.Context, target time.Time, now Clock, tick <-chan time.Time, emit func(TimeLeft) error) error {
	for {
		left := Compute(target, now())
		if err := emit(left); err != nil {
			return err
		}
		if left.EventPassed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}
