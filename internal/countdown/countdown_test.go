package countdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wedding = time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want TimeLeft
	}{
		{
			name: "days ahead",
			now:  wedding.Add(-(3*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second)),
			want: TimeLeft{Days: 3, Hours: 4, Minutes: 5, Seconds: 6},
		},
		{
			name: "sub-second remainder floors",
			now:  wedding.Add(-1500 * time.Millisecond),
			want: TimeLeft{Seconds: 1},
		},
		{
			name: "under one second left",
			now:  wedding.Add(-time.Millisecond),
			want: TimeLeft{},
		},
		{
			name: "exactly at target",
			now:  wedding,
			want: TimeLeft{EventPassed: true},
		},
		{
			name: "long past",
			now:  wedding.Add(400 * 24 * time.Hour),
			want: TimeLeft{EventPassed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(wedding, tt.now))
		})
	}
}

func TestComputeNeverNegative(t *testing.T) {
	left := Compute(wedding, wedding.Add(time.Hour))
	assert.True(t, left.EventPassed)
	assert.Zero(t, left.Days)
	assert.Zero(t, left.Hours)
	assert.Zero(t, left.Minutes)
	assert.Zero(t, left.Seconds)
}

func TestPad(t *testing.T) {
	assert.Equal(t, "00", Pad(0))
	assert.Equal(t, "07", Pad(7))
	assert.Equal(t, "365", Pad(365))
}

// fakeClock advances by one second on every read after the first.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Second)
	return t
}

func TestWatchStopsAtEventPassed(t *testing.T) {
	clock := &fakeClock{now: wedding.Add(-2 * time.Second)}
	tick := make(chan time.Time, 5)
	for i := 0; i < 5; i++ {
		tick <- time.Time{}
	}

	var got []TimeLeft
	err := Watch(context.Background(), wedding, clock.Now, tick, func(l TimeLeft) error {
		got = append(got, l)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, TimeLeft{Seconds: 2}, got[0])
	assert.Equal(t, TimeLeft{Seconds: 1}, got[1])
	assert.Equal(t, TimeLeft{EventPassed: true}, got[2])
}

func TestWatchPastTargetEmitsOnce(t *testing.T) {
	calls := 0
	err := Watch(context.Background(), wedding, func() time.Time { return wedding.Add(time.Hour) }, nil, func(l TimeLeft) error {
		calls++
		assert.True(t, l.EventPassed)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Watch(ctx, wedding, func() time.Time { return wedding.Add(-time.Hour) }, make(chan time.Time), func(TimeLeft) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWatchEmitError(t *testing.T) {
	boom := errors.New("client gone")
	err := Watch(context.Background(), wedding, func() time.Time { return wedding.Add(-time.Hour) }, nil, func(TimeLeft) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
