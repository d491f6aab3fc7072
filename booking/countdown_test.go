package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 15*time.Minute, Remaining(now, now.Add(15*time.Minute)))
	assert.Equal(t, time.Duration(0), Remaining(now, now))
	assert.Equal(t, time.Duration(0), Remaining(now, now.Add(-time.Minute)), "past expiry clamps to zero")
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "15:00", FormatRemaining(15*time.Minute))
	assert.Equal(t, "9:05", FormatRemaining(9*time.Minute+5*time.Second))
	assert.Equal(t, "0:59", FormatRemaining(59*time.Second))
	assert.Equal(t, "0:00", FormatRemaining(0))
}

func TestCountdown_TicksDownAndExpiresOnce(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var mu sync.Mutex
	now := start
	ticks := []time.Duration{}
	expires := 0
	done := make(chan struct{})

	c := &Countdown{
		ExpiresAt: start.Add(2 * time.Second),
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			t := now
			now = now.Add(time.Second)
			return t
		},
		OnTick: func(remaining time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			ticks = append(ticks, remaining)
		},
		OnExpire: func() {
			expires++
			close(done)
		},
	}
	c.Start(context.Background())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("countdown never expired")
	}
	c.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(ticks), 2)
	for i := 1; i < len(ticks); i++ {
		assert.Less(t, ticks[i], ticks[i-1], "remaining time strictly decreases")
	}
	assert.Equal(t, time.Duration(0), ticks[len(ticks)-1], "final tick shows zero")
	assert.Equal(t, 1, expires)
}

func TestCountdown_AlreadyExpiredFiresImmediately(t *testing.T) {
	done := make(chan struct{})
	c := &Countdown{
		ExpiresAt: time.Now().Add(-time.Minute),
		OnExpire:  func() { close(done) },
	}
	c.Start(context.Background())
	defer c.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expired countdown must fire on the immediate first tick")
	}
}

func TestCountdown_StopIsIdempotent(t *testing.T) {
	c := &Countdown{ExpiresAt: time.Now().Add(time.Hour)}
	c.Start(context.Background())
	c.Stop()
	c.Stop()
}

func TestCountdown_ContextCancelStopsTicking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	count := 0
	c := &Countdown{
		ExpiresAt: time.Now().Add(time.Hour),
		OnTick: func(time.Duration) {
			mu.Lock()
			count++
			mu.Unlock()
		},
	}
	c.Start(ctx)
	cancel()

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	after := count
	mu.Unlock()
	time.Sleep(1200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, count, after+1, "no sustained ticking after cancellation")
}
