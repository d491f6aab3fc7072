package booking

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Remaining computes the time left on a held booking. Negative results
// clamp to zero.
func Remaining(now, expiresAt time.Time) time.Duration {
	d := expiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// FormatRemaining renders a duration as minutes and zero-padded seconds,
// the way the countdown is displayed.
func FormatRemaining(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Countdown ticks once per second against a server-issued expiry
// timestamp. OnTick receives the remaining time each tick; OnExpire fires
// exactly once when the remaining time reaches zero, after which the
// countdown stops itself. Stop cancels everything on view teardown.
type Countdown struct {
	ExpiresAt time.Time
	OnTick    func(remaining time.Duration)
	OnExpire  func()

	// Now is replaceable for tests; defaults to time.Now.
	Now func() time.Time

	stopOnce sync.Once
	stopped  chan struct{}
}

// Start runs the countdown until expiry, Stop, or context cancellation.
// It returns immediately; ticking happens on a background goroutine.
func (c *Countdown) Start(ctx context.Context) {
	if c.Now == nil {
		c.Now = time.Now
	}
	c.stopped = make(chan struct{})

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		// Fire once immediately so the display never starts blank.
		if c.tick() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopped:
				return
			case <-ticker.C:
				if c.tick() {
					return
				}
			}
		}
	}()
}

// tick reports true when the countdown has expired and fired OnExpire.
func (c *Countdown) tick() bool {
	remaining := Remaining(c.Now(), c.ExpiresAt)
	if c.OnTick != nil {
		c.OnTick(remaining)
	}
	if remaining > 0 {
		return false
	}
	if c.OnExpire != nil {
		c.OnExpire()
	}
	return true
}

// Stop cancels the countdown. Safe to call more than once and after
// expiry.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() {
		if c.stopped != nil {
			close(c.stopped)
		}
	})
}
