package enrollment

import (
	"sync"
	"time"
)

// countdown tracks the resend cooldown. Remaining time derives from a
// deadline so correctness never depends on tick delivery; the ticker
// goroutine exists only to notify an observer once per interval while the
// cooldown is positive. It stops itself at zero. Pause and Clear cancel the
// goroutine and wait for it to exit, so no observer callback runs after
// they return.
type countdown struct {
	mu     sync.Mutex
	now    func() time.Time
	every  time.Duration
	onTick func(remaining int)
	until  time.Time
	cancel chan struct{}
	done   chan struct{}
}

func newCountdown(now func() time.Time, every time.Duration, onTick func(int)) *countdown {
	if now == nil {
		now = time.Now
	}
	if every <= 0 {
		every = time.Second
	}
	return &countdown{now: now, every: every, onTick: onTick}
}

// Reset arms the countdown for the full duration, regardless of any prior
// remaining time, and starts ticking if an observer is registered.
func (c *countdown) Reset(d time.Duration) {
	c.mu.Lock()
	c.until = c.now().Add(d)
	c.startLocked()
	c.mu.Unlock()
}

// Pause cancels ticking but keeps the deadline, for phases where the
// cooldown is not observable but must survive a return. Blocks until any
// in-flight tick callback has finished.
func (c *countdown) Pause() {
	c.mu.Lock()
	done := c.detachLocked()
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Resume restarts ticking against the existing deadline.
func (c *countdown) Resume() {
	c.mu.Lock()
	if c.now().Before(c.until) {
		c.startLocked()
	}
	c.mu.Unlock()
}

// Clear cancels ticking and drops the deadline entirely. Blocks until any
// in-flight tick callback has finished.
func (c *countdown) Clear() {
	c.mu.Lock()
	done := c.detachLocked()
	c.until = time.Time{}
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Remaining reports whole seconds left, rounded up, never negative.
func (c *countdown) Remaining() int {
	c.mu.Lock()
	until := c.until
	now := c.now()
	c.mu.Unlock()

	if until.IsZero() || !now.Before(until) {
		return 0
	}
	return int((until.Sub(now) + time.Second - 1) / time.Second)
}

func (c *countdown) startLocked() {
	if c.onTick == nil || c.cancel != nil {
		return
	}
	cancel := make(chan struct{})
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	go c.run(cancel, done)
}

// detachLocked cancels the running goroutine, if any, and hands back its
// done channel for the caller to wait on outside the lock.
func (c *countdown) detachLocked() chan struct{} {
	if c.cancel == nil {
		return nil
	}
	close(c.cancel)
	c.cancel = nil
	done := c.done
	c.done = nil
	return done
}

func (c *countdown) run(cancel, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.every)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			// Cancellation wins over a tick that raced in.
			select {
			case <-cancel:
				return
			default:
			}

			remaining := c.Remaining()
			c.onTick(remaining)
			if remaining == 0 {
				c.mu.Lock()
				if c.cancel == cancel {
					c.cancel = nil
					c.done = nil
				}
				c.mu.Unlock()
				return
			}
		}
	}
}
