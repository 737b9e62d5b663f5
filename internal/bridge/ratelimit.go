package bridge

import (
	"sync"
	"time"
)

// Callback receives an event payload.
type Callback func(payload any)

// SubscribeOption tunes a single subscription.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	throttle time.Duration
	debounce time.Duration
}

// WithThrottle limits the callback to one execution per delay: the leading
// call fires immediately and the last call inside the window is flushed on
// the trailing edge.
func WithThrottle(delay time.Duration) SubscribeOption {
	return func(o *subscribeOptions) {
		o.throttle = delay
	}
}

// WithDebounce delays the callback until delay has elapsed with no further
// calls; only the most recent payload is delivered.
func WithDebounce(delay time.Duration) SubscribeOption {
	return func(o *subscribeOptions) {
		o.debounce = delay
	}
}

// limiter gates subscription callbacks. stop discards any pending delivery.
type limiter interface {
	invoke(payload any)
	stop()
}

type throttleLimiter struct {
	mu         sync.Mutex
	delay      time.Duration
	fn         Callback
	lastFire   time.Time
	pending    any
	hasPending bool
	timer      *time.Timer
	stopped    bool
}

func newThrottle(delay time.Duration, fn Callback) *throttleLimiter {
	return &throttleLimiter{delay: delay, fn: fn}
}

func (t *throttleLimiter) invoke(payload any) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	now := time.Now()
	if t.timer == nil && now.Sub(t.lastFire) >= t.delay {
		t.lastFire = now
		t.mu.Unlock()
		t.fn(payload)
		return
	}
	t.pending = payload
	t.hasPending = true
	if t.timer == nil {
		remaining := t.delay - now.Sub(t.lastFire)
		if remaining <= 0 {
			remaining = t.delay
		}
		t.timer = time.AfterFunc(remaining, t.flush)
	}
	t.mu.Unlock()
}

func (t *throttleLimiter) flush() {
	t.mu.Lock()
	t.timer = nil
	if t.stopped || !t.hasPending {
		t.mu.Unlock()
		return
	}
	payload := t.pending
	t.pending = nil
	t.hasPending = false
	t.lastFire = time.Now()
	t.mu.Unlock()
	t.fn(payload)
}

func (t *throttleLimiter) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = nil
	t.hasPending = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

type debounceLimiter struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      Callback
	pending any
	timer   *time.Timer
	stopped bool
}

func newDebounce(delay time.Duration, fn Callback) *debounceLimiter {
	return &debounceLimiter{delay: delay, fn: fn}
}

func (d *debounceLimiter) invoke(payload any) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.pending = payload
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
	d.mu.Unlock()
}

func (d *debounceLimiter) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	payload := d.pending
	d.pending = nil
	d.mu.Unlock()
	d.fn(payload)
}

func (d *debounceLimiter) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
