package bridge

import (
	"fmt"
	"sync"

	idspkg "github.com/hostwire/hostwire/internal/bridge/ids"
	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// DefaultMaxListeners bounds exact-name subscriptions before the bus logs a
// leak warning. Zero disables the check.
const DefaultMaxListeners = 10

// Bus is the local publish/subscribe primitive shared by the Host and Guest
// sides. Exact and wildcard-pattern subscriptions are supported; dispatch is
// synchronous on the publisher's goroutine, exact subscribers first, then
// pattern subscribers, each in subscription order.
type Bus struct {
	mu           sync.Mutex
	logger       loggingpkg.ServiceLogger
	metrics      *Metrics
	exact        map[string][]*subscription
	patterns     []*subscription
	byHandle     map[string]*subscription
	maxListeners int
	warned       map[string]struct{}
	broadcasts   map[string]func(event string, payload any)
}

type subscription struct {
	handle  string
	key     string
	matcher *matcher // nil for exact subscriptions
	raw     Callback
	deliver Callback
	limiter limiter // nil when the subscription is not rate limited
}

// BusOption configures a Bus at construction time.
type BusOption func(*Bus)

// WithMaxListeners overrides the default listener-leak bound.
func WithMaxListeners(n int) BusOption {
	return func(b *Bus) {
		b.maxListeners = n
	}
}

// WithBusMetrics attaches bridge metrics to the bus.
func WithBusMetrics(m *Metrics) BusOption {
	return func(b *Bus) {
		b.metrics = m
	}
}

// NewBus constructs an empty bus. A nil logger falls back to a no-op logger.
func NewBus(log loggingpkg.ServiceLogger, opts ...BusOption) *Bus {
	if log == nil {
		log = loggingpkg.NopLogger()
	}
	b := &Bus{
		logger:       log,
		exact:        make(map[string][]*subscription),
		byHandle:     make(map[string]*subscription),
		maxListeners: DefaultMaxListeners,
		warned:       make(map[string]struct{}),
		broadcasts:   make(map[string]func(string, any)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a callback for an exact event name, or — when the key
// contains "*" — for every event name the pattern matches. The returned
// handle is the only unsubscribe key; callback identity is never used.
// A nil callback is a caller programming error.
func (b *Bus) Subscribe(key string, fn Callback, opts ...SubscribeOption) string {
	if fn == nil {
		panic("hostwire: subscribe callback cannot be nil")
	}

	var o subscribeOptions
	for _, opt := range opts {
		opt(&o)
	}

	sub := &subscription{
		handle: idspkg.CreateULID(),
		key:    key,
		raw:    fn,
	}
	safe := func(payload any) {
		b.invokeIsolated(sub, payload)
	}
	switch {
	case o.throttle > 0:
		lim := newThrottle(o.throttle, safe)
		sub.limiter = lim
		sub.deliver = lim.invoke
	case o.debounce > 0:
		lim := newDebounce(o.debounce, safe)
		sub.limiter = lim
		sub.deliver = lim.invoke
	default:
		sub.deliver = safe
	}

	if isPattern(key) {
		m, err := compilePattern(key)
		if err != nil {
			b.logger.Error("rejecting pattern subscription", err, loggingpkg.LogFields{"pattern": key})
			return ""
		}
		sub.matcher = m
		b.mu.Lock()
		b.patterns = append(b.patterns, sub)
		b.byHandle[sub.handle] = sub
		b.mu.Unlock()
		return sub.handle
	}

	b.mu.Lock()
	b.exact[key] = append(b.exact[key], sub)
	b.byHandle[sub.handle] = sub
	if b.maxListeners > 0 && len(b.exact[key]) > b.maxListeners {
		if _, done := b.warned[key]; !done {
			b.warned[key] = struct{}{}
			b.logger.Warn("possible listener leak", loggingpkg.LogFields{
				"event":         key,
				"listeners":     len(b.exact[key]),
				"max_listeners": b.maxListeners,
			})
		}
	}
	b.mu.Unlock()
	return sub.handle
}

// Unsubscribe removes the subscription identified by handle. Unknown handles
// are ignored.
func (b *Bus) Unsubscribe(handle string) {
	b.mu.Lock()
	sub, ok := b.byHandle[handle]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(b.byHandle, handle)
	if sub.matcher != nil {
		b.patterns = removeSub(b.patterns, sub)
	} else {
		b.exact[sub.key] = removeSub(b.exact[sub.key], sub)
		if len(b.exact[sub.key]) == 0 {
			delete(b.exact, sub.key)
		}
	}
	lim := sub.limiter
	b.mu.Unlock()

	if lim != nil {
		lim.stop()
	}
}

// UnsubscribeAll with no arguments removes every subscription. With an exact
// key it removes only that name's exact subscriptions; with a pattern key it
// removes only pattern subscriptions whose original pattern text equals the
// key (string equality, not re-matching).
func (b *Bus) UnsubscribeAll(key ...string) {
	var stopped []limiter

	b.mu.Lock()
	switch {
	case len(key) == 0:
		for _, sub := range b.byHandle {
			if sub.limiter != nil {
				stopped = append(stopped, sub.limiter)
			}
		}
		b.exact = make(map[string][]*subscription)
		b.patterns = nil
		b.byHandle = make(map[string]*subscription)
	case isPattern(key[0]):
		kept := b.patterns[:0]
		for _, sub := range b.patterns {
			if sub.key != key[0] {
				kept = append(kept, sub)
				continue
			}
			delete(b.byHandle, sub.handle)
			if sub.limiter != nil {
				stopped = append(stopped, sub.limiter)
			}
		}
		b.patterns = kept
	default:
		for _, sub := range b.exact[key[0]] {
			delete(b.byHandle, sub.handle)
			if sub.limiter != nil {
				stopped = append(stopped, sub.limiter)
			}
		}
		delete(b.exact, key[0])
	}
	b.mu.Unlock()

	for _, lim := range stopped {
		lim.stop()
	}
}

// Publish delivers the event to every local subscriber, then forwards it
// through any registered boundary broadcasters.
func (b *Bus) Publish(event string, payload any) {
	b.dispatch(event, payload)

	b.mu.Lock()
	taps := make([]func(string, any), 0, len(b.broadcasts))
	for _, fn := range b.broadcasts {
		taps = append(taps, fn)
	}
	b.mu.Unlock()

	for _, fn := range taps {
		fn(event, payload)
	}
}

// dispatch delivers to local subscribers only. Inbound injection and the
// router's unknown-event forwarding use it directly so envelopes arriving
// from the boundary are never echoed back across it.
func (b *Bus) dispatch(event string, payload any) {
	b.mu.Lock()
	targets := make([]*subscription, 0, len(b.exact[event])+len(b.patterns))
	targets = append(targets, b.exact[event]...)
	for _, sub := range b.patterns {
		if sub.matcher.matches(event) {
			targets = append(targets, sub)
		}
	}
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.Published.Inc()
	}
	for _, sub := range targets {
		sub.deliver(payload)
	}
}

// SetMaxListeners resets the leak bound; 0 disables the check. The
// "already warned" set is cleared so the next breach warns again.
func (b *Bus) SetMaxListeners(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maxListeners = n
	b.warned = make(map[string]struct{})
}

// MaxListeners returns the current leak bound.
func (b *Bus) MaxListeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maxListeners
}

// ListenerCount returns how many exact subscriptions exist for an event name.
func (b *Bus) ListenerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.exact[event])
}

// addBroadcast installs a boundary tap invoked after local dispatch on every
// Publish. Internal API: only the EngineAdapter composition root may forward
// publishes across the boundary.
func (b *Bus) addBroadcast(fn func(event string, payload any)) func() {
	handle := idspkg.CreateULID()
	b.mu.Lock()
	b.broadcasts[handle] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.broadcasts, handle)
		b.mu.Unlock()
	}
}

// invokeIsolated runs one callback with panic isolation: a failing subscriber
// never prevents sibling subscribers from running and never reaches the
// publisher.
func (b *Bus) invokeIsolated(sub *subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.CallbackPanics.Inc()
			}
			b.logger.Error("event callback panicked", fmt.Errorf("%v", r), loggingpkg.LogFields{
				"key":    sub.key,
				"handle": sub.handle,
			})
		}
	}()
	sub.raw(payload)
}

func removeSub(subs []*subscription, target *subscription) []*subscription {
	for i, sub := range subs {
		if sub == target {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}
