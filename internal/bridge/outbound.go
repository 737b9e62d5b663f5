package bridge

import (
	"sync"
	"time"

	errspkg "github.com/hostwire/hostwire/internal/bridge/errors"
	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// Outbound retry defaults. Zero option values fall back to these.
const (
	DefaultQueueCapacity = 100
	DefaultMaxRetries    = 3
	DefaultRetryInterval = 5 * time.Second
)

// TransmitFunc pushes one event across the boundary. The Guest side injects
// whatever its runtime provides; errors mark the attempt as failed.
type TransmitFunc func(event string, payload any) error

type queuedMessage struct {
	event      string
	payload    any
	retryCount int
	enqueuedAt time.Time
}

// Outbound is the Guest side's reliable sender. Every Send publishes locally
// first, then attempts transmission; failed messages land in a bounded FIFO
// queue drained by a single retry timer. Delivery is at-most
// maxRetries+1 attempts per message; a retry cycle processes the whole
// backlog as a batch, so remote arrival order is not guaranteed to match
// local order once retries are involved.
type Outbound struct {
	mu         sync.Mutex
	bus        *Bus
	transmit   TransmitFunc
	logger     loggingpkg.ServiceLogger
	metrics    *Metrics
	capacity   int
	maxRetries int
	interval   time.Duration
	queue      []queuedMessage
	timerArmed bool
	timer      *time.Timer
	closed     bool
}

// OutboundOption tunes the retry behaviour.
type OutboundOption func(*Outbound)

// WithQueueCapacity bounds the retry queue; overflow evicts the oldest entry.
func WithQueueCapacity(n int) OutboundOption {
	return func(o *Outbound) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithMaxRetries bounds retransmission attempts per message (the initial
// attempt is not counted).
func WithMaxRetries(n int) OutboundOption {
	return func(o *Outbound) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithRetryInterval sets the constant delay between retry cycles.
func WithRetryInterval(d time.Duration) OutboundOption {
	return func(o *Outbound) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithOutboundMetrics attaches bridge metrics to the channel.
func WithOutboundMetrics(m *Metrics) OutboundOption {
	return func(o *Outbound) {
		o.metrics = m
	}
}

// NewOutbound constructs the reliable sender. The transmit function may be
// nil, in which case every message is queued for retry until one is injected
// via SetTransmit.
func NewOutbound(bus *Bus, transmit TransmitFunc, log loggingpkg.ServiceLogger, opts ...OutboundOption) (*Outbound, error) {
	if bus == nil {
		return nil, errspkg.ErrBusRequired
	}
	if log == nil {
		log = loggingpkg.NopLogger()
	}
	o := &Outbound{
		bus:        bus,
		transmit:   transmit,
		logger:     log,
		capacity:   DefaultQueueCapacity,
		maxRetries: DefaultMaxRetries,
		interval:   DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// SetTransmit swaps the transport function, e.g. once the boundary becomes
// available after startup.
func (o *Outbound) SetTransmit(transmit TransmitFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transmit = transmit
}

// Send publishes the event locally, then attempts transmission. Local
// listeners observe every outbound event regardless of transport health, and
// always before any transmission attempt.
func (o *Outbound) Send(event string, payload any) {
	if event == "" {
		o.logger.Error("dropping outbound message", errspkg.ErrEventNameRequired, nil)
		return
	}

	o.bus.Publish(event, payload)

	if err := o.attempt(event, payload); err != nil {
		o.logger.Warn("transmission failed, queueing for retry", loggingpkg.LogFields{
			"event": event,
			"error": err.Error(),
		})
		o.enqueue(queuedMessage{event: event, payload: payload, enqueuedAt: time.Now()})
	}
}

// QueueDepth reports how many messages are waiting for retransmission.
func (o *Outbound) QueueDepth() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Close is the teardown escape hatch: it disarms the retry timer and empties
// the queue. Intended for shutdown and tests, not normal operation.
func (o *Outbound) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.timerArmed = false
	o.queue = nil
	o.setQueueDepthLocked()
}

func (o *Outbound) attempt(event string, payload any) error {
	o.mu.Lock()
	transmit := o.transmit
	o.mu.Unlock()
	if transmit == nil {
		return errspkg.ErrTransmitRequired
	}
	return transmit(event, payload)
}

func (o *Outbound) enqueue(msg queuedMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.pushLocked(msg)
	o.armLocked()
}

// pushLocked appends one message, evicting the oldest entry on overflow. The
// queue length never exceeds capacity.
func (o *Outbound) pushLocked(msg queuedMessage) {
	if len(o.queue) >= o.capacity {
		evicted := o.queue[0]
		o.queue = o.queue[1:]
		if o.metrics != nil {
			o.metrics.DroppedMessages.Inc()
		}
		o.logger.Warn("retry queue full, evicting oldest message", loggingpkg.LogFields{
			"event":    evicted.event,
			"capacity": o.capacity,
		})
	}
	o.queue = append(o.queue, msg)
	o.setQueueDepthLocked()
}

// armLocked schedules a retry cycle unless one is already pending. At most
// one timer is armed at any time.
func (o *Outbound) armLocked() {
	if o.timerArmed || len(o.queue) == 0 {
		return
	}
	o.timerArmed = true
	o.timer = time.AfterFunc(o.interval, o.retryCycle)
}

// retryCycle drains the entire current backlog in one pass. Messages that
// exhausted their retries are dropped; the rest are re-queued for the next
// cycle.
func (o *Outbound) retryCycle() {
	o.mu.Lock()
	o.timerArmed = false
	o.timer = nil
	if o.closed {
		o.mu.Unlock()
		return
	}
	batch := o.queue
	o.queue = nil
	o.mu.Unlock()

	var stillFailed []queuedMessage
	for _, msg := range batch {
		if msg.retryCount == o.maxRetries {
			if o.metrics != nil {
				o.metrics.DroppedMessages.Inc()
			}
			o.logger.Error("dropping message after exhausting retries", nil, loggingpkg.LogFields{
				"event":       msg.event,
				"max_retries": o.maxRetries,
				"queued_for":  time.Since(msg.enqueuedAt).String(),
			})
			continue
		}
		if err := o.attempt(msg.event, msg.payload); err != nil {
			msg.retryCount++
			stillFailed = append(stillFailed, msg)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	// Sends that failed while the cycle ran have already been appended to a
	// fresh queue; the still-failed batch goes back ahead of them.
	o.queue = append(stillFailed, o.queue...)
	for len(o.queue) > o.capacity {
		evicted := o.queue[0]
		o.queue = o.queue[1:]
		if o.metrics != nil {
			o.metrics.DroppedMessages.Inc()
		}
		o.logger.Warn("retry queue full, evicting oldest message", loggingpkg.LogFields{
			"event":    evicted.event,
			"capacity": o.capacity,
		})
	}
	o.setQueueDepthLocked()
	o.armLocked()
}

func (o *Outbound) setQueueDepthLocked() {
	if o.metrics != nil {
		o.metrics.RetryQueueDepth.Set(float64(len(o.queue)))
	}
}
