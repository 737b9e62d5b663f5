package bridge

import (
	"sync"

	errspkg "github.com/hostwire/hostwire/internal/bridge/errors"
	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// UpstreamSubscribeFunc opens the per-event upstream channel for one exact
// event name and delivers every incoming payload to the supplied function.
type UpstreamSubscribeFunc func(event string, deliver func(payload any)) error

// Inbound bridges upstream events into the local bus lazily: only the first
// local listener for a given exact event name opens the upstream channel;
// later listeners for the same name reuse it.
type Inbound struct {
	mu       sync.Mutex
	bus      *Bus
	upstream UpstreamSubscribeFunc
	logger   loggingpkg.ServiceLogger
	active   map[string]struct{}
}

// NewInbound constructs the lazy upstream subscriber.
func NewInbound(bus *Bus, upstream UpstreamSubscribeFunc, log loggingpkg.ServiceLogger) (*Inbound, error) {
	if bus == nil {
		return nil, errspkg.ErrBusRequired
	}
	if upstream == nil {
		return nil, errspkg.ErrUpstreamRequired
	}
	if log == nil {
		log = loggingpkg.NopLogger()
	}
	return &Inbound{
		bus:      bus,
		upstream: upstream,
		logger:   log,
		active:   make(map[string]struct{}),
	}, nil
}

// On subscribes fn locally and, for the first listener on an exact name,
// opens the upstream channel for that name. Pattern keys only subscribe
// locally: upstream channels are per exact event name. Incoming upstream
// payloads re-enter the bus under the same isolated-dispatch rule as Publish.
func (i *Inbound) On(event string, fn Callback, opts ...SubscribeOption) string {
	handle := i.bus.Subscribe(event, fn, opts...)
	if handle == "" || isPattern(event) {
		return handle
	}

	i.mu.Lock()
	_, already := i.active[event]
	if !already {
		i.active[event] = struct{}{}
	}
	i.mu.Unlock()
	if already {
		return handle
	}

	err := i.upstream(event, func(payload any) {
		i.bus.dispatch(event, payload)
	})
	if err != nil {
		i.logger.Error("upstream subscribe failed", err, loggingpkg.LogFields{"event": event})
		i.mu.Lock()
		delete(i.active, event)
		i.mu.Unlock()
	}
	return handle
}

// Off removes a local listener registered through On. The upstream channel
// stays open; upstream lifetimes are managed by the transport.
func (i *Inbound) Off(handle string) {
	i.bus.Unsubscribe(handle)
}
