package bridge

import (
	"context"
	"sync"

	errspkg "github.com/hostwire/hostwire/internal/bridge/errors"
	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// Transport is the boundary object consumed by the adapter. Implementations
// live in the transport packages; tests inject fakes.
type Transport interface {
	// Send pushes one event to the other side.
	Send(event string, payload any) error
	// OnMessage registers an envelope callback and returns its unsubscribe
	// function.
	OnMessage(fn func(env Envelope)) (func(), error)
	// Close releases the underlying connection.
	Close() error
}

// AdapterOptions wires the composition root together. Bus, Router, and
// Transport are required.
type AdapterOptions struct {
	Bus       *Bus
	Router    *Router
	Transport Transport

	// Policy is the caller-scoped permission policy applied to every
	// envelope arriving through this transport, typically derived from the
	// guest's installed-package manifest.
	Policy PermissionPolicy

	Logger loggingpkg.ServiceLogger
}

// Adapter connects a bus and router to one transport boundary: every
// host-side publish is forwarded through the transport, and every inbound
// envelope is routed. It is the only bridge component with an explicit
// teardown contract.
type Adapter struct {
	mu            sync.Mutex
	transport     Transport
	logger        loggingpkg.ServiceLogger
	stopBroadcast func()
	stopInbound   func()
	disposed      bool
}

// NewAdapter attaches the bus and router to the transport.
func NewAdapter(opts AdapterOptions) (*Adapter, error) {
	if opts.Bus == nil {
		return nil, errspkg.ErrBusRequired
	}
	if opts.Router == nil {
		return nil, errspkg.ErrRouterRequired
	}
	if opts.Transport == nil {
		return nil, errspkg.ErrTransportRequired
	}
	if opts.Logger == nil {
		opts.Logger = loggingpkg.NopLogger()
	}

	a := &Adapter{
		transport: opts.Transport,
		logger:    opts.Logger,
	}

	a.stopBroadcast = opts.Bus.addBroadcast(func(event string, payload any) {
		if err := opts.Transport.Send(event, payload); err != nil {
			a.logger.Error("failed to forward publish across boundary", err, loggingpkg.LogFields{
				"event": event,
			})
		}
	})

	stopInbound, err := opts.Transport.OnMessage(func(env Envelope) {
		opts.Router.Route(context.Background(), env, opts.Policy)
	})
	if err != nil {
		a.stopBroadcast()
		return nil, err
	}
	a.stopInbound = stopInbound

	return a, nil
}

// Dispose unregisters the broadcaster and cancels the inbound subscription.
// Idempotent: after the first call no further publishes are forwarded and no
// further envelopes are routed.
func (a *Adapter) Dispose() {
	a.mu.Lock()
	if a.disposed {
		a.mu.Unlock()
		return
	}
	a.disposed = true
	stopBroadcast, stopInbound := a.stopBroadcast, a.stopInbound
	a.mu.Unlock()

	stopBroadcast()
	stopInbound()
}
