package bridge

import (
	"time"

	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// RouteBranch identifies which router branch handled an envelope.
type RouteBranch string

const (
	BranchCapability RouteBranch = "capability"
	BranchContract   RouteBranch = "contract"
	BranchForwarded  RouteBranch = "forwarded"
	BranchDropped    RouteBranch = "dropped"
)

// RouteContext provides information about one routed envelope to hooks.
type RouteContext struct {
	// Event is the envelope's event name.
	Event string
	// Branch is the router branch that handled the envelope. Empty in
	// OnRouteStart, where classification has not happened yet.
	Branch RouteBranch
	// StartedAt is when routing began.
	StartedAt time.Time
	// Duration is how long routing took (only set in OnRouteDone and
	// OnRouteError).
	Duration time.Duration
}

// RouteHooks defines callbacks around envelope routing.
// All hooks are optional - nil hooks are simply not called.
type RouteHooks struct {
	// OnRouteStart is called before an envelope is classified.
	OnRouteStart func(ctx RouteContext)

	// OnRouteDone is called after an envelope was dispatched, forwarded, or
	// deliberately dropped.
	OnRouteDone func(ctx RouteContext)

	// OnRouteError is called when a capability handler returns an error.
	OnRouteError func(ctx RouteContext, err error)
}

// Merge combines two RouteHooks, creating a new RouteHooks that calls both.
// The hooks from 'other' are called after the hooks from 'h'.
func (h RouteHooks) Merge(other RouteHooks) RouteHooks {
	return RouteHooks{
		OnRouteStart: chainStartHooks(h.OnRouteStart, other.OnRouteStart),
		OnRouteDone:  chainDoneHooks(h.OnRouteDone, other.OnRouteDone),
		OnRouteError: chainErrorHooks(h.OnRouteError, other.OnRouteError),
	}
}

func chainStartHooks(a, b func(RouteContext)) func(RouteContext) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx RouteContext) {
		a(ctx)
		b(ctx)
	}
}

func chainDoneHooks(a, b func(RouteContext)) func(RouteContext) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx RouteContext) {
		a(ctx)
		b(ctx)
	}
}

func chainErrorHooks(a, b func(RouteContext, error)) func(RouteContext, error) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx RouteContext, err error) {
		a(ctx, err)
		b(ctx, err)
	}
}

// LoggingRouteHooks returns pre-built hooks that log routing outcomes.
func LoggingRouteHooks(log loggingpkg.ServiceLogger) RouteHooks {
	return RouteHooks{
		OnRouteDone: func(ctx RouteContext) {
			log.Debug("envelope routed", loggingpkg.LogFields{
				"event":       ctx.Event,
				"branch":      string(ctx.Branch),
				"duration_ms": ctx.Duration.Milliseconds(),
			})
		},
		OnRouteError: func(ctx RouteContext, err error) {
			log.Error("envelope routing failed", err, loggingpkg.LogFields{
				"event":       ctx.Event,
				"branch":      string(ctx.Branch),
				"duration_ms": ctx.Duration.Milliseconds(),
			})
		},
	}
}

// MetricsRouteHooks returns pre-built hooks that record routing counters.
func MetricsRouteHooks(onDone, onError func(event string, branch RouteBranch)) RouteHooks {
	return RouteHooks{
		OnRouteDone: func(ctx RouteContext) {
			if onDone != nil {
				onDone(ctx.Event, ctx.Branch)
			}
		},
		OnRouteError: func(ctx RouteContext, err error) {
			if onError != nil {
				onError(ctx.Event, ctx.Branch)
			}
		},
	}
}
