package bridge

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hostwire/hostwire/internal/bridge/contract"
	errspkg "github.com/hostwire/hostwire/internal/bridge/errors"
	idspkg "github.com/hostwire/hostwire/internal/bridge/ids"
	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// PermissionMode selects how strictly missing capability permissions are
// enforced.
type PermissionMode string

const (
	// PermissionAllow skips permission checks entirely.
	PermissionAllow PermissionMode = "allow"
	// PermissionWarn records a violation for missing permissions but still
	// executes the capability.
	PermissionWarn PermissionMode = "warn"
	// PermissionDeny records a violation and blocks execution.
	PermissionDeny PermissionMode = "deny"
)

// PermissionPolicy is the caller-scoped permission state supplied per routing
// call, typically sourced from an installed-package manifest.
type PermissionPolicy struct {
	Declared []string
	Mode     PermissionMode
}

func (p PermissionPolicy) permits(permission string) bool {
	return slices.Contains(p.Declared, permission)
}

// UnknownEventPolicy selects what happens to event names outside both the
// capability and contract namespaces.
type UnknownEventPolicy string

const (
	// ForwardUnknownEvents treats unknown names as ordinary application-level
	// pub/sub messages and re-dispatches them on the local bus. This is the
	// default.
	ForwardUnknownEvents UnknownEventPolicy = "forward"
	// FlagUnknownEvents records an unknown_event violation instead.
	FlagUnknownEvents UnknownEventPolicy = "flag"
)

// RouterOptions holds the collaborators of a Router. Bus is required; nil
// optional fields fall back to logging defaults.
type RouterOptions struct {
	Bus             *Bus
	Capabilities    CapabilitySet
	Contracts       contract.Table
	Direction       contract.Direction
	Collector       Collector
	OnContractEvent func(event string, payload any)
	Logger          loggingpkg.ServiceLogger
	Metrics         *Metrics
	Hooks           RouteHooks
	UnknownEvents   UnknownEventPolicy
}

// Router classifies, authorizes, and validates every inbound envelope before
// dispatch. It keeps no cross-envelope state and never raises: every branch
// dispatches, forwards, or logs-and-drops.
type Router struct {
	bus             *Bus
	caps            CapabilitySet
	contracts       contract.Table
	direction       contract.Direction
	collector       Collector
	onContractEvent func(string, any)
	logger          loggingpkg.ServiceLogger
	metrics         *Metrics
	hooks           RouteHooks
	unknown         UnknownEventPolicy
	tracer          trace.Tracer
}

// NewRouter constructs the host-side message router.
func NewRouter(opts RouterOptions) (*Router, error) {
	if opts.Bus == nil {
		return nil, errspkg.ErrBusRequired
	}
	if opts.Logger == nil {
		opts.Logger = loggingpkg.NopLogger()
	}
	if opts.Collector == nil {
		opts.Collector = NewLoggingCollector(opts.Logger)
	}
	if opts.Direction == "" {
		opts.Direction = contract.GuestToHost
	}
	if opts.UnknownEvents == "" {
		opts.UnknownEvents = ForwardUnknownEvents
	}
	return &Router{
		bus:             opts.Bus,
		caps:            opts.Capabilities,
		contracts:       opts.Contracts,
		direction:       opts.Direction,
		collector:       opts.Collector,
		onContractEvent: opts.OnContractEvent,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		hooks:           opts.Hooks,
		unknown:         opts.UnknownEvents,
		tracer:          otel.Tracer("github.com/hostwire/hostwire"),
	}, nil
}

// Route processes one inbound envelope under the caller's permission policy.
// It returns the capability handler's result when the envelope invoked a
// capability, nil otherwise.
func (r *Router) Route(ctx context.Context, env Envelope, policy PermissionPolicy) any {
	ctx, span := r.tracer.Start(ctx, "hostwire.route",
		trace.WithAttributes(attribute.String("hostwire.event", env.Event)))
	defer span.End()

	rc := RouteContext{Event: env.Event, StartedAt: time.Now()}
	if r.hooks.OnRouteStart != nil {
		r.hooks.OnRouteStart(rc)
	}

	result, branch, err := r.classify(ctx, env, policy)

	span.SetAttributes(attribute.String("hostwire.branch", string(branch)))
	rc.Branch = branch
	rc.Duration = time.Since(rc.StartedAt)
	if err != nil {
		span.RecordError(err)
		if r.hooks.OnRouteError != nil {
			r.hooks.OnRouteError(rc, err)
		}
		return result
	}
	if r.hooks.OnRouteDone != nil {
		r.hooks.OnRouteDone(rc)
	}
	return result
}

func (r *Router) classify(ctx context.Context, env Envelope, policy PermissionPolicy) (any, RouteBranch, error) {
	if env.Event == "" {
		r.logger.Warn("dropping envelope without event name", nil)
		return nil, BranchDropped, nil
	}

	if c, ok := r.caps[env.Event]; ok {
		return r.routeCapability(ctx, c, env, policy)
	}

	if schema, ok := r.contracts.Lookup(env.Event); ok {
		r.routeContract(env, schema)
		return nil, BranchContract, nil
	}

	if r.unknown == FlagUnknownEvents {
		r.collect(Violation{
			Kind:    ViolationUnknownEvent,
			Event:   env.Event,
			Payload: env.Payload,
			Reason:  "event is neither a capability nor a declared contract",
		})
		return nil, BranchDropped, nil
	}

	// Application-level pub/sub message: deliver locally without echoing it
	// back across the boundary.
	r.bus.dispatch(env.Event, env.Payload)
	return nil, BranchForwarded, nil
}

func (r *Router) routeCapability(ctx context.Context, c Capability, env Envelope, policy PermissionPolicy) (any, RouteBranch, error) {
	if c.ValidatePayload != nil {
		if err := c.ValidatePayload(env.Payload); err != nil {
			r.logger.Warn("dropping capability call with invalid payload", loggingpkg.LogFields{
				"capability": c.Name,
				"reason":     err.Error(),
			})
			return nil, BranchDropped, nil
		}
	}

	if c.RequiredPermission != "" && policy.Mode != PermissionAllow {
		if !policy.permits(c.RequiredPermission) {
			r.collect(Violation{
				Kind:    ViolationMissingPermission,
				Event:   env.Event,
				Payload: env.Payload,
				Reason:  fmt.Sprintf("capability %s requires permission %q", c.Name, c.RequiredPermission),
			})
			if policy.Mode == PermissionDeny {
				return nil, BranchDropped, nil
			}
			// warn mode: recorded, but execution continues
		}
	}

	if r.metrics != nil {
		r.metrics.CapabilityInvocations.WithLabelValues(c.Name).Inc()
	}
	result, err := c.Handler(ctx, env.Payload)
	if err != nil {
		r.logger.Error("capability handler failed", err, loggingpkg.LogFields{
			"capability": c.Name,
		})
		return result, BranchCapability, err
	}
	return result, BranchCapability, nil
}

func (r *Router) routeContract(env Envelope, schema contract.Schema) {
	if !contract.Validate(env.Payload, schema) {
		r.collect(Violation{
			Kind:    ViolationInvalidPayload,
			Event:   env.Event,
			Payload: env.Payload,
			Reason:  "payload does not satisfy the declared contract schema",
		})
		return
	}
	if r.onContractEvent != nil {
		r.onContractEvent(env.Event, env.Payload)
	}
}

func (r *Router) collect(v Violation) {
	v.ID = idspkg.CreateULID()
	v.At = time.Now().UTC()
	v.Direction = r.direction
	if r.metrics != nil {
		r.metrics.Violations.WithLabelValues(string(v.Kind)).Inc()
	}
	r.collector.Collect(v)
}
