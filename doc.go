// Package hostwire is a small message bridge between a host application and a
// sandboxed guest engine. Each side runs a pattern-aware event bus (exact
// names plus "*" and "**" wildcards, with optional throttle/debounce rate
// limiting), and the bridge moves envelopes across the boundary through a
// pluggable transport.
//
// On the guest side, Outbound publishes every message locally first and then
// transmits it to the host, queueing failures in a bounded FIFO retry queue
// that evicts its oldest entry when full. Inbound lazily subscribes upstream
// the first time each exact event name gains a local listener, so the host is
// only asked for events somebody actually wants.
//
// On the host side, Router inspects each incoming envelope and routes it down
// one of three branches: a capability invocation (payload validation plus a
// permission policy in allow, warn, or deny mode), a contract event checked
// against a declared payload schema, or a plain forward onto the host bus.
// Whatever goes wrong along the way is reported to a violation Collector and
// never crashes the bridge.
//
// # Transports
//
// Hostwire ships 2 transports out of the box:
//   - channel: In-memory Go channels for same-process bridges and testing
//   - nats: NATS Core for host and guest in separate processes
//
// Additional transports can be registered through the transport registry; see
// the transport package.
//
// # Route Hooks
//
// RouteHooks provides OnRouteStart, OnRouteDone, and OnRouteError callbacks
// for custom logging, metrics collection, and alerting around envelope
// routing. Prometheus metrics and OpenTelemetry spans are emitted when a
// Metrics registry and a global tracer provider are configured.
//
// A minimal same-process setup builds two buses, connects them with
// channel.Pair, and hands each endpoint to an Adapter; see examples/local for
// a copy/paste quick start.
package hostwire
