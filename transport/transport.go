// Package transport defines the boundary endpoint interface and registry for
// hostwire bridges. Each implementation (channel, nats) lives in its own
// sub-package and registers itself with the transport registry.
package transport

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/hostwire/hostwire/internal/bridge"
)

// Boundary roles. The role decides which per-direction topic an endpoint
// sends on and which it receives on.
const (
	RoleHost  = "host"
	RoleGuest = "guest"
)

// Endpoint is one side of the Host/Guest boundary. It satisfies the
// EngineAdapter's Transport interface.
type Endpoint interface {
	// Send pushes one event to the other side.
	Send(event string, payload any) error
	// OnMessage registers an envelope callback and returns its unsubscribe
	// function.
	OnMessage(fn func(env bridge.Envelope)) (func(), error)
	// Close releases the endpoint's resources.
	Close() error
}

// Builder is the function signature for creating an endpoint from config.
// Each transport package should provide a Builder function that can be
// registered.
type Builder func(cfg Config, logger watermill.LoggerAdapter) (Endpoint, error)

// Config provides the configuration values needed by transports. This
// interface allows transports to access only the config they need without
// depending on the full config package.
type Config interface {
	// GetTransport returns the transport type name.
	GetTransport() string

	// GetRole returns which side of the boundary this endpoint plays,
	// "host" or "guest".
	GetRole() string

	// Channel
	GetChannelName() string

	// NATS
	GetNATSURL() string
	GetNATSSubjectPrefix() string
}

// TopicsForRole returns the send and receive topics for a boundary role. An
// empty prefix defaults to "hostwire".
func TopicsForRole(role, prefix string) (send, recv string, err error) {
	if prefix == "" {
		prefix = "hostwire"
	}
	switch role {
	case RoleHost:
		return prefix + ".to_guest", prefix + ".to_host", nil
	case RoleGuest:
		return prefix + ".to_host", prefix + ".to_guest", nil
	}
	return "", "", fmt.Errorf("unknown bridge role %q", role)
}
