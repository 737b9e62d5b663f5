// Package channel provides an in-memory Go channel transport for hostwire.
// Both boundary roles attach to a shared named hub, so the host and guest
// endpoints of one bridge must live in the same process.
package channel

import (
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/hostwire/hostwire/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "channel"

// DefaultHubName is used when the config does not name a channel.
const DefaultHubName = "default"

// Factory allows overriding the hub creation for testing.
var Factory = func(cfg gochannel.Config, logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(cfg, logger)
}

var (
	hubsMu sync.Mutex
	hubs   = map[string]*gochannel.GoChannel{}
)

func init() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.ChannelCapabilities)
}

// Build creates an endpoint attached to the named in-process hub. Endpoints
// built with the same channel name share one hub, so a host and a guest
// endpoint see each other's messages.
func Build(cfg transport.Config, logger watermill.LoggerAdapter) (transport.Endpoint, error) {
	send, recv, err := transport.TopicsForRole(cfg.GetRole(), "")
	if err != nil {
		return nil, err
	}
	hub := hubFor(cfg.GetChannelName(), logger)
	// The hub is shared between both roles, so endpoints never own it.
	return transport.NewWatermillEndpoint(hub, hub, send, recv, logger), nil
}

// Pair creates a connected host/guest endpoint pair over a fresh private hub.
// This is the simplest way to wire both sides of a bridge in one process.
func Pair(logger watermill.LoggerAdapter) (host, guest transport.Endpoint) {
	hub := Factory(gochannel.Config{}, logger)
	hostSend, hostRecv, _ := transport.TopicsForRole(transport.RoleHost, "")
	guestSend, guestRecv, _ := transport.TopicsForRole(transport.RoleGuest, "")
	host = transport.NewWatermillEndpoint(hub, hub, hostSend, hostRecv, logger)
	guest = transport.NewWatermillEndpoint(hub, hub, guestSend, guestRecv, logger)
	return host, guest
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.ChannelCapabilities
}

func hubFor(name string, logger watermill.LoggerAdapter) *gochannel.GoChannel {
	if name == "" {
		name = DefaultHubName
	}
	hubsMu.Lock()
	defer hubsMu.Unlock()
	if hub, ok := hubs[name]; ok {
		return hub
	}
	hub := Factory(gochannel.Config{}, logger)
	hubs[name] = hub
	return hub
}
