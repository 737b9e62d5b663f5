// Package nats provides a NATS Core transport for hostwire, for bridges whose
// host and guest run in separate processes.
package nats

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"

	"github.com/hostwire/hostwire/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "nats"

// ConnectTimeout bounds the initial connection attempt to the NATS server.
const ConnectTimeout = 5 * time.Second

// PublisherFactory allows overriding the publisher creation for testing.
var PublisherFactory = func(cfg wmnats.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return wmnats.NewPublisher(cfg, logger)
}

// SubscriberFactory allows overriding the subscriber creation for testing.
var SubscriberFactory = func(cfg wmnats.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return wmnats.NewSubscriber(cfg, logger)
}

// Register registers the NATS transport with the default registry.
// This should be called from an init() function in an importing package,
// or explicitly before using the transport.
func Register() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.NATSCapabilities)
}

// Build creates a new NATS endpoint for the config's boundary role.
func Build(cfg transport.Config, logger watermill.LoggerAdapter) (transport.Endpoint, error) {
	send, recv, err := transport.TopicsForRole(cfg.GetRole(), cfg.GetNATSSubjectPrefix())
	if err != nil {
		return nil, err
	}

	url := cfg.GetNATSURL()
	if url == "" {
		url = nc.DefaultURL
	}
	marshaler := &wmnats.NATSMarshaler{}
	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(ConnectTimeout),
	}

	publisher, err := PublisherFactory(
		wmnats.PublisherConfig{
			URL:         url,
			NatsOptions: natsOptions,
			Marshaler:   marshaler,
		},
		logger,
	)
	if err != nil {
		return nil, err
	}

	subscriber, err := SubscriberFactory(
		wmnats.SubscriberConfig{
			URL:         url,
			NatsOptions: natsOptions,
			Unmarshaler: marshaler,
		},
		logger,
	)
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}

	return transport.NewWatermillEndpoint(publisher, subscriber, send, recv, logger, transport.WithOwnedPubSub()), nil
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.NATSCapabilities
}
