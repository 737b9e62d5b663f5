package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/hostwire/hostwire/internal/bridge"
	idspkg "github.com/hostwire/hostwire/internal/bridge/ids"
	"github.com/hostwire/hostwire/internal/bridge/jsoncodec"
)

// EndpointOption configures a Watermill-backed endpoint.
type EndpointOption func(*watermillEndpoint)

// WithOwnedPubSub makes Close also close the underlying publisher and
// subscriber. Endpoints sharing a pub/sub (the in-process channel hub) leave
// this off.
func WithOwnedPubSub() EndpointOption {
	return func(e *watermillEndpoint) {
		e.ownsPubSub = true
	}
}

// NewWatermillEndpoint adapts a Watermill publisher/subscriber pair into a
// bridge endpoint. Envelopes travel as JSON message payloads.
func NewWatermillEndpoint(pub message.Publisher, sub message.Subscriber, sendTopic, recvTopic string, logger watermill.LoggerAdapter, opts ...EndpointOption) Endpoint {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	e := &watermillEndpoint{
		pub:       pub,
		sub:       sub,
		sendTopic: sendTopic,
		recvTopic: recvTopic,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type watermillEndpoint struct {
	pub        message.Publisher
	sub        message.Subscriber
	sendTopic  string
	recvTopic  string
	logger     watermill.LoggerAdapter
	ownsPubSub bool

	mu      sync.Mutex
	cancels []context.CancelFunc
	closed  bool
}

func (e *watermillEndpoint) Send(event string, payload any) error {
	data, err := jsoncodec.Marshal(bridge.Envelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode envelope for %q: %w", event, err)
	}
	return e.pub.Publish(e.sendTopic, message.NewMessage(idspkg.CreateULID(), data))
}

func (e *watermillEndpoint) OnMessage(fn func(env bridge.Envelope)) (func(), error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, errors.New("transport endpoint is closed")
	}
	e.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	messages, err := e.sub.Subscribe(ctx, e.recvTopic)
	if err != nil {
		cancel()
		return nil, err
	}

	e.mu.Lock()
	e.cancels = append(e.cancels, cancel)
	e.mu.Unlock()

	go func() {
		for msg := range messages {
			var env bridge.Envelope
			if err := jsoncodec.Unmarshal(msg.Payload, &env); err != nil {
				e.logger.Error("dropping undecodable envelope", err, watermill.LogFields{
					"message_uuid": msg.UUID,
					"topic":        e.recvTopic,
				})
				msg.Ack()
				continue
			}
			fn(env)
			msg.Ack()
		}
	}()

	return cancel, nil
}

func (e *watermillEndpoint) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	cancels := e.cancels
	e.cancels = nil
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if !e.ownsPubSub {
		return nil
	}
	return errors.Join(e.pub.Close(), e.sub.Close())
}
