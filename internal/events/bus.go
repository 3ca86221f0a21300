// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/metrics"
)

// Transports.
const (
	TransportMemory = "memory"
	TransportNATS   = "nats"
)

var ErrClosed = errors.New("event bus is closed")

// Publisher is what the service layer depends on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Bus owns a Watermill publisher/subscriber pair.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	server     *EmbeddedServer
	logger     watermill.LoggerAdapter
	transport  string
	shared     bool // publisher and subscriber are the same gochannel

	mu     sync.RWMutex
	closed bool
}

// NewBus creates the bus for cfg.Transport. With the NATS transport and
// EmbeddedNATS set, an in-process nats-server is started first.
func NewBus(cfg *config.EventsConfig) (*Bus, error) {
	logger := watermill.NewSlogLogger(logging.NewSlogLogger())

	switch cfg.Transport {
	case "", TransportMemory:
		buffer := cfg.BufferSize
		if buffer <= 0 {
			buffer = 256
		}
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: buffer}, logger)
		return &Bus{publisher: ch, subscriber: ch, shared: true, logger: logger, transport: TransportMemory}, nil

	case TransportNATS:
		b := &Bus{logger: logger, transport: TransportNATS}
		url := cfg.NATSURL
		if cfg.EmbeddedNATS {
			srv, err := NewEmbeddedServer(cfg.NATSHost, cfg.NATSPort)
			if err != nil {
				return nil, err
			}
			b.server = srv
			url = srv.ClientURL()
		}
		if url == "" {
			return nil, errors.New("events.nats_url is required when embedded NATS is disabled")
		}
		pub, sub, err := newNATSPubSub(url, cfg.QueueGroup, logger)
		if err != nil {
			if b.server != nil {
				b.server.Shutdown()
			}
			return nil, err
		}
		b.publisher, b.subscriber = pub, sub
		return b, nil

	default:
		return nil, fmt.Errorf("unknown events transport %q", cfg.Transport)
	}
}

// Transport returns the active transport name.
func (b *Bus) Transport() string { return b.transport }

// Server returns the embedded NATS server, or nil.
func (b *Bus) Server() *EmbeddedServer { return b.server }

// Subscriber returns the underlying Watermill subscriber.
func (b *Bus) Subscriber() message.Subscriber { return b.subscriber }

// Logger returns the Watermill logger adapter shared by bus components.
func (b *Bus) Logger() watermill.LoggerAdapter { return b.logger }

// Publish serializes e and sends it on its topic.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	data, err := marshal(e)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}
	msg := message.NewMessage(e.ID, data)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}

	if err := b.publisher.Publish(e.Topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.Topic, err)
	}
	metrics.EventsPublished.WithLabelValues(e.Topic).Inc()
	return nil
}

// Close shuts down the publisher, the subscriber and the embedded server.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if !b.shared {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.server != nil {
		b.server.Shutdown()
	}
	return errors.Join(errs...)
}

// PublishAfterCommit publishes events once the producing transaction has
// committed. Failures are logged and dropped.
func PublishAfterCommit(ctx context.Context, p Publisher, evs ...Event) {
	if p == nil {
		return
	}
	for _, e := range evs {
		if err := p.Publish(ctx, e); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("topic", e.Topic).Msg("Failed to publish event")
		}
	}
}
