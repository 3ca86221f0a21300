// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package events

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/metrics"
)

// Handler processes one event.
type Handler func(ctx context.Context, e Event) error

// Consumer routes topics to handlers through a Watermill router. It is a
// suture service: each Serve call builds a fresh router, so a restarted
// consumer resubscribes.
type Consumer struct {
	name       string
	subscriber message.Subscriber
	logger     watermill.LoggerAdapter
	handlers   map[string]Handler
	maxRetries int
	retryWait  time.Duration

	readyOnce sync.Once
	ready     chan struct{}
}

// NewConsumer creates a consumer reading from the bus subscriber.
func NewConsumer(name string, bus *Bus) *Consumer {
	return &Consumer{
		name:       name,
		subscriber: bus.Subscriber(),
		logger:     bus.Logger(),
		handlers:   make(map[string]Handler),
		maxRetries: 2,
		retryWait:  100 * time.Millisecond,
		ready:      make(chan struct{}),
	}
}

// Handle registers h for topic. Must be called before Serve.
func (c *Consumer) Handle(topic string, h Handler) *Consumer {
	c.handlers[topic] = h
	return c
}

// Ready is closed once the first router has subscribed to every topic.
func (c *Consumer) Ready() <-chan struct{} { return c.ready }

// Serve implements suture.Service.
func (c *Consumer) Serve(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, c.logger)
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}

	retry := middleware.Retry{
		MaxRetries:      c.maxRetries,
		InitialInterval: c.retryWait,
		Multiplier:      2,
		Logger:          c.logger,
	}
	// Outermost first: a message that still fails after retries is acked
	// and dropped.
	router.AddMiddleware(dropFailed, middleware.Recoverer, retry.Middleware)

	topics := make([]string, 0, len(c.handlers))
	for topic := range c.handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	for _, topic := range topics {
		router.AddConsumerHandler(c.name+"."+topic, topic, c.subscriber, c.wrap(topic, c.handlers[topic]))
	}

	go func() {
		select {
		case <-router.Running():
			c.readyOnce.Do(func() { close(c.ready) })
		case <-ctx.Done():
		}
	}()

	err = router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return errors.New("event router stopped")
}

// String implements fmt.Stringer for suture logs.
func (c *Consumer) String() string { return c.name }

func (c *Consumer) wrap(topic string, h Handler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		e, err := unmarshal(msg.Payload)
		if err != nil {
			metrics.EventsConsumed.WithLabelValues(topic, "invalid").Inc()
			logging.Warn().Err(err).Str("topic", topic).Str("message_id", msg.UUID).Msg("Discarding malformed event")
			return nil
		}

		ctx := msg.Context()
		if id := msg.Metadata.Get("request_id"); id != "" {
			ctx = logging.ContextWithRequestID(ctx, id)
		}
		if err := h(ctx, e); err != nil {
			metrics.EventsConsumed.WithLabelValues(topic, "error").Inc()
			return err
		}
		metrics.EventsConsumed.WithLabelValues(topic, "ok").Inc()
		return nil
	}
}

func dropFailed(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := h(msg)
		if err != nil {
			logging.Error().Err(err).Str("message_id", msg.UUID).Msg("Event handler failed, dropping event")
			return nil, nil
		}
		return out, nil
	}
}
