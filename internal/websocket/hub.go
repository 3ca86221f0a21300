// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package websocket

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/metrics"
)

// ShutdownReason identifies why the hub stopped.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types.
const (
	MessageTypeNotification = "notification"
	MessageTypeUnreadCount  = "unread_count"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message is the websocket envelope.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type delivery struct {
	userID string
	msg    Message
}

// Hub routes messages to the connections of individual users.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	direct     chan delivery
	broadcast  chan Message

	// Owned by the Serve goroutine.
	users map[string]map[*Client]struct{}

	count atomic.Int64
}

// NewHub creates a hub. Serve must be running for messages to flow.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 256),
		direct:     make(chan delivery, 256),
		broadcast:  make(chan Message, 64),
		users:      make(map[string]map[*Client]struct{}),
	}
}

// Serve implements suture.Service.
//
// Shutdown is checked first, then client lifecycle events, then messages,
// so a message is never routed against a stale client set.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case c := <-h.register:
			h.add(c)
			continue
		case c := <-h.unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case d := <-h.direct:
			h.deliver(h.users[d.userID], d.msg)
		case m := <-h.broadcast:
			for _, set := range h.users {
				h.deliver(set, m)
			}
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (h *Hub) String() string { return "websocket-hub" }

// SendToUser queues a message for every connection of userID. It reports
// false when the hub's queue is full and the message was dropped.
func (h *Hub) SendToUser(userID, messageType string, data interface{}) bool {
	select {
	case h.direct <- delivery{userID: userID, msg: Message{Type: messageType, Data: data}}:
		return true
	default:
		logging.Warn().Str("user_id", userID).Str("message_type", messageType).Msg("websocket queue full, dropping message")
		return false
	}
}

// Broadcast queues a message for every connection.
func (h *Hub) Broadcast(messageType string, data interface{}) bool {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
		return true
	default:
		logging.Warn().Str("message_type", messageType).Msg("websocket broadcast queue full, dropping message")
		return false
	}
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) add(c *Client) {
	set, ok := h.users[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.users[c.userID] = set
	}
	set[c] = struct{}{}
	h.setCount(h.count.Add(1))
	logging.Debug().Str("user_id", c.userID).Int64("total_clients", h.count.Load()).Msg("websocket client connected")
}

func (h *Hub) remove(c *Client) {
	set, ok := h.users[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.users, c.userID)
	}
	close(c.send)
	h.setCount(h.count.Add(-1))
	logging.Debug().Str("user_id", c.userID).Int64("total_clients", h.count.Load()).Msg("websocket client disconnected")
}

// deliver writes to each client in id order. A client with a full buffer
// is disconnected.
func (h *Hub) deliver(set map[*Client]struct{}, m Message) {
	for _, c := range sortedClients(set) {
		select {
		case c.send <- m:
			metrics.WSMessagesSent.Inc()
		default:
			logging.Warn().Str("user_id", c.userID).Uint64("client_id", c.id).Msg("websocket client too slow, disconnecting")
			h.remove(c)
		}
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	closed := 0
	for userID, set := range h.users {
		for _, c := range sortedClients(set) {
			close(c.send)
			closed++
		}
		delete(h.users, userID)
	}
	h.count.Store(0)
	metrics.WSConnections.Set(0)

	reason := ShutdownReasonContextCanceled
	if ctx.Err() == context.DeadlineExceeded {
		reason = ShutdownReasonContextDeadline
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(reason)).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}

func (h *Hub) setCount(n int64) {
	metrics.WSConnections.Set(float64(n))
}

func sortedClients(set map[*Client]struct{}) []*Client {
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
