// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

/*
Package websocket pushes live notifications to authenticated users.

A Hub tracks every open connection by user id. The API upgrades
GET /api/v1/ws once the request has a verified session and registers the
connection under the caller's id; the notification consumer then calls
SendToUser for each notification it stores.

Architecture:

	notification consumer ──SendToUser──▶ Hub ──▶ user A: conn 1, conn 2
	                                          └─▶ user B: conn 3

The Hub's maps are owned by the goroutine running Serve. Register,
Unregister and SendToUser only enqueue work, so callers never block on a
slow client. A client whose buffer is full is dropped.

Each client has two goroutines:
  - readPump: reads client frames, answers {"type":"ping"} with a pong
  - writePump: writes queued messages and keeps the connection alive with
    websocket pings

Message envelope:

	{"type": "notification", "data": {...}}

Timeouts:
  - writeWait: 10 seconds per write
  - pongWait: 60 seconds without a pong closes the connection
  - pingPeriod: 54 seconds
  - maxMessageSize: 4 KB inbound
*/
package websocket
