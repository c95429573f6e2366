// Package sync fans catalog change events out to connected admin
// dashboards over WebSocket and raw TCP (newline-delimited JSON).
package sync

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"telugudb/pkg/metrics"
)

const writeTimeout = 2 * time.Second

type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]struct{}
	wsClients map[*websocket.Conn]struct{}
	log       zerolog.Logger
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:   make(map[net.Conn]struct{}),
		wsClients: make(map[*websocket.Conn]struct{}),
		log:       log.With().Str("component", "sync").Logger(),
	}
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	metrics.FeedClients.WithLabelValues("tcp").Inc()
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		metrics.FeedClients.WithLabelValues("tcp").Dec()
	}
	_ = conn.Close()
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	h.wsClients[ws] = struct{}{}
	h.mu.Unlock()
	metrics.FeedClients.WithLabelValues("ws").Inc()
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.wsClients[ws]
	delete(h.wsClients, ws)
	h.mu.Unlock()
	if ok {
		metrics.FeedClients.WithLabelValues("ws").Dec()
	}
	_ = ws.Close()
}

// Publish broadcasts a content event. It satisfies catalog.Publisher.
// Publishing on a nil hub is a no-op.
func (h *Hub) Publish(ev ContentEvent) {
	if h == nil {
		return
	}
	h.BroadcastJSON(ev)
}

// BroadcastJSON writes v to every client; clients that fail a write are
// dropped.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal broadcast")
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		w := bufio.NewWriter(c)
		if _, err := w.Write(b); err == nil {
			err = w.Flush()
		}
		if err != nil {
			h.log.Debug().Err(err).Str("remote", c.RemoteAddr().String()).Msg("dropping tcp client")
			_ = c.Close()
			delete(h.clients, c)
			metrics.FeedClients.WithLabelValues("tcp").Dec()
		}
	}

	for ws := range h.wsClients {
		_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.Debug().Err(err).Msg("dropping ws client")
			_ = ws.Close()
			delete(h.wsClients, ws)
			metrics.FeedClients.WithLabelValues("ws").Dec()
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.Close()
		delete(h.clients, c)
		metrics.FeedClients.WithLabelValues("tcp").Dec()
	}
	for ws := range h.wsClients {
		_ = ws.Close()
		delete(h.wsClients, ws)
		metrics.FeedClients.WithLabelValues("ws").Dec()
	}
}

func (h *Hub) welcome(conn net.Conn) {
	s := h.Stats()
	msg := fmt.Sprintf("{\"type\":\"welcome\",\"transport\":\"tcp\",\"clients\":%d}\n", s.TCPClients+s.WSClients)
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, _ = conn.Write([]byte(msg))
}
