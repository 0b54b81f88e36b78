// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package sse

import (
	"sync"

	"github.com/samber/lo"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/metrics"
)

type subscriber struct {
	ch     chan string
	userID string
	admin  bool
}

// Hub fans events out to connected browser tabs. Tabs of one browser share a
// session ID; a user may hold several sessions.
type Hub struct {
	sessions map[string][]subscriber
	users    map[string][]string
	mu       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string][]subscriber),
		users:    make(map[string][]string),
	}
}

// Register subscribes a tab and returns its event channel.
func (h *Hub) Register(sessionID, userID string, admin bool) chan string {
	ch := make(chan string, 10)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[sessionID] = append(h.sessions[sessionID], subscriber{ch: ch, userID: userID, admin: admin})
	if !lo.Contains(h.users[userID], sessionID) {
		h.users[userID] = append(h.users[userID], sessionID)
	}
	metrics.SSEClients.Inc()

	return ch
}

// Unregister removes a tab and closes its channel.
func (h *Hub) Unregister(sessionID, userID string, ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	before := len(h.sessions[sessionID])
	h.sessions[sessionID] = lo.Reject(h.sessions[sessionID], func(s subscriber, _ int) bool {
		return s.ch == ch
	})
	if len(h.sessions[sessionID]) == before {
		return
	}
	metrics.SSEClients.Dec()

	if len(h.sessions[sessionID]) == 0 {
		delete(h.sessions, sessionID)
		h.users[userID] = lo.Without(h.users[userID], sessionID)
		if len(h.users[userID]) == 0 {
			delete(h.users, userID)
		}
	}

	close(ch)
}

func deliver(subs []subscriber, msg string) {
	for _, s := range subs {
		select {
		case s.ch <- msg:
		default:
			// slow tab, drop
		}
	}
}

// SendToUser reaches every session of the user except skipSession, which
// is the tab that already shows the result. Pass "" to reach all of them.
func (h *Hub) SendToUser(userID, skipSession, msg string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sid := range h.users[userID] {
		if sid != skipSession {
			deliver(h.sessions[sid], msg)
		}
	}
}

// SendToAdmins reaches every tab opened by an admin.
func (h *Hub) SendToAdmins(msg string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, subs := range h.sessions {
		deliver(lo.Filter(subs, func(s subscriber, _ int) bool { return s.admin }), msg)
	}
}

// ClientCount returns the number of connected tabs.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.SumBy(lo.Values(h.sessions), func(subs []subscriber) int { return len(subs) })
}
