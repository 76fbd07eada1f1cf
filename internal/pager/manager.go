package pager

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Manager tracks the active browse sessions, one per room+owner. A new query
// by the same user in the same room supersedes their previous session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

func sessionKey(room, owner string) string {
	return room + "|" + owner
}

// Start registers a session and runs it on its own goroutine, removing it
// from the routing table when it ends.
func (m *Manager) Start(ctx context.Context, s *Session) {
	key := sessionKey(s.Room(), s.Owner())

	m.mu.Lock()
	if previous, ok := m.sessions[key]; ok {
		previous.Close()
	}
	m.sessions[key] = s
	m.mu.Unlock()

	go func() {
		s.Run(ctx)

		m.mu.Lock()
		if m.sessions[key] == s {
			delete(m.sessions, key)
		}
		m.mu.Unlock()
	}()
}

// HandleInput routes a raw chat message to the sender's session in that room,
// reporting whether it was consumed as navigation input.
func (m *Manager) HandleInput(room, sender, text string) bool {
	in, ok := ParseInput(text)
	if !ok {
		return false
	}

	m.mu.Lock()
	session, ok := m.sessions[sessionKey(room, sender)]
	m.mu.Unlock()
	if !ok {
		return false
	}

	return session.Offer(sender, in)
}

// ActiveCount returns the number of live sessions.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
