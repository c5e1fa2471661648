// Package session tracks staged uploads between the preview and confirm
// steps of an import.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one staged upload. Ref is the blob key the file bytes are
// stored under.
type Session struct {
	ID         string    `json:"session_id"`
	Ref        string    `json:"-"`
	Filename   string    `json:"filename"`
	Ext        string    `json:"ext"`
	Checksum   string    `json:"checksum"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Manager struct {
	sessions map[string]*Session
	mu       sync.Mutex
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// Stage records an upload under s.ID, replacing whatever that session held.
// The replaced session is returned so its blob can be removed.
func (m *Manager) Stage(s Session) (Session, *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		s.ID = NewID()
	}
	if s.UploadedAt.IsZero() {
		s.UploadedAt = m.now()
	}
	prev := m.sessions[s.ID]
	cur := s
	m.sessions[s.ID] = &cur
	if prev != nil {
		old := *prev
		return cur, &old
	}
	return cur, nil
}

// Take removes the session and returns it. A session can be taken once.
func (m *Manager) Take(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	delete(m.sessions, id)
	return *s, true
}

// Reap removes sessions staged more than maxAge ago and returns them oldest
// first.
func (m *Manager) Reap(maxAge time.Duration) []Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	var out []Session
	for id, s := range m.sessions {
		if s.UploadedAt.Before(cutoff) {
			out = append(out, *s)
			delete(m.sessions, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out
}

// Refs returns the blob keys still held by live sessions.
func (m *Manager) Refs() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]bool, len(m.sessions))
	for _, s := range m.sessions {
		out[s.Ref] = true
	}
	return out
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
