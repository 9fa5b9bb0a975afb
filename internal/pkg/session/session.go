// Package session holds the server-side per-client session state.
package session

import (
	"net"
	"sync"
	"time"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/clock"
)

// Record is the mutable state of one client session. The server engine
// is the single writer; the store only guards table membership.
type Record struct {
	ID           uint32
	Addr         net.Addr
	ExpectedSeq  uint32
	Clock        *clock.Clock
	LastActivity time.Time
	Active       bool
}

// Store is a table of session records keyed by session id.
type Store interface {
	New(id uint32, addr net.Addr) (*Record, error)
	Get(id uint32) (*Record, error)
	Clear(id uint32) error
	IDs() []uint32
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	sessions map[uint32]*Record
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uint32]*Record),
	}
}

// New creates a record for a first-contact session. The peer address is
// captured once and never changes.
func (s *MemoryStore) New(id uint32, addr net.Addr) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		return nil, ErrSessionAlreadyExists
	}
	rec := &Record{
		ID:           id,
		Addr:         addr,
		Clock:        clock.New(),
		LastActivity: time.Now(),
		Active:       true,
	}
	s.sessions[id] = rec
	return rec, nil
}

// Get returns the record for id.
func (s *MemoryStore) Get(id uint32) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.sessions[id]; ok {
		return rec, nil
	}
	return nil, ErrSessionNotFound
}

// Clear removes the record for id.
func (s *MemoryStore) Clear(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// IDs returns a snapshot of the session ids, so callers can remove
// records while scanning.
func (s *MemoryStore) IDs() []uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint32, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}
