// Package storage provides the session.Store backends.
package storage

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStorage keeps sessions in process memory. Sessions are lost on restart.
type MemoryStorage struct {
	mu        sync.RWMutex
	sessions  map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStorage creates a new MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

// Get retrieves the encoded session for a given session ID.
func (s *MemoryStorage) Get(_ context.Context, id string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return slices.Clone(e.data), true, nil
}

// Save stores the encoded session for a given session ID until ttl elapses.
func (s *MemoryStorage) Save(_ context.Context, id string, data []byte, ttl time.Duration) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = memoryEntry{data: slices.Clone(data), expiresAt: now.Add(ttl)}
	if now.Sub(s.lastSweep) >= ttl {
		s.sweep(now)
		s.lastSweep = now
	}
	return nil
}

// Delete removes the session for a given session ID.
func (s *MemoryStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStorage) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSweep = now
	return s.sweep(now)
}

// sweep drops expired sessions. The caller must hold the write lock.
func (s *MemoryStorage) sweep(now time.Time) int {
	removed := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
