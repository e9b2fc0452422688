// Package session keeps per-browser state on the server side, keyed by a
// random cookie value.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Store persists encoded sessions.
type Store interface {
	// Get returns the encoded session, or ok=false if it does not exist or expired.
	Get(ctx context.Context, id string) (data []byte, ok bool, err error)
	Save(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Session is the typed state of one browser session.
type Session struct {
	id    string
	dirty bool
	isNew bool

	Email string             `json:"email,omitempty"`
	Flash string             `json:"flash,omitempty"`
	Exams map[string][]int64 `json:"exams,omitempty"`
}

func newSession(id string) *Session {
	return &Session{id: id, isNew: true}
}

// ID returns the session identifier carried by the cookie.
func (s *Session) ID() string { return s.id }

// Identity returns the logged-in user's email, or "" for anonymous sessions.
func (s *Session) Identity() string { return s.Email }

// SetIdentity stores the logged-in user's email.
func (s *Session) SetIdentity(email string) {
	s.Email = email
	s.dirty = true
}

// SetFlash stores a one-time notice shown on the next rendered page.
func (s *Session) SetFlash(msg string) {
	s.Flash = msg
	s.dirty = true
}

// PopFlash returns and clears the pending notice.
func (s *Session) PopFlash() string {
	msg := s.Flash
	if msg != "" {
		s.Flash = ""
		s.dirty = true
	}
	return msg
}

// PinExam stores the ordered question ids of an exam under key,
// replacing any previous exam with the same key.
func (s *Session) PinExam(key string, ids []int64) {
	if s.Exams == nil {
		s.Exams = make(map[string][]int64)
	}
	s.Exams[key] = slices.Clone(ids)
	s.dirty = true
}

// TakeExam returns the question ids pinned under key and removes them.
func (s *Session) TakeExam(key string) []int64 {
	ids, ok := s.Exams[key]
	if !ok {
		return nil
	}
	delete(s.Exams, key)
	s.dirty = true
	return ids
}

// PinnedExam returns the question ids pinned under key without removing them.
func (s *Session) PinnedExam(key string) []int64 {
	return slices.Clone(s.Exams[key])
}

// Clear drops all state, logging the user out.
func (s *Session) Clear() {
	s.Email = ""
	s.Flash = ""
	s.Exams = nil
	s.dirty = true
}

func encode(s *Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decode(id string, data []byte) (*Session, error) {
	s := &Session{id: id}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}
