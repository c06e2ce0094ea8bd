// Package chat holds the conversation state and the per-turn orchestration
// logic that ties extraction, prompt composition, and the model together.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/docchat/internal/extract"
)

// Role tags a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment is an image shown inline next to a user turn. Display only;
// it is never replayed to the model as history.
type Attachment struct {
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

// Turn is one message in the transcript.
type Turn struct {
	Role    Role        `json:"role"`
	Content string      `json:"content"`
	Image   *Attachment `json:"image,omitempty"`
}

// Session is the single live conversation: an append-only transcript plus at
// most one pending file context. It lives in process memory only and is
// dropped on restart. Guarded by a mutex because net/http serves requests
// concurrently.
type Session struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	turns     []Turn
	pending   *extract.Content
}

func NewSession() *Session {
	return &Session{
		id:        uuid.New().String(),
		createdAt: time.Now().UTC(),
	}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt
}

// Append adds a turn to the transcript.
func (s *Session) Append(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, t)
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// SetPending stores extracted content from the latest upload, replacing any
// previous value. KindNone clears instead.
func (s *Session) SetPending(c extract.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Kind == extract.KindNone {
		s.pending = nil
		return
	}
	s.pending = &c
}

// TakePending returns the pending file context and clears it, so a file's
// context is usable for exactly one turn.
func (s *Session) TakePending() (extract.Content, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return extract.Content{}, false
	}
	c := *s.pending
	s.pending = nil
	return c, true
}

// Reset clears the transcript and any pending context, keeping the session id.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.pending = nil
}
