package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Upload is the audit record of one processed file upload.
type Upload struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Kind      string    `json:"kind"` // "text" or "image"
	SizeBytes int64     `json:"size_bytes"`
	Chars     int       `json:"chars"` // extracted characters; 0 for images
	CreatedAt time.Time `json:"created_at"`
}

// Interaction is the audit record of one completed conversation turn.
// The live transcript is memory-only; these rows exist for inspection and
// the status command, and are never replayed into a session.
type Interaction struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserText   string    `json:"user_text"`
	Reply      string    `json:"reply"`
	Status     string    `json:"status"` // "completed" or "error"
	HadContext bool      `json:"had_context"`
}
