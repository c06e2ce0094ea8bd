// Package engine abstracts the remote generative model behind a small
// interface so the conversation layer can be tested without network access.
package engine

import "context"

// Roles understood by the remote model's chat history.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one prior conversation turn replayed as history. History is
// text-only; images from earlier turns are not resent.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Part is one ordered piece of outgoing request content: either text or an
// inline image blob. Exactly one field is set.
type Part struct {
	Text string
	Blob *Blob
}

// Blob is an encoded image forwarded to the model as-is.
type Blob struct {
	Format string // "png" or "jpeg"
	Data   []byte
}

// TextPart builds a text Part.
func TextPart(s string) Part { return Part{Text: s} }

// BlobPart builds an image Part.
func BlobPart(format string, data []byte) Part {
	return Part{Blob: &Blob{Format: format, Data: data}}
}

// Generator is the remote model. Implementations must treat history and
// parts as read-only.
type Generator interface {
	// Generate sends one request built from history plus ordered content
	// parts and returns the model's text reply.
	Generate(ctx context.Context, history []Message, parts []Part) (string, error)

	// GenerateStream behaves like Generate but delivers reply fragments to
	// onDelta as they arrive. The full reply is returned once the stream
	// ends. A non-nil error from onDelta aborts the stream.
	GenerateStream(ctx context.Context, history []Message, parts []Part, onDelta func(text string) error) (string, error)
}
