// Package composer assembles the ordered content parts sent to the model
// for one conversation turn.
package composer

import (
	"github.com/kalambet/docchat/internal/engine"
	"github.com/kalambet/docchat/internal/extract"
)

// The strict instruction is injected whenever file context accompanies the
// turn: the model must answer from the supplied material only.
const strictInstruction = "You are an expert assistant. Your task is to answer the user's question based ONLY on the provided context and conversation history. Do not use any external knowledge. If the answer is not found in the context, you must state: 'I don't know, as the answer is not in the provided information.'"

// Without file context the conversation is unrestricted.
const generalInstruction = "You are a helpful assistant. Answer the user's question conversationally, drawing on the conversation history where it is relevant."

const (
	contextLabel  = "CONTEXT FROM UPLOADED FILE:"
	questionLabel = "USER'S CURRENT QUESTION:"
)

// Composer builds outgoing request content. The zero value is usable;
// New exists for symmetry with the rest of the wiring.
type Composer struct{}

func New() *Composer { return &Composer{} }

// Instruction returns the system instruction for a turn. Selection is
// context-sensitive: strict when file context is present, general otherwise.
func (c *Composer) Instruction(hasContext bool) string {
	if hasContext {
		return strictInstruction
	}
	return generalInstruction
}

// Build produces the ordered parts for one turn:
// [instruction, (context label, context payload,)? question label, user text].
// pending with Kind None contributes nothing.
func (c *Composer) Build(userText string, pending extract.Content) []engine.Part {
	hasContext := pending.Kind != extract.KindNone
	parts := []engine.Part{engine.TextPart(c.Instruction(hasContext))}

	switch pending.Kind {
	case extract.KindText:
		parts = append(parts,
			engine.TextPart(contextLabel),
			engine.TextPart(pending.Text),
		)
	case extract.KindImage:
		parts = append(parts,
			engine.TextPart(contextLabel),
			engine.BlobPart(pending.Format, pending.Data),
		)
	}

	parts = append(parts,
		engine.TextPart(questionLabel),
		engine.TextPart(userText),
	)
	return parts
}
