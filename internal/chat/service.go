package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/docchat/internal/composer"
	"github.com/kalambet/docchat/internal/engine"
	"github.com/kalambet/docchat/internal/extract"
	"github.com/kalambet/docchat/internal/storage"
)

// Recorder persists finished turns for the audit log. Saving is best effort;
// failures are logged and never surfaced to the user.
type Recorder interface {
	SaveInteraction(storage.Interaction) error
}

// Service orchestrates one conversation turn end to end.
type Service struct {
	gen    engine.Generator
	comp   *composer.Composer
	rec    Recorder // optional
	logger *slog.Logger
}

func NewService(gen engine.Generator, comp *composer.Composer, rec Recorder) *Service {
	return &Service{
		gen:    gen,
		comp:   comp,
		rec:    rec,
		logger: slog.Default(),
	}
}

// HandleTurn runs one full turn: consume pending context, append the user
// turn, call the model with the prior transcript as history, and append the
// reply. A remote failure becomes an assistant turn carrying the error text;
// HandleTurn itself never fails.
func (s *Service) HandleTurn(ctx context.Context, sess *Session, text string) Turn {
	return s.handle(ctx, sess, text, nil)
}

// HandleTurnStream is HandleTurn with reply fragments delivered to onDelta
// as they arrive. The returned turn carries the complete reply.
func (s *Service) HandleTurnStream(ctx context.Context, sess *Session, text string, onDelta func(string) error) Turn {
	return s.handle(ctx, sess, text, onDelta)
}

func (s *Service) handle(ctx context.Context, sess *Session, text string, onDelta func(string) error) Turn {
	// Consume-once: the pending context is cleared here regardless of how
	// the remote call turns out.
	pending, hasContext := sess.TakePending()

	userTurn := Turn{Role: RoleUser, Content: text}
	if pending.Kind == extract.KindImage {
		userTurn.Image = &Attachment{Format: pending.Format, Data: pending.Data}
	}

	// History excludes the turn being appended now.
	history := historyMessages(sess.Turns())
	sess.Append(userTurn)

	parts := s.comp.Build(text, pending)

	var reply string
	var err error
	if onDelta != nil {
		reply, err = s.gen.GenerateStream(ctx, history, parts, onDelta)
	} else {
		reply, err = s.gen.Generate(ctx, history, parts)
	}

	assistant := Turn{Role: RoleAssistant}
	status := "completed"
	if err != nil {
		assistant.Content = fmt.Sprintf("Sorry, an error occurred: %v", err)
		status = "error"
		s.logger.Warn("model call failed", "error", err)
	} else {
		assistant.Content = reply
	}
	sess.Append(assistant)

	s.record(text, assistant.Content, status, hasContext)
	return assistant
}

// historyMessages maps transcript turns to model history: assistant turns
// replay under the model role, and only text survives.
func historyMessages(turns []Turn) []engine.Message {
	msgs := make([]engine.Message, len(turns))
	for i, t := range turns {
		role := engine.RoleUser
		if t.Role == RoleAssistant {
			role = engine.RoleModel
		}
		msgs[i] = engine.Message{Role: role, Text: t.Content}
	}
	return msgs
}

func (s *Service) record(userText, reply, status string, hadContext bool) {
	if s.rec == nil {
		return
	}
	err := s.rec.SaveInteraction(storage.Interaction{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC(),
		UserText:   userText,
		Reply:      reply,
		Status:     status,
		HadContext: hadContext,
	})
	if err != nil {
		s.logger.Warn("recording interaction failed", "error", err)
	}
}
