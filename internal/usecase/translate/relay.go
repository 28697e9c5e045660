package translate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
)

// Translator turns one text into the target language
type Translator interface {
	Translate(ctx context.Context, text, language string) (string, error)
}

// EventType discriminates relay events
type EventType string

const (
	EventTranslated EventType = "translated"
	EventFailed     EventType = "failed"
	EventDone       EventType = "done"
)

// Event is one unit of relay output. Translated events arrive in input
// order; a failed event is always the last one on the channel.
type Event struct {
	Type        EventType
	Index       int
	Translation string
	Reason      string
}

// Relay translates a list of texts one by one, emitting results as they
// complete.
type Relay struct {
	translator Translator
	logger     *zap.Logger
}

// NewRelay creates a relay
func NewRelay(translator Translator, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{translator: translator, logger: logger}
}

// Translate translates a single text
func (r *Relay) Translate(ctx context.Context, text, language string) (string, error) {
	out, err := r.translator.Translate(ctx, text, language)
	if err != nil {
		r.logger.Warn("translation failed", zap.String("language", language), zap.Error(err))
		return "", fmt.Errorf("%w: %v", uerrors.ErrTranslationFailed, err)
	}
	return out, nil
}

// Stream translates texts sequentially and sends one event per text. The
// first failure ends the stream with a failed event; a done event marks a
// complete run. The channel closes when the run ends or ctx is cancelled.
func (r *Relay) Stream(ctx context.Context, texts []string, language string) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		send := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for i, text := range texts {
			if ctx.Err() != nil {
				return
			}
			out, err := r.translator.Translate(ctx, text, language)
			if err != nil {
				r.logger.Warn("stream translation failed",
					zap.Int("index", i),
					zap.String("language", language),
					zap.Error(err))
				send(Event{Type: EventFailed, Index: i, Reason: "translation service unavailable"})
				return
			}
			if !send(Event{Type: EventTranslated, Index: i, Translation: out}) {
				return
			}
		}
		send(Event{Type: EventDone, Index: len(texts)})
	}()

	return events
}
