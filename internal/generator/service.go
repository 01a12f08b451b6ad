package generator

import (
	"context"
	"log/slog"

	"github.com/askaron/docsmith/internal/adapter"
	"github.com/askaron/docsmith/internal/errors"
	"github.com/askaron/docsmith/internal/logger"
	"github.com/askaron/docsmith/internal/prompt"
	"github.com/askaron/docsmith/internal/relay"

	"github.com/oklog/ulid/v2"
)

// Acknowledgment is sent as soon as a message arrives. Delivery is best
// effort; a failed acknowledgment never aborts the invocation.
const Acknowledgment = "⏳ Request sent. Generating your document..."

// Service is the invocation boundary: one inbound message in, exactly one
// provider call and one final reply out. It holds no state between calls.
type Service struct {
	generator relay.Generator
	output    adapter.OutputAdapter
}

func NewService(generator relay.Generator, output adapter.OutputAdapter) *Service {
	return &Service{
		generator: generator,
		output:    output,
	}
}

// Handle runs one inbound message through compose, relay, and reply. No error
// escapes: failures are logged in full and converted to one of the fixed
// user-facing templates.
func (s *Service) Handle(ctx context.Context, sessionID string, text string) {
	traceID := ulid.Make().String()
	ctx = logger.WithTraceID(ctx, traceID)

	log := slog.With("trace_id", traceID, "session_id", sessionID)
	log.Info("Generation requested", "chars", len(text))

	if err := s.output.Send(ctx, sessionID, Acknowledgment); err != nil {
		log.Warn("Acknowledgment send failed", "error", err)
	}

	resp, err := s.generator.Generate(ctx, prompt.Compose(text))
	if err != nil {
		log.Error("Generation failed", "category", errors.Category(err), "error", err)
		s.reply(ctx, log, sessionID, errors.UserMessage(err))
		return
	}

	log.Info("Generation succeeded", "chars", len(resp.Content))
	s.reply(ctx, log, sessionID, resp.Content)
}

func (s *Service) reply(ctx context.Context, log *slog.Logger, sessionID string, content string) {
	if err := s.output.Send(ctx, sessionID, content); err != nil {
		log.Error("Reply send failed", "error", err)
	}
}
