package pipeline

import (
	"context"

	"github.com/mikey/llm-email-assistant/internal/adapters/memory"
	"github.com/mikey/llm-email-assistant/internal/core"
	"go.uber.org/zap"
)

// historyUnavailableContext substitutes for the rendered history when
// the store itself errors. History is best-effort context, so a broken
// store never aborts the pipeline.
const historyUnavailableContext = "Conversation history unavailable."

// RecallStage retrieves and renders the sender's prior conversation
// history.
type RecallStage struct {
	store  core.MemoryStore
	logger *zap.Logger
}

// NewRecallStage creates the recall stage
func NewRecallStage(store core.MemoryStore, logger *zap.Logger) *RecallStage {
	return &RecallStage{
		store:  store,
		logger: logger,
	}
}

// Name returns the stage identity
func (s *RecallStage) Name() core.Stage { return core.StageRecall }

// Run loads up to the retention bound of prior entries for the sender
// and formats them for the reply prompt.
func (s *RecallStage) Run(ctx context.Context, state *core.PipelineState) (core.StateUpdate, error) {
	entries, err := s.store.LoadRecent(ctx, state.Email.From)
	if err != nil {
		s.logger.Warn("Failed to load conversation history",
			zap.String("sender", state.Email.From),
			zap.Error(err))
		return core.StateUpdate{
			MemoryContext: core.String(historyUnavailableContext),
		}, nil
	}

	return core.StateUpdate{
		MemoryContext: core.String(memory.FormatContext(entries)),
	}, nil
}
