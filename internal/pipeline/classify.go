package pipeline

import (
	"context"
	"time"

	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/llm"
	"github.com/mikey/llm-email-assistant/internal/parser"
	"go.uber.org/zap"
)

// classifyDefaults is the parse-failure fallback classification. The
// high confidence deliberately biases toward non-escalation when the
// model response is unusable: a garbled response is not evidence of an
// urgent complaint.
var classifyDefaults = parser.Classification{
	Intent:     core.IntentRequest,
	Tone:       "neutral",
	Confidence: 0.9,
}

// ClassifyStage determines the email's intent, tone and classification
// confidence, and records the message in the sender's history.
type ClassifyStage struct {
	caller *llm.Caller
	store  core.MemoryStore
	logger *zap.Logger
	now    func() time.Time
}

// NewClassifyStage creates the classify stage
func NewClassifyStage(caller *llm.Caller, store core.MemoryStore, logger *zap.Logger, now func() time.Time) *ClassifyStage {
	return &ClassifyStage{
		caller: caller,
		store:  store,
		logger: logger,
		now:    now,
	}
}

// Name returns the stage identity
func (s *ClassifyStage) Name() core.Stage { return core.StageClassify }

// Run classifies the email and appends a history entry for the sender.
// A persistence failure is logged, never propagated: the classification
// result is still returned.
func (s *ClassifyStage) Run(ctx context.Context, state *core.PipelineState) (core.StateUpdate, error) {
	raw := s.caller.Call(ctx, llm.PromptRequest{
		Stage:    core.StageClassify,
		Template: classifyPrompt,
		Vars:     map[string]string{"email_body": state.Email.Body},
		Email:    &state.Email,
	})

	result := parser.ParseClassification(raw, classifyDefaults)
	timestamp := s.now().Format(time.RFC3339)

	entry := core.HistoryEntry{
		From:      state.Email.From,
		To:        state.Email.To,
		Subject:   state.Email.Subject,
		Body:      state.Email.Body,
		Timestamp: timestamp,
		Intent:    result.Intent,
	}
	if err := s.store.Append(ctx, state.Email.From, entry); err != nil {
		s.logger.Error("Failed to persist history entry",
			zap.String("sender", state.Email.From),
			zap.Error(err))
	}

	return core.StateUpdate{
		Intent:     core.String(result.Intent),
		Tone:       core.String(result.Tone),
		Confidence: core.Float(result.Confidence),
		Timestamp:  core.String(timestamp),
	}, nil
}
