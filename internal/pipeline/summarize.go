package pipeline

import (
	"context"
	"strings"

	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/llm"
)

// SummarizeStage condenses the email into a short summary. The response
// is used verbatim after trimming; no JSON parsing.
type SummarizeStage struct {
	caller *llm.Caller
}

// NewSummarizeStage creates the summarize stage
func NewSummarizeStage(caller *llm.Caller) *SummarizeStage {
	return &SummarizeStage{caller: caller}
}

// Name returns the stage identity
func (s *SummarizeStage) Name() core.Stage { return core.StageSummarize }

// Run summarizes the email body in light of the classified tone and intent
func (s *SummarizeStage) Run(ctx context.Context, state *core.PipelineState) (core.StateUpdate, error) {
	raw := s.caller.Call(ctx, llm.PromptRequest{
		Stage:    core.StageSummarize,
		Template: summarizePrompt,
		Vars: map[string]string{
			"email_body": state.Email.Body,
			"tone":       state.Tone,
			"intent":     state.Intent,
		},
		Email: &state.Email,
	})

	return core.StateUpdate{
		Summary: core.String(strings.TrimSpace(raw)),
	}, nil
}
