package pipeline

import (
	"context"
	"strings"

	"github.com/mikey/llm-email-assistant/internal/core"
)

// DecideStage applies the escalation rule. It is a pure function of the
// state: no model call, no storage access.
type DecideStage struct {
	thresholds Thresholds
}

// NewDecideStage creates the decide stage
func NewDecideStage(thresholds Thresholds) *DecideStage {
	return &DecideStage{thresholds: thresholds}
}

// Name returns the stage identity
func (s *DecideStage) Name() core.Stage { return core.StageDecide }

// Run evaluates the escalation rule in fixed precedence: a low-confidence
// complaint escalates; otherwise an urgent or angry tone escalates below
// the tone threshold. Boundary values do not escalate (strict less-than).
func (s *DecideStage) Run(ctx context.Context, state *core.PipelineState) (core.StateUpdate, error) {
	escalate := false

	tone := strings.ToLower(state.Tone)
	switch {
	case state.Intent == core.IntentComplaint && state.Confidence < s.thresholds.ComplaintConfidence:
		escalate = true
	case strings.Contains(tone, "urgent") || strings.Contains(tone, "angry"):
		escalate = state.Confidence < s.thresholds.ToneConfidence
	}

	return core.StateUpdate{
		Escalate: core.Bool(escalate),
	}, nil
}
