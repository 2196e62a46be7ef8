// Package pipeline implements the fixed five-stage email triage chain:
// classify, summarize, recall, reply, decide. Data flows strictly
// forward; each stage produces a partial update that the runner merges
// into the shared state.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/llm"
	"go.uber.org/zap"
)

// Stage is one step of the pipeline: a function of the running state
// plus its collaborators, producing a partial state update.
type Stage interface {
	Name() core.Stage
	Run(ctx context.Context, state *core.PipelineState) (core.StateUpdate, error)
}

// Runner holds the stage order and threads a state record through it.
type Runner struct {
	stages []Stage
	logger *zap.Logger
}

// Thresholds are the confidence cut-offs of the decide stage.
type Thresholds struct {
	ComplaintConfidence float64
	ToneConfidence      float64
}

// DefaultThresholds returns the standard escalation thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ComplaintConfidence: 0.8,
		ToneConfidence:      0.7,
	}
}

// NewRunner wires the five stages in their fixed order.
func NewRunner(
	caller *llm.Caller,
	store core.MemoryStore,
	thresholds Thresholds,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		stages: []Stage{
			NewClassifyStage(caller, store, logger, time.Now),
			NewSummarizeStage(caller),
			NewRecallStage(store, logger),
			NewReplyStage(caller),
			NewDecideStage(thresholds),
		},
		logger: logger,
	}
}

// Run executes every stage in order, merging each partial update into
// the state. Cancellation is checked between stages only; a stage that
// has started always completes.
func (r *Runner) Run(ctx context.Context, state *core.PipelineState) (*core.PipelineState, error) {
	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline cancelled before %s: %w", stage.Name(), err)
		}

		update, err := stage.Run(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		update.Apply(state)

		r.logger.Debug("Stage complete", zap.String("stage", string(stage.Name())))
	}
	return state, nil
}
