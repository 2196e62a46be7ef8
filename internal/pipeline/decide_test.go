package pipeline

import (
	"context"
	"testing"

	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDecide(t *testing.T, intent, tone string, confidence float64) bool {
	t.Helper()

	stage := NewDecideStage(DefaultThresholds())
	state := &core.PipelineState{
		Intent:     intent,
		Tone:       tone,
		Confidence: confidence,
	}

	update, err := stage.Run(context.Background(), state)
	require.NoError(t, err)
	require.NotNil(t, update.Escalate)
	return *update.Escalate
}

func TestDecide_EscalationRule(t *testing.T) {
	tests := []struct {
		name       string
		intent     string
		tone       string
		confidence float64
		want       bool
	}{
		{"low confidence complaint", "complaint", "neutral", 0.75, true},
		{"high confidence complaint", "complaint", "neutral", 0.85, false},
		{"complaint at boundary", "complaint", "neutral", 0.8, false},
		{"complaint just below boundary", "complaint", "neutral", 0.79, true},
		{"angry low confidence", "inquiry", "angry", 0.6, true},
		{"angry at boundary", "inquiry", "angry", 0.7, false},
		{"angry high confidence", "inquiry", "angry", 0.9, false},
		{"urgent low confidence", "request", "urgent", 0.65, true},
		{"urgent high confidence", "request", "urgent", 0.95, false},
		{"tone match is case-insensitive", "request", "VERY ANGRY", 0.5, true},
		{"tone matched as substring", "feedback", "urgent and frustrated", 0.6, true},
		{"neutral request", "request", "neutral", 0.5, false},
		{"happy feedback", "feedback", "happy", 0.99, false},
		{"neutral inquiry", "inquiry", "neutral", 0.9, false},
		{"angry complaint low confidence", "complaint", "angry", 0.65, true},
		// A confident complaint does not escalate even with an angry
		// tone: the tone rule needs confidence below its own threshold
		{"angry complaint high confidence", "complaint", "angry", 0.85, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runDecide(t, tt.intent, tt.tone, tt.confidence))
		})
	}
}

func TestDecide_ComplaintRuleTakesPrecedence(t *testing.T) {
	// A low-confidence complaint escalates regardless of tone
	assert.True(t, runDecide(t, "complaint", "happy", 0.5))
}
