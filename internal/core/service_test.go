package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRunner struct {
	final *PipelineState
	err   error
	got   *PipelineState
}

func (r *fakeRunner) Run(ctx context.Context, state *PipelineState) (*PipelineState, error) {
	r.got = state
	if r.err != nil {
		return nil, r.err
	}
	if r.final != nil {
		return r.final, nil
	}
	return state, nil
}

func validRequest() *TriageRequest {
	return &TriageRequest{
		From:    "sarah@example.com",
		To:      "support@company.com",
		Subject: "Payment not going through",
		Body:    "My payment keeps failing",
	}
}

func TestProcessEmail_ValidationErrors(t *testing.T) {
	service := NewAssistantService(&fakeRunner{}, zap.NewNop())

	tests := []struct {
		name   string
		mutate func(*TriageRequest)
	}{
		{"missing from", func(r *TriageRequest) { r.From = "" }},
		{"missing to", func(r *TriageRequest) { r.To = "" }},
		{"missing subject", func(r *TriageRequest) { r.Subject = "" }},
		{"missing body", func(r *TriageRequest) { r.Body = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			resp, err := service.ProcessEmail(context.Background(), req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestProcessEmail_NilRequest(t *testing.T) {
	service := NewAssistantService(&fakeRunner{}, zap.NewNop())

	resp, err := service.ProcessEmail(context.Background(), nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestProcessEmail_ResponseAddressing(t *testing.T) {
	runner := &fakeRunner{
		final: &PipelineState{
			Email: EmailMessage{
				From:    "sarah@example.com",
				To:      "support@company.com",
				Subject: "Payment not going through",
				Body:    "My payment keeps failing",
			},
			Intent:       IntentComplaint,
			Confidence:   0.75,
			Summary:      "Payment failures reported.",
			ReplySubject: "Re: Payment not going through",
			ReplyBody:    "We are looking into it.",
			Escalate:     true,
		},
	}
	service := NewAssistantService(runner, zap.NewNop())

	resp, err := service.ProcessEmail(context.Background(), validRequest())
	require.NoError(t, err)

	// The drafted reply goes back to the original sender
	assert.Equal(t, "sarah@example.com", resp.To)
	assert.Equal(t, "support@company.com", resp.From)
	assert.Equal(t, "Re: Payment not going through", resp.Subject)
	assert.Equal(t, "We are looking into it.", resp.Body)
	assert.Equal(t, IntentComplaint, resp.Intent)
	assert.True(t, resp.Escalate)
	assert.Equal(t, 0.75, resp.Confidence)
	assert.Equal(t, "Payment failures reported.", resp.Summary)
}

func TestProcessEmail_SeedsStateFromRequest(t *testing.T) {
	runner := &fakeRunner{}
	service := NewAssistantService(runner, zap.NewNop())

	_, err := service.ProcessEmail(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, runner.got)
	assert.Equal(t, "sarah@example.com", runner.got.Email.From)
	assert.Equal(t, "My payment keeps failing", runner.got.Email.Body)
	assert.Empty(t, runner.got.Intent, "analysis fields start zero")
}

func TestProcessEmail_RunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("stage exploded")}
	service := NewAssistantService(runner, zap.NewNop())

	resp, err := service.ProcessEmail(context.Background(), validRequest())
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "pipeline failed")
}

func TestStateUpdate_ApplyMergesOnlySetFields(t *testing.T) {
	state := &PipelineState{
		Intent:     IntentComplaint,
		Tone:       "frustrated",
		Confidence: 0.75,
		Summary:    "existing summary",
	}

	StateUpdate{
		Summary:       String("new summary"),
		MemoryContext: String("some context"),
	}.Apply(state)

	assert.Equal(t, "new summary", state.Summary)
	assert.Equal(t, "some context", state.MemoryContext)
	assert.Equal(t, IntentComplaint, state.Intent, "unset fields are untouched")
	assert.Equal(t, "frustrated", state.Tone)
	assert.Equal(t, 0.75, state.Confidence)
}

func TestStateUpdate_ApplyCanSetZeroValues(t *testing.T) {
	state := &PipelineState{Escalate: true, Confidence: 0.9}

	StateUpdate{
		Escalate:   Bool(false),
		Confidence: Float(0),
	}.Apply(state)

	assert.False(t, state.Escalate, "an explicitly set false is applied")
	assert.Equal(t, 0.0, state.Confidence)
}
