package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClient struct {
	response string
	err      error
	delay    time.Duration
	prompt   string
}

func (c *stubClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompt = prompt
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.response, c.err
}

func newCaller(client core.LLMClient, timeout time.Duration) *Caller {
	logger := zap.NewNop()
	return NewCaller(client, NewKeywordFallback(logger), utils.NewTextProcessor(logger), 4096, timeout, logger)
}

func complaintEmail() *core.EmailMessage {
	return &core.EmailMessage{
		From:    "sarah@example.com",
		To:      "support@company.com",
		Subject: "Payment not going through",
		Body:    "My payment keeps failing, this is a real problem",
	}
}

func TestCaller_PassesThroughModelResponse(t *testing.T) {
	client := &stubClient{response: "model says hi"}
	caller := newCaller(client, time.Second)

	got := caller.Call(context.Background(), PromptRequest{
		Stage:    core.StageSummarize,
		Template: "Summarize: {email_body}",
		Vars:     map[string]string{"email_body": "hello"},
		Email:    complaintEmail(),
	})

	assert.Equal(t, "model says hi", got)
	assert.Equal(t, "Summarize: hello", client.prompt)
}

func TestCaller_NilClientUsesFallback(t *testing.T) {
	caller := newCaller(nil, time.Second)

	got := caller.Call(context.Background(), PromptRequest{
		Stage: core.StageClassify,
		Email: complaintEmail(),
	})

	var parsed struct {
		Intent string `json:"intent"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Equal(t, "complaint", parsed.Intent)
}

func TestCaller_ErrorUsesFallback(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	caller := newCaller(client, time.Second)

	got := caller.Call(context.Background(), PromptRequest{
		Stage: core.StageSummarize,
		Email: complaintEmail(),
	})

	assert.True(t, strings.HasPrefix(got, "Customer wrote: "))
}

func TestCaller_EmptyResponseUsesFallback(t *testing.T) {
	client := &stubClient{response: "  \n\t "}
	caller := newCaller(client, time.Second)

	got := caller.Call(context.Background(), PromptRequest{
		Stage: core.StageReply,
		Email: complaintEmail(),
	})

	var parsed struct {
		Subject  string `json:"subject"`
		ToneUsed string `json:"tone_used"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Equal(t, "Re: Payment not going through", parsed.Subject)
	assert.Equal(t, "empathetic and solution-oriented", parsed.ToneUsed)
}

func TestCaller_TimeoutUsesFallback(t *testing.T) {
	client := &stubClient{response: "too late", delay: 200 * time.Millisecond}
	caller := newCaller(client, 10*time.Millisecond)

	got := caller.Call(context.Background(), PromptRequest{
		Stage: core.StageSummarize,
		Email: complaintEmail(),
	})

	assert.True(t, strings.HasPrefix(got, "Customer wrote: "))
}

func TestCaller_TruncatesEmailBodyVar(t *testing.T) {
	logger := zap.NewNop()
	client := &stubClient{response: "ok"}
	caller := NewCaller(client, NewKeywordFallback(logger), utils.NewTextProcessor(logger), 10, time.Second, logger)

	caller.Call(context.Background(), PromptRequest{
		Stage:    core.StageSummarize,
		Template: "{email_body}",
		Vars:     map[string]string{"email_body": strings.Repeat("a", 100)},
		Email:    complaintEmail(),
	})

	assert.True(t, strings.HasPrefix(client.prompt, strings.Repeat("a", 10)+"\n"),
		"body variable is bounded before substitution")
	assert.Contains(t, client.prompt, "Content truncated")
	assert.NotContains(t, client.prompt, strings.Repeat("a", 11))
}

func TestRenderPrompt(t *testing.T) {
	got := RenderPrompt("From: {from}\nSubject: {subject}\n{missing}", map[string]string{
		"from":    "a@example.com",
		"subject": "Hi",
	})

	assert.Equal(t, "From: a@example.com\nSubject: Hi\n{missing}", got)
	assert.Equal(t, "no vars", RenderPrompt("no vars", nil))
}

func TestKeywordFallback_ClassificationShapes(t *testing.T) {
	fb := NewKeywordFallback(zap.NewNop())

	tests := []struct {
		name       string
		body       string
		wantIntent string
		wantConf   float64
	}{
		{"complaint cue", "The checkout is broken again", "complaint", 0.6},
		{"fail stem matches failing", "my payment is failing", "complaint", 0.6},
		{"request cue", "Could you resend my invoice please", "request", 0.6},
		{"no cue", "What are your opening hours", "inquiry", 0.5},
		{"complaint wins over request", "Please fix this problem", "complaint", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fb.Fallback(core.StageClassify, &core.EmailMessage{Body: tt.body})

			var parsed struct {
				Intent     string  `json:"intent"`
				Tone       string  `json:"tone"`
				Confidence float64 `json:"confidence"`
			}
			require.NoError(t, json.Unmarshal([]byte(raw), &parsed))
			assert.Equal(t, tt.wantIntent, parsed.Intent)
			assert.Equal(t, tt.wantConf, parsed.Confidence)
		})
	}
}

func TestKeywordFallback_SummaryTruncates(t *testing.T) {
	fb := NewKeywordFallback(zap.NewNop())
	long := strings.Repeat("x", 500)

	got := fb.Fallback(core.StageSummarize, &core.EmailMessage{Body: long})

	assert.True(t, strings.HasPrefix(got, "Customer wrote: "))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, got, len("Customer wrote: ")+200+3)
}

func TestKeywordFallback_ReplyIsValidJSON(t *testing.T) {
	fb := NewKeywordFallback(zap.NewNop())

	raw := fb.Fallback(core.StageReply, &core.EmailMessage{
		Subject: `Quotes "inside" subject`,
		Body:    "everything is broken",
	})

	var parsed struct {
		Subject  string `json:"subject"`
		Body     string `json:"body"`
		ToneUsed string `json:"tone_used"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed), "quoting must survive special characters")
	assert.Equal(t, `Re: Quotes "inside" subject`, parsed.Subject)
	assert.Equal(t, "empathetic and solution-oriented", parsed.ToneUsed)
	assert.Contains(t, parsed.Body, "sorry")
}

func TestKeywordFallback_UnknownStage(t *testing.T) {
	fb := NewKeywordFallback(zap.NewNop())
	assert.Equal(t, "", fb.Fallback(core.StageDecide, complaintEmail()))
}
