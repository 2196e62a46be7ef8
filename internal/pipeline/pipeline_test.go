package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/llm-email-assistant/internal/adapters/memory"
	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/llm"
	"github.com/mikey/llm-email-assistant/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedClient returns canned responses in order, or a fixed error.
type scriptedClient struct {
	responses []string
	err       error
	prompts   []string
}

func (c *scriptedClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.prompts = append(c.prompts, prompt)
	if len(c.responses) == 0 {
		return "", errors.New("no scripted response left")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func newTestRunner(t *testing.T, client core.LLMClient) (*Runner, core.MemoryStore) {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewFileStore(filepath.Join(t.TempDir(), "memory.json"), 5, logger)
	caller := llm.NewCaller(client, llm.NewKeywordFallback(logger), utils.NewTextProcessor(logger), 4096, time.Second, logger)
	return NewRunner(caller, store, DefaultThresholds(), logger), store
}

func newState(from, subject, body string) *core.PipelineState {
	return &core.PipelineState{
		Email: core.EmailMessage{
			From:    from,
			To:      "support@company.com",
			Subject: subject,
			Body:    body,
		},
	}
}

func TestRunner_HappyPath(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"intent": "complaint", "tone": "frustrated", "confidence": 0.95}`,
		"Customer reports repeated payment failures and is frustrated.\n",
		`{"subject": "Re: Payment not going through", "body": "We are sorry about the payment trouble.", "tone_used": "empathetic and solution-oriented"}`,
	}}
	runner, _ := newTestRunner(t, client)

	final, err := runner.Run(context.Background(),
		newState("sarah@example.com", "Payment not going through", "My payment is failing twice"))
	require.NoError(t, err)

	assert.Equal(t, "complaint", final.Intent)
	assert.Equal(t, "frustrated", final.Tone)
	assert.Equal(t, 0.95, final.Confidence)
	assert.Equal(t, "Customer reports repeated payment failures and is frustrated.", final.Summary)
	// Classify stores the message before recall runs, so the context
	// always includes the email being processed
	assert.Contains(t, final.MemoryContext, "Previous conversation history:")
	assert.Contains(t, final.MemoryContext, "Payment not going through")
	assert.Equal(t, "Re: Payment not going through", final.ReplySubject)
	assert.Equal(t, "We are sorry about the payment trouble.", final.ReplyBody)
	assert.False(t, final.Escalate, "confidence 0.95 is above both thresholds")

	_, err = time.Parse(time.RFC3339, final.Timestamp)
	assert.NoError(t, err, "timestamp must be RFC 3339")

	// classify, summarize and reply each issue exactly one model call
	assert.Len(t, client.prompts, 3)
}

func TestRunner_AdapterFailure_ComplaintFallback(t *testing.T) {
	client := &scriptedClient{err: errors.New("model unavailable")}
	runner, _ := newTestRunner(t, client)

	final, err := runner.Run(context.Background(),
		newState("sarah@example.com", "Payment not going through", "payment failing twice"))
	require.NoError(t, err, "pipeline always completes when the adapter fails")

	assert.Equal(t, "complaint", final.Intent, "body keywords shape the fallback classification")
	assert.Less(t, final.Confidence, 0.8)
	assert.True(t, final.Escalate, "low-confidence fallback complaint escalates")
	assert.True(t, len(final.ReplySubject) > 4 && final.ReplySubject[:4] == "Re: ")
	assert.NotEmpty(t, final.ReplyBody)
	assert.NotEmpty(t, final.Summary)
}

func TestRunner_SecondInvocationSeesHistory(t *testing.T) {
	client := &scriptedClient{err: errors.New("model unavailable")}
	runner, _ := newTestRunner(t, client)

	first, err := runner.Run(context.Background(),
		newState("sam@example.com", "Billing question", "Please help me understand my invoice"))
	require.NoError(t, err)
	assert.NotContains(t, first.MemoryContext, "Following up")

	second, err := runner.Run(context.Background(),
		newState("sam@example.com", "Following up", "Any update on my invoice question?"))
	require.NoError(t, err)

	assert.Contains(t, second.MemoryContext, "Billing question",
		"second invocation renders the first invocation's stored entry")
	assert.Contains(t, second.MemoryContext, "Following up")
	assert.Contains(t, second.MemoryContext, "sam@example.com")
}

func TestRunner_EscalationFromScriptedConfidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence string
		want       bool
	}{
		{"complaint at 0.75 escalates", "0.75", true},
		{"complaint at 0.85 does not", "0.85", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{responses: []string{
				`{"intent": "complaint", "tone": "neutral", "confidence": ` + tt.confidence + `}`,
				"Summary.",
				`{"subject": "Re: Hi", "body": "Reply.", "tone_used": "professional"}`,
			}}
			runner, _ := newTestRunner(t, client)

			final, err := runner.Run(context.Background(), newState("a@example.com", "Hi", "hello there"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, final.Escalate)
		})
	}
}

func TestRunner_MalformedResponsesDegradeGracefully(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"I am not JSON at all",
		"  A plain text summary.  ",
		"still not JSON",
	}}
	runner, _ := newTestRunner(t, client)

	final, err := runner.Run(context.Background(), newState("a@example.com", "Hi there", "hello"))
	require.NoError(t, err)

	// Unified parse-failure defaults
	assert.Equal(t, "request", final.Intent)
	assert.Equal(t, "neutral", final.Tone)
	assert.Equal(t, 0.9, final.Confidence)
	assert.False(t, final.Escalate)

	assert.Equal(t, "A plain text summary.", final.Summary)
	assert.Equal(t, "Re: Hi there", final.ReplySubject)
	assert.NotEmpty(t, final.ReplyBody)
}

func TestRunner_CancelledBetweenStages(t *testing.T) {
	client := &scriptedClient{err: errors.New("model unavailable")}
	runner, _ := newTestRunner(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, newState("a@example.com", "Hi", "hello"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify_PersistsHistoryEntry(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"intent": "feedback", "tone": "happy", "confidence": 0.9}`,
		"Summary.",
		`{"subject": "Re: Thanks", "body": "Glad to hear it.", "tone_used": "appreciative"}`,
	}}
	runner, store := newTestRunner(t, client)

	_, err := runner.Run(context.Background(), newState("fan@example.com", "Thanks", "Great service, thank you"))
	require.NoError(t, err)

	entries, err := store.LoadRecent(context.Background(), "fan@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "feedback", entries[0].Intent)
	assert.Equal(t, "Thanks", entries[0].Subject)
	assert.Equal(t, "fan@example.com", entries[0].From)
}

func TestRequiredTone(t *testing.T) {
	assert.Equal(t, "empathetic and solution-oriented", RequiredTone("complaint"))
	assert.Equal(t, "helpful and efficient", RequiredTone("request"))
	assert.Equal(t, "appreciative and engaging", RequiredTone("feedback"))
	assert.Equal(t, "informative and clear", RequiredTone("inquiry"))
	assert.Equal(t, "professional", RequiredTone("something-else"))
}
