package pipeline

import (
	"context"

	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/llm"
	"github.com/mikey/llm-email-assistant/internal/parser"
)

// toneMapping maps the classified intent to the delivery tone the reply
// must use.
var toneMapping = map[string]string{
	core.IntentComplaint: "empathetic and solution-oriented",
	core.IntentRequest:   "helpful and efficient",
	core.IntentFeedback:  "appreciative and engaging",
	core.IntentInquiry:   "informative and clear",
}

const defaultRequiredTone = "professional"

const genericReplyBody = "Thank you for your email. We have received your message and will get back to you shortly."

// ReplyStage drafts the reply email from the classified intent, the
// summary and the conversation history.
type ReplyStage struct {
	caller *llm.Caller
}

// NewReplyStage creates the reply stage
func NewReplyStage(caller *llm.Caller) *ReplyStage {
	return &ReplyStage{caller: caller}
}

// Name returns the stage identity
func (s *ReplyStage) Name() core.Stage { return core.StageReply }

// RequiredTone resolves the delivery tone for an intent, defaulting to
// professional for unknown intents.
func RequiredTone(intent string) string {
	if tone, ok := toneMapping[intent]; ok {
		return tone
	}
	return defaultRequiredTone
}

// Run drafts the reply and normalizes its subject to a single "Re: "
// prefix.
func (s *ReplyStage) Run(ctx context.Context, state *core.PipelineState) (core.StateUpdate, error) {
	raw := s.caller.Call(ctx, llm.PromptRequest{
		Stage:    core.StageReply,
		Template: replyPrompt,
		Vars: map[string]string{
			"intent":         state.Intent,
			"required_tone":  RequiredTone(state.Intent),
			"summary":        state.Summary,
			"customer_tone":  state.Tone,
			"memory_context": state.MemoryContext,
			"subject":        state.Email.Subject,
		},
		Email: &state.Email,
	})

	draft := parser.ParseReplyDraft(raw, parser.ReplyDraft{
		Subject:  "Re: " + state.Email.Subject,
		Body:     genericReplyBody,
		ToneUsed: defaultRequiredTone,
	})

	return core.StateUpdate{
		ReplySubject: core.String(draft.Subject),
		ReplyBody:    core.String(draft.Body),
	}, nil
}
