package llm

import (
	"fmt"
	"strings"

	"github.com/mikey/llm-email-assistant/internal/core"
	"go.uber.org/zap"
)

// Keyword cues used to shape fallback responses when the model is
// unavailable. Matching is case-insensitive substring search over the
// email body ("fail" covers "failed" and "failing").
var (
	complaintCues = []string{"problem", "fail", "broken", "error", "not working"}
	requestCues   = []string{"please", "help", "could you", "would you"}
)

const fallbackSummaryLimit = 200

// KeywordFallback is a deterministic fallback policy keyed by stage
// identity. It inspects the email body for keyword cues and returns a
// response shaped like what the model would have produced for that
// stage.
type KeywordFallback struct {
	logger *zap.Logger
}

// NewKeywordFallback creates a new keyword-based fallback policy
func NewKeywordFallback(logger *zap.Logger) *KeywordFallback {
	return &KeywordFallback{logger: logger}
}

// Fallback returns the substitute response text for the given stage
func (p *KeywordFallback) Fallback(stage core.Stage, email *core.EmailMessage) string {
	switch stage {
	case core.StageClassify:
		return p.classification(email)
	case core.StageSummarize:
		return p.summary(email)
	case core.StageReply:
		return p.reply(email)
	default:
		return ""
	}
}

func (p *KeywordFallback) classification(email *core.EmailMessage) string {
	body := strings.ToLower(email.Body)
	switch {
	case containsAny(body, complaintCues):
		return `{"intent": "complaint", "tone": "frustrated", "confidence": 0.6}`
	case containsAny(body, requestCues):
		return `{"intent": "request", "tone": "neutral", "confidence": 0.6}`
	default:
		return `{"intent": "inquiry", "tone": "neutral", "confidence": 0.5}`
	}
}

func (p *KeywordFallback) summary(email *core.EmailMessage) string {
	body := strings.TrimSpace(email.Body)
	if len(body) > fallbackSummaryLimit {
		body = body[:fallbackSummaryLimit] + "..."
	}
	return fmt.Sprintf("Customer wrote: %s", body)
}

func (p *KeywordFallback) reply(email *core.EmailMessage) string {
	draft := map[string]string{
		"subject":   "Re: " + email.Subject,
		"body":      "Thank you for your email. We have received your message and will get back to you shortly.",
		"tone_used": "professional",
	}
	if containsAny(strings.ToLower(email.Body), complaintCues) {
		draft["body"] = "We are sorry to hear about the trouble you have experienced. " +
			"Your message has been received and our team is looking into it as a priority. " +
			"We will follow up with you shortly with a resolution."
		draft["tone_used"] = "empathetic and solution-oriented"
	}
	return fmt.Sprintf(`{"subject": %q, "body": %q, "tone_used": %q}`,
		draft["subject"], draft["body"], draft["tone_used"])
}

func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}
