// Package parser recovers structured data from raw model responses.
// Model output is nominally JSON but is routinely wrapped in prose or
// code fences, so parsing is two-tier: strict parse first, then the
// first brace-delimited substring, then caller-supplied defaults.
package parser

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the greedy first-{ to last-} substring of raw,
// spanning newlines. The second return is false when no such substring
// exists.
func ExtractJSON(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// Classification is the structured result of the classify stage.
type Classification struct {
	Intent     string  `json:"intent"`
	Tone       string  `json:"tone"`
	Confidence float64 `json:"confidence"`
}

// ReplyDraft is the structured result of the reply stage.
type ReplyDraft struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	ToneUsed string `json:"tone_used"`
}

// ParseClassification parses a raw classification response, falling
// back to defaults when no JSON object can be recovered.
func ParseClassification(raw string, defaults Classification) Classification {
	var result Classification
	if err := json.Unmarshal([]byte(raw), &result); err == nil {
		return result
	}
	if sub, ok := ExtractJSON(raw); ok {
		if err := json.Unmarshal([]byte(sub), &result); err == nil {
			return result
		}
	}
	return defaults
}

// ParseReplyDraft parses a raw reply response, falling back to defaults
// when no JSON object can be recovered. The subject is normalized to
// carry exactly one "Re: " prefix.
func ParseReplyDraft(raw string, defaults ReplyDraft) ReplyDraft {
	result := defaults

	var draft ReplyDraft
	if err := json.Unmarshal([]byte(raw), &draft); err == nil {
		result = draft
	} else if sub, ok := ExtractJSON(raw); ok {
		if err := json.Unmarshal([]byte(sub), &draft); err == nil {
			result = draft
		}
	}

	result.Subject = NormalizeReplySubject(result.Subject)
	return result
}

// NormalizeReplySubject prepends "Re: " unless the subject already
// starts with it.
func NormalizeReplySubject(subject string) string {
	if strings.HasPrefix(subject, "Re: ") {
		return subject
	}
	return "Re: " + subject
}
