package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassification_StrictJSON(t *testing.T) {
	raw := `{"intent": "complaint", "tone": "frustrated", "confidence": 0.9}`

	result := ParseClassification(raw, Classification{Intent: "request", Tone: "neutral", Confidence: 0.9})

	assert.Equal(t, "complaint", result.Intent)
	assert.Equal(t, "frustrated", result.Tone)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestParseClassification_WrappedInProse(t *testing.T) {
	wrapped := "Sure! Here is the classification you asked for:\n```json\n" +
		`{"intent": "feedback", "tone": "happy", "confidence": 0.85}` +
		"\n```\nLet me know if you need anything else."
	bare := `{"intent": "feedback", "tone": "happy", "confidence": 0.85}`

	defaults := Classification{Intent: "request", Tone: "neutral", Confidence: 0.9}

	// A well-formed object parses identically with or without the prose
	assert.Equal(t, ParseClassification(bare, defaults), ParseClassification(wrapped, defaults))
}

func TestParseClassification_MultilineJSON(t *testing.T) {
	raw := "The result:\n{\n  \"intent\": \"inquiry\",\n  \"tone\": \"neutral\",\n  \"confidence\": 0.7\n}\n"

	result := ParseClassification(raw, Classification{})

	assert.Equal(t, "inquiry", result.Intent)
	assert.Equal(t, 0.7, result.Confidence)
}

func TestParseClassification_FallsBackToDefaults(t *testing.T) {
	defaults := Classification{Intent: "request", Tone: "neutral", Confidence: 0.9}

	for _, raw := range []string{
		"",
		"I could not classify this email.",
		"intent: complaint, tone: angry",
	} {
		result := ParseClassification(raw, defaults)
		assert.Equal(t, defaults, result, "raw=%q", raw)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose wrapped", `before {"a":1} after`, `{"a":1}`, true},
		{"greedy across objects", `{"a":1} and {"b":2}`, `{"a":1} and {"b":2}`, true},
		{"no braces", "nothing here", "", false},
		{"close before open", "} {", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.raw)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReplyDraft_NormalizesSubject(t *testing.T) {
	raw := `{"subject": "Payment issue", "body": "We are on it.", "tone_used": "empathetic"}`

	draft := ParseReplyDraft(raw, ReplyDraft{Subject: "Re: fallback", Body: "fallback"})

	assert.Equal(t, "Re: Payment issue", draft.Subject)
	assert.Equal(t, "We are on it.", draft.Body)
}

func TestParseReplyDraft_NoDoublePrefix(t *testing.T) {
	raw := `{"subject": "Re: Payment issue", "body": "We are on it.", "tone_used": "empathetic"}`

	draft := ParseReplyDraft(raw, ReplyDraft{})

	assert.Equal(t, "Re: Payment issue", draft.Subject)
}

func TestParseReplyDraft_FallsBackToDefaults(t *testing.T) {
	defaults := ReplyDraft{
		Subject:  "Re: Original",
		Body:     "Thank you for your email.",
		ToneUsed: "professional",
	}

	draft := ParseReplyDraft("sorry, no JSON today", defaults)

	assert.Equal(t, defaults.Subject, draft.Subject)
	assert.Equal(t, defaults.Body, draft.Body)
	assert.Equal(t, defaults.ToneUsed, draft.ToneUsed)
}

func TestNormalizeReplySubject(t *testing.T) {
	assert.Equal(t, "Re: Hello", NormalizeReplySubject("Hello"))
	assert.Equal(t, "Re: Hello", NormalizeReplySubject("Re: Hello"))
	assert.Equal(t, "Re: ", NormalizeReplySubject(""))
}
