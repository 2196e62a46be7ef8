package core

// Intent values an email can be classified as
const (
	IntentComplaint = "complaint"
	IntentRequest   = "request"
	IntentFeedback  = "feedback"
	IntentInquiry   = "inquiry"
)

// Stage identifies a pipeline stage. Fallback policies key off it.
type Stage string

const (
	StageClassify  Stage = "classify"
	StageSummarize Stage = "summarize"
	StageRecall    Stage = "recall"
	StageReply     Stage = "reply"
	StageDecide    Stage = "decide"
)

// EmailMessage represents an incoming email. It is created once per
// request and never mutated.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	Body    string
}

// HistoryEntry is a past message record kept in the memory store.
// JSON tags match the persisted layout.
type HistoryEntry struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
	Intent    string `json:"intent"`
}

// PipelineState is the mutable working record threaded through all
// stages. Every field except Email starts zero and is written by exactly
// one stage.
type PipelineState struct {
	Email EmailMessage

	Intent        string
	Tone          string
	Confidence    float64
	Summary       string
	MemoryContext string
	ReplySubject  string
	ReplyBody     string
	Escalate      bool
	Timestamp     string
}

// StateUpdate is a partial update produced by one stage. Nil fields are
// left untouched when the update is merged into the state.
type StateUpdate struct {
	Intent        *string
	Tone          *string
	Confidence    *float64
	Summary       *string
	MemoryContext *string
	ReplySubject  *string
	ReplyBody     *string
	Escalate      *bool
	Timestamp     *string
}

// Apply merges the update into the state field-by-field.
func (u StateUpdate) Apply(s *PipelineState) {
	if u.Intent != nil {
		s.Intent = *u.Intent
	}
	if u.Tone != nil {
		s.Tone = *u.Tone
	}
	if u.Confidence != nil {
		s.Confidence = *u.Confidence
	}
	if u.Summary != nil {
		s.Summary = *u.Summary
	}
	if u.MemoryContext != nil {
		s.MemoryContext = *u.MemoryContext
	}
	if u.ReplySubject != nil {
		s.ReplySubject = *u.ReplySubject
	}
	if u.ReplyBody != nil {
		s.ReplyBody = *u.ReplyBody
	}
	if u.Escalate != nil {
		s.Escalate = *u.Escalate
	}
	if u.Timestamp != nil {
		s.Timestamp = *u.Timestamp
	}
}

// String returns a pointer to s, for building StateUpdate values.
func String(s string) *string { return &s }

// Float returns a pointer to f, for building StateUpdate values.
func Float(f float64) *float64 { return &f }

// Bool returns a pointer to b, for building StateUpdate values.
func Bool(b bool) *bool { return &b }

// TriageRequest is the invocation input. History is accepted for wire
// compatibility but the pipeline always re-derives context from the
// memory store by sender address, so it is never read.
type TriageRequest struct {
	From    string         `json:"from"`
	To      string         `json:"to"`
	Subject string         `json:"subject"`
	Body    string         `json:"body"`
	History []HistoryEntry `json:"history,omitempty"`
}

// TriageResponse is the invocation output: the drafted reply addressed
// back to the original sender plus the analysis results.
type TriageResponse struct {
	Subject    string  `json:"subject"`
	Body       string  `json:"body"`
	To         string  `json:"to"`
	From       string  `json:"from"`
	Intent     string  `json:"intent"`
	Escalate   bool    `json:"escalate"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}
