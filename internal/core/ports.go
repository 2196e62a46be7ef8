package core

import (
	"context"
)

// LLMClient defines the interface for issuing a single text completion
// request. The response is untrusted: it may be non-JSON, partially JSON
// or empty.
type LLMClient interface {
	// Complete sends a prompt and returns the raw response text
	Complete(ctx context.Context, prompt string) (string, error)
}

// MemoryStore defines the interface for the bounded per-sender
// conversation history.
type MemoryStore interface {
	// LoadRecent returns up to the retention bound of entries for the
	// sender, oldest first. Unknown senders and missing or corrupt
	// backing storage yield an empty slice, not an error.
	LoadRecent(ctx context.Context, sender string) ([]HistoryEntry, error)

	// Append adds an entry to the sender's history and trims it to the
	// retention bound, evicting the oldest entries first.
	Append(ctx context.Context, sender string, entry HistoryEntry) error
}

// FallbackPolicy produces a deterministic substitute response for a
// stage when the model call cannot be trusted.
type FallbackPolicy interface {
	// Fallback returns the substitute response text for the given stage,
	// derived from the email content
	Fallback(stage Stage, email *EmailMessage) string
}

// PipelineRunner executes the fixed stage chain over a state record.
type PipelineRunner interface {
	// Run threads the state through every stage in order and returns the
	// final state
	Run(ctx context.Context, state *PipelineState) (*PipelineState, error)
}
