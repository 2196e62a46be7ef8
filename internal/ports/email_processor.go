package ports

import (
	"context"

	"github.com/mikey/llm-email-assistant/internal/core"
)

// EmailProcessor defines the interface for a front end that feeds
// emails into the triage pipeline.
type EmailProcessor interface {
	// ProcessEmail runs one triage request through the pipeline
	ProcessEmail(ctx context.Context, req *core.TriageRequest) (*core.TriageResponse, error)

	// Start starts the processor
	Start() error

	// Stop stops the processor
	Stop() error
}
