package ingest

import (
	"context"
	"fmt"

	"github.com/mikey/llm-email-assistant/internal/core"
	"go.uber.org/zap"
)

// CliProcessor runs a single triage request and prints the results.
type CliProcessor struct {
	service *core.AssistantService
	logger  *zap.Logger
	verbose bool
}

// NewCliProcessor creates a new CLI processor
func NewCliProcessor(service *core.AssistantService, logger *zap.Logger, verbose bool) (*CliProcessor, error) {
	return &CliProcessor{
		service: service,
		logger:  logger,
		verbose: verbose,
	}, nil
}

// ProcessEmail processes an email and displays the results
func (p *CliProcessor) ProcessEmail(ctx context.Context, req *core.TriageRequest) (*core.TriageResponse, error) {
	p.logger.Debug("Processing email", zap.String("sender", req.From))

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", req.From)
	fmt.Printf("To: %s\n", req.To)
	fmt.Printf("Subject: %s\n", req.Subject)
	fmt.Printf("Body length: %d bytes\n", len(req.Body))

	if p.verbose {
		preview := req.Body
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nBody preview:\n%s\n", preview)
	}

	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("Running triage pipeline...\n")

	resp, err := p.service.ProcessEmail(ctx, req)
	if err != nil {
		p.logger.Error("Failed to process email", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		return nil, err
	}

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Intent: %s\n", resp.Intent)
	fmt.Printf("Confidence: %.4f\n", resp.Confidence)
	fmt.Printf("Escalate: %t\n", resp.Escalate)
	fmt.Printf("Summary: %s\n", resp.Summary)
	fmt.Printf("\n=== Drafted Reply ===\n")
	fmt.Printf("Subject: %s\n", resp.Subject)
	fmt.Printf("To: %s\n", resp.To)
	fmt.Printf("From: %s\n", resp.From)
	fmt.Printf("\n%s\n", resp.Body)

	return resp, nil
}

// Start is a no-op for the CLI processor
func (p *CliProcessor) Start() error {
	return nil
}

// Stop is a no-op for the CLI processor
func (p *CliProcessor) Stop() error {
	return nil
}
