package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidRequest is returned when a triage request is missing a
// required field. There is no safe default for an absent sender or body,
// so this is the one failure surfaced to the caller.
var ErrInvalidRequest = errors.New("invalid triage request")

// AssistantService is the core service for email triage. It validates
// the incoming request, runs the pipeline and shapes the final state
// into the response record.
type AssistantService struct {
	runner PipelineRunner
	logger *zap.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(runner PipelineRunner, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		runner: runner,
		logger: logger,
	}
}

// ProcessEmail runs one triage request through the pipeline. For valid
// input it always returns a complete response, degrading to generic
// content rather than failing.
func (s *AssistantService) ProcessEmail(ctx context.Context, req *TriageRequest) (*TriageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	processingID := uuid.NewString()
	s.logger.Info("Processing email",
		zap.String("processing_id", processingID),
		zap.String("sender", req.From),
		zap.String("subject", req.Subject))

	state := &PipelineState{
		Email: EmailMessage{
			From:    req.From,
			To:      req.To,
			Subject: req.Subject,
			Body:    req.Body,
		},
	}

	final, err := s.runner.Run(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("pipeline failed: %w", err)
	}

	s.logger.Info("Email processed",
		zap.String("processing_id", processingID),
		zap.String("intent", final.Intent),
		zap.Float64("confidence", final.Confidence),
		zap.Bool("escalate", final.Escalate))

	return &TriageResponse{
		Subject:    final.ReplySubject,
		Body:       final.ReplyBody,
		To:         final.Email.From,
		From:       final.Email.To,
		Intent:     final.Intent,
		Escalate:   final.Escalate,
		Confidence: final.Confidence,
		Summary:    final.Summary,
	}, nil
}

func validateRequest(req *TriageRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	if req.From == "" {
		return fmt.Errorf("%w: missing from address", ErrInvalidRequest)
	}
	if req.To == "" {
		return fmt.Errorf("%w: missing to address", ErrInvalidRequest)
	}
	if req.Subject == "" {
		return fmt.Errorf("%w: missing subject", ErrInvalidRequest)
	}
	if req.Body == "" {
		return fmt.Errorf("%w: missing body", ErrInvalidRequest)
	}
	return nil
}
