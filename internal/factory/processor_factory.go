package factory

import (
	"fmt"

	"github.com/mikey/llm-email-assistant/internal/adapters/ingest"
	"github.com/mikey/llm-email-assistant/internal/config"
	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/ports"
	"go.uber.org/zap"
)

// ProcessorFactory creates email processors based on configuration
type ProcessorFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.AssistantService
}

// NewProcessorFactory creates a new processor factory
func NewProcessorFactory(cfg *config.Config, logger *zap.Logger, service *core.AssistantService) *ProcessorFactory {
	return &ProcessorFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateEmailProcessor creates an email processor based on the configuration
func (f *ProcessorFactory) CreateEmailProcessor() (ports.EmailProcessor, error) {
	processorType := f.cfg.GetString("server.processor_type")

	switch processorType {
	case "smtp":
		return ingest.NewSMTPProcessor(
			f.service,
			f.logger,
			f.cfg.GetString("server.listen_address"),
			f.cfg.GetBool("server.relay.enabled"),
			f.cfg.GetString("server.relay.address"),
			f.cfg.GetInt("server.relay.port"),
		), nil
	case "cli":
		return ingest.NewCliProcessor(
			f.service,
			f.logger,
			f.cfg.GetBool("cli.verbose"),
		)
	default:
		return nil, fmt.Errorf("unsupported processor type: %s", processorType)
	}
}
