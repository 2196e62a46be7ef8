package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-assistant/internal/config"
	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/factory"
	"github.com/mikey/llm-email-assistant/internal/llm"
	"github.com/mikey/llm-email-assistant/internal/logging"
	"github.com/mikey/llm-email-assistant/internal/pipeline"
	"github.com/mikey/llm-email-assistant/internal/ports"
	"github.com/mikey/llm-email-assistant/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMemoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register LLM client. Construction failure (e.g. a missing
	// credential) degrades to fallback-only operation instead of
	// aborting startup.
	if err := container.Provide(func(f *factory.LLMFactory, logger *zap.Logger) core.LLMClient {
		client, err := f.CreateLLMClient()
		if err != nil {
			logger.Warn("Failed to create LLM client, responses will use fallback heuristics",
				zap.Error(err))
			return nil
		}
		return client
	}); err != nil {
		return nil, err
	}

	// Register fallback policy
	if err := container.Provide(func(logger *zap.Logger) core.FallbackPolicy {
		return llm.NewKeywordFallback(logger)
	}); err != nil {
		return nil, err
	}

	// Register model caller
	if err := container.Provide(func(
		client core.LLMClient,
		fallback core.FallbackPolicy,
		textProcessor *utils.TextProcessor,
		f *factory.LLMFactory,
		logger *zap.Logger,
	) (*llm.Caller, error) {
		timeout, err := f.GetTimeout()
		if err != nil {
			return nil, err
		}
		return llm.NewCaller(client, fallback, textProcessor, f.GetMaxBodySize(), timeout, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register memory store
	if err := container.Provide(func(f *factory.MemoryFactory) (core.MemoryStore, error) {
		return f.CreateMemoryStore()
	}); err != nil {
		return nil, err
	}

	// Register escalation thresholds
	if err := container.Provide(func(cfg *config.Config) pipeline.Thresholds {
		escalation := cfg.GetEscalation()
		return pipeline.Thresholds{
			ComplaintConfidence: escalation.ComplaintConfidenceThreshold,
			ToneConfidence:      escalation.ToneConfidenceThreshold,
		}
	}); err != nil {
		return nil, err
	}

	// Register pipeline runner
	if err := container.Provide(pipeline.NewRunner); err != nil {
		return nil, err
	}
	if err := container.Provide(func(r *pipeline.Runner) core.PipelineRunner {
		return r
	}); err != nil {
		return nil, err
	}

	// Register assistant service
	if err := container.Provide(core.NewAssistantService); err != nil {
		return nil, err
	}

	// Register email processor
	if err := container.Provide(func(f *factory.ProcessorFactory) (ports.EmailProcessor, error) {
		return f.CreateEmailProcessor()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
