package factory

import (
	"fmt"
	"time"

	"github.com/mikey/llm-email-assistant/internal/adapters/bedrock"
	"github.com/mikey/llm-email-assistant/internal/adapters/gemini"
	"github.com/mikey/llm-email-assistant/internal/adapters/openai"
	"github.com/mikey/llm-email-assistant/internal/config"
	"github.com/mikey/llm-email-assistant/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateLLMClient()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateLLMClient()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}

// GetMaxBodySize returns the configured max body size for the active provider
func (f *LLMFactory) GetMaxBodySize() int {
	switch f.cfg.GetLLM().Provider {
	case "bedrock":
		return f.cfg.GetBedrock().MaxBodySize
	case "gemini":
		return f.cfg.GetGemini().MaxBodySize
	default:
		return f.cfg.GetOpenAI().MaxBodySize
	}
}

// GetTimeout returns the configured LLM call timeout
func (f *LLMFactory) GetTimeout() (time.Duration, error) {
	return f.cfg.GetDuration("llm.timeout")
}
