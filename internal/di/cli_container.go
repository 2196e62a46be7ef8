package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-assistant/internal/config"
	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/factory"
	"github.com/mikey/llm-email-assistant/internal/llm"
	"github.com/mikey/llm-email-assistant/internal/logging"
	"github.com/mikey/llm-email-assistant/internal/pipeline"
	"github.com/mikey/llm-email-assistant/internal/utils"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// LLM provider flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int
	Timeout     string

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Memory flags
	MemoryFile string
	MaxHistory int

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// LLM provider flags
	flag.StringVar(&flags.Provider, "provider", "openai", "LLM provider (openai, bedrock, gemini)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for LLM response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for LLM generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	flag.IntVar(&flags.MaxBodySize, "max-body-size", 4096, "Maximum email body size to send to LLM")
	flag.StringVar(&flags.Timeout, "timeout", "30s", "Timeout for a single LLM call")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o", "OpenAI model name")

	// Memory flags
	flag.StringVar(&flags.MemoryFile, "memory-file", "memory.json", "Path to the conversation memory file")
	flag.IntVar(&flags.MaxHistory, "max-history", 5, "Maximum history entries kept per sender")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input request file (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMemoryFactory); err != nil {
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

	// Register LLM client with graceful degradation
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

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("server.processor_type", "cli")
	v.Set("cli.verbose", flags.Verbose)

	// Set LLM provider
	v.Set("llm.provider", flags.Provider)
	v.Set("llm.timeout", flags.Timeout)

	// Set provider-specific configuration
	switch flags.Provider {
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
		v.Set("openai.max_body_size", flags.MaxBodySize)
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_body_size", flags.MaxBodySize)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_body_size", flags.MaxBodySize)
	}

	// Set memory configuration
	v.Set("memory.type", "file")
	v.Set("memory.file_path", flags.MemoryFile)
	v.Set("memory.max_history", flags.MaxHistory)

	return config.NewFromViper(v)
}
