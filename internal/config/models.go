package config

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
	Timeout  string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// MemoryConfig represents the configuration for the conversation memory store
type MemoryConfig struct {
	Type       string
	FilePath   string
	SQLitePath string
	MySQLDSN   string
	MaxHistory int
}

// EscalationConfig represents the confidence thresholds for escalation
type EscalationConfig struct {
	ComplaintConfidenceThreshold float64
	ToneConfidenceThreshold      float64
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
		Timeout:  c.GetString("llm.timeout"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetMemory returns the memory store configuration
func (c *Config) GetMemory() MemoryConfig {
	return MemoryConfig{
		Type:       c.GetString("memory.type"),
		FilePath:   c.GetString("memory.file_path"),
		SQLitePath: c.GetString("memory.sqlite_path"),
		MySQLDSN:   c.GetString("memory.mysql_dsn"),
		MaxHistory: c.GetInt("memory.max_history"),
	}
}

// GetEscalation returns the escalation thresholds
func (c *Config) GetEscalation() EscalationConfig {
	return EscalationConfig{
		ComplaintConfidenceThreshold: c.GetFloat64("escalation.complaint_confidence_threshold"),
		ToneConfidenceThreshold:      c.GetFloat64("escalation.tone_confidence_threshold"),
	}
}
