// Package llm wraps a single text-completion call behind a uniform
// interface and guarantees the pipeline always gets a usable response:
// any adapter failure is converted into a deterministic stage fallback.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/utils"
	"go.uber.org/zap"
)

// PromptRequest carries one templated prompt to be completed on behalf
// of a stage. Email is consulted only when the call falls back.
type PromptRequest struct {
	Stage    core.Stage
	Template string
	Vars     map[string]string
	Email    *core.EmailMessage
}

// Caller renders prompt templates and issues completion requests with a
// bounded timeout. Errors never propagate to stages: an unavailable or
// failing client yields the fallback policy's response instead.
type Caller struct {
	client        core.LLMClient
	fallback      core.FallbackPolicy
	textProcessor *utils.TextProcessor
	maxBodySize   int
	timeout       time.Duration
	logger        *zap.Logger
}

// NewCaller creates a new model caller. A nil client is accepted and
// routes every call to the fallback policy; this is how a construction
// failure (e.g. missing credential) degrades instead of aborting.
func NewCaller(
	client core.LLMClient,
	fallback core.FallbackPolicy,
	textProcessor *utils.TextProcessor,
	maxBodySize int,
	timeout time.Duration,
	logger *zap.Logger,
) *Caller {
	return &Caller{
		client:        client,
		fallback:      fallback,
		textProcessor: textProcessor,
		maxBodySize:   maxBodySize,
		timeout:       timeout,
		logger:        logger,
	}
}

// Call substitutes the variables into the template and issues one
// completion request. It never fails: adapter errors, timeouts and
// empty responses all produce the stage's fallback text.
func (c *Caller) Call(ctx context.Context, req PromptRequest) string {
	prompt := RenderPrompt(req.Template, c.processVars(req.Vars))

	if c.client == nil {
		c.logger.Warn("LLM client unavailable, using fallback response",
			zap.String("stage", string(req.Stage)))
		return c.fallback.Fallback(req.Stage, req.Email)
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	response, err := c.client.Complete(callCtx, prompt)
	if err != nil {
		c.logger.Warn("LLM call failed, using fallback response",
			zap.String("stage", string(req.Stage)),
			zap.Error(err))
		return c.fallback.Fallback(req.Stage, req.Email)
	}
	if strings.TrimSpace(response) == "" {
		c.logger.Warn("LLM returned empty response, using fallback response",
			zap.String("stage", string(req.Stage)))
		return c.fallback.Fallback(req.Stage, req.Email)
	}

	return response
}

// processVars bounds the email body variable before substitution so an
// oversized body cannot blow out the prompt.
func (c *Caller) processVars(vars map[string]string) map[string]string {
	if body, ok := vars["email_body"]; ok && c.textProcessor != nil {
		processed := make(map[string]string, len(vars))
		for k, v := range vars {
			processed[k] = v
		}
		processed["email_body"] = c.textProcessor.ProcessText(body, c.maxBodySize)
		return processed
	}
	return vars
}

// RenderPrompt substitutes {name} placeholders in the template with the
// supplied values. Unknown placeholders are left as-is.
func RenderPrompt(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
