package scorer

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/water-intel/pkg/anthropic"
	"github.com/sells-group/water-intel/pkg/gemini"
)

// Provider sends one scoring prompt to a text-generation service and returns
// the raw reply text.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, system, prompt, district string) (string, error)
}

// AnthropicProvider scores through the Anthropic Messages API.
type AnthropicProvider struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewAnthropicProvider wraps an Anthropic client.
func NewAnthropicProvider(client anthropic.Client, model string, maxTokens int64, temperature float64) *AnthropicProvider {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicProvider{client: client, model: model, maxTokens: maxTokens, temperature: temperature}
}

func (p *AnthropicProvider) Name() string  { return "anthropic" }
func (p *AnthropicProvider) Model() string { return p.model }

func (p *AnthropicProvider) Complete(ctx context.Context, system, prompt, district string) (string, error) {
	temp := p.temperature
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		System:      anthropic.BuildCachedSystemBlocks(system),
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(p.model, district)
	if resp.StopReason == "max_tokens" {
		zap.L().Warn("scorer: anthropic reply truncated",
			zap.String("district", district),
			zap.Int64("max_tokens", p.maxTokens),
		)
	}
	return resp.Text(), nil
}

// GeminiProvider scores through the Gemini API with a JSON response type.
type GeminiProvider struct {
	client      gemini.Client
	model       string
	temperature float32
}

// NewGeminiProvider wraps a Gemini client.
func NewGeminiProvider(client gemini.Client, model string, temperature float64) *GeminiProvider {
	return &GeminiProvider{client: client, model: model, temperature: float32(temperature)}
}

func (p *GeminiProvider) Name() string  { return "gemini" }
func (p *GeminiProvider) Model() string { return p.model }

func (p *GeminiProvider) Complete(ctx context.Context, system, prompt, district string) (string, error) {
	temp := p.temperature
	resp, err := p.client.Generate(ctx, gemini.GenerateRequest{
		Model:       p.model,
		System:      system,
		Prompt:      prompt,
		Temperature: &temp,
		JSON:        true,
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(p.model, district)
	return resp.Text, nil
}
