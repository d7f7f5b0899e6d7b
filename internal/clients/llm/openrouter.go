package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenRouterClient is the secondary provider, reached through OpenRouter's
// OpenAI-compatible endpoint.
type OpenRouterClient struct {
	model llms.Model
}

func NewOpenRouterClient(apiKey, baseURL, model string) (*OpenRouterClient, error) {
	m, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter client: %w", err)
	}
	return &OpenRouterClient{model: m}, nil
}

func (c *OpenRouterClient) Name() string { return "openrouter" }

func (c *OpenRouterClient) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithTemperature(0.7))
}
