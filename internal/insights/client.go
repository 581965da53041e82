package insights

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
)

// Client abstracts the chat-completion call so the generator can be tested
// without a live endpoint.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint
// (OpenAI itself, DeepSeek, local gateways).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client for the given model. An empty endpoint
// uses the official OpenAI base URL.
func NewOpenAIClient(apiKey, model, endpoint string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete sends a single-turn prompt and returns the raw reply text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ResolveAPIKey reads the API key from the named environment variable,
// loading a .env file first if one is present in the working directory.
func ResolveAPIKey(envName string) (string, error) {
	_ = godotenv.Load()

	key := os.Getenv(envName)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", envName)
	}
	return key, nil
}
