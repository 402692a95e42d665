package generate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIConfig holds configuration for the OpenAI completion client.
type OpenAIConfig struct {
	APIKey      string
	Model       string        // "gpt-4o-mini" (default)
	MaxAttempts uint          // Retry attempts around the SDK call
	RetryDelay  time.Duration // Base delay between attempts
	Timeout     time.Duration // HTTP timeout; generation responses are large
	BaseURL     string        // Optional (tests)
	HTTPClient  *http.Client  // Optional (tests)
}

const openAIDefaultModel = "gpt-4o-mini"

// OpenAIClient implements Client using the official OpenAI SDK.
type OpenAIClient struct {
	model       string
	maxAttempts uint
	retryDelay  time.Duration
	client      openai.Client
}

// NewOpenAIClient creates a completion client from cfg, applying defaults for
// unset fields.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:       cfg.Model,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		client:      openai.NewClient(opts...),
	}
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	var text string
	err := retry.Do(
		func() error {
			resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(c.model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.UserMessage(prompt),
				},
				Temperature: openai.Float(temperature),
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}
			text = resp.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxAttempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return text, nil
}

var _ Client = (*OpenAIClient)(nil)
