package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/abdul-hamid-achik/floatai/internal/config"
	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient wraps the Anthropic SDK
type AnthropicClient struct {
	client      *anthropic.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewAnthropicClient creates a Messages API client. Retries are left to
// RateLimitedClient.
func NewAnthropicClient(cfg *config.Config) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client:      &client,
		model:       cfg.GetDefaultModel(),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// SetModel changes the current model
func (c *AnthropicClient) SetModel(model string) {
	c.model = model
}

// GetModel returns the current model
func (c *AnthropicClient) GetModel() string {
	return c.model
}

// Chat sends a message and returns the response
func (c *AnthropicClient) Chat(ctx context.Context, messages []Message, systemPrompt string) (*Response, error) {
	llmLog.Debug("anthropic: sending request with %d messages", len(messages))

	msg, err := c.client.Messages.New(ctx, c.buildParams(messages, systemPrompt))
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, apperrors.BackendStatus(apiErr.StatusCode, apiErr.Error())
		}
		return nil, apperrors.BackendUnavailable(err)
	}

	llmLog.Debug("anthropic: stop_reason=%s", msg.StopReason)

	resp := &Response{
		StopReason:   string(msg.StopReason),
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			resp.Content += b.Text
		}
	}
	resp.Content = strings.TrimSpace(resp.Content)
	if resp.Content == "" {
		return nil, apperrors.BackendEmptyResponse(c.model)
	}
	return resp, nil
}

func (c *AnthropicClient) buildParams(messages []Message, systemPrompt string) anthropic.MessageNewParams {
	var apiMessages []anthropic.MessageParam
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			apiMessages = append(apiMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		case RoleAssistant:
			apiMessages = append(apiMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(c.maxTokens),
		Messages:    apiMessages,
		Temperature: anthropic.Float(c.temperature),
	}

	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: systemPrompt,
			},
		}
	}

	return params
}
