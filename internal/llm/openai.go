package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/floatai/internal/config"
	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// OpenAIClient talks to any OpenAI-compatible /chat/completions endpoint.
// The default endpoint is NVIDIA Integrate.
type OpenAIClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// NewOpenAIClient creates a client for cfg.GetBaseURL().
func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &OpenAIClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.GetBaseURL(), "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.GetDefaultModel(),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// SetModel changes the current model
func (c *OpenAIClient) SetModel(model string) {
	c.model = model
}

// GetModel returns the current model
func (c *OpenAIClient) GetModel() string {
	return c.model
}

// Chat sends a non-streaming completion request.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, systemPrompt string) (*Response, error) {
	request := chatRequest{
		Model:       c.model,
		Messages:    buildChatMessages(messages, systemPrompt),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	llmLog.Debug("POST %s model=%s messages=%d", req.URL.Redacted(), c.model, len(request.Messages))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.BackendUnavailable(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.BackendUnavailable(err)
	}

	llmLog.Debug("HTTP %d in %v (%d bytes)", resp.StatusCode, time.Since(start).Round(time.Millisecond), len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.BackendStatus(resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperrors.BackendInvalidResponse(fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return nil, apperrors.BackendEmptyResponse(c.model)
	}

	choice := parsed.Choices[0]
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return nil, apperrors.BackendEmptyResponse(c.model)
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}
	return &Response{
		Content:      content,
		StopReason:   choice.FinishReason,
		Model:        model,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
	}, nil
}

func buildChatMessages(messages []Message, systemPrompt string) []chatMessage {
	result := make([]chatMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		result = append(result, chatMessage{Role: "system", Content: systemPrompt})
	}
	for _, m := range messages {
		result = append(result, chatMessage{Role: m.Role, Content: m.Content})
	}
	return result
}
