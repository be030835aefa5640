package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/floatai/internal/config"
	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"google.golang.org/genai"
)

// GeminiClient talks to the Gemini API through google.golang.org/genai.
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		model:       cfg.GetDefaultModel(),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// SetModel changes the current model
func (c *GeminiClient) SetModel(model string) {
	c.model = model
}

// GetModel returns the current model
func (c *GeminiClient) GetModel() string {
	return c.model
}

// Chat sends a GenerateContent request.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message, systemPrompt string) (*Response, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.temperature)),
		MaxOutputTokens: int32(c.maxTokens),
	}
	if systemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	llmLog.Debug("gemini: sending request with %d messages", len(contents))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, gc)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return nil, apperrors.BackendEmptyResponse(c.model)
	}

	out := &Response{Content: content, Model: c.model}
	if len(resp.Candidates) > 0 {
		out.StopReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.BackendStatus(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apperrors.BackendStatus(apiErrPtr.Code, apiErrPtr.Message)
	}
	return apperrors.BackendUnavailable(err)
}
