package llm

import (
	"context"

	"github.com/abdul-hamid-achik/floatai/internal/config"
	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/abdul-hamid-achik/floatai/internal/logger"
)

// Roles used in Message.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a conversation message
type Message struct {
	Role    string
	Content string
}

// Response represents an LLM response
type Response struct {
	Content      string
	StopReason   string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Client is the interface every backend implements. Model selection is opaque
// to callers; SetModel takes whatever identifier the backend understands.
type Client interface {
	Chat(ctx context.Context, messages []Message, systemPrompt string) (*Response, error)
	SetModel(model string)
	GetModel() string
}

var llmLog = logger.WithPrefix("llm")

// New builds the client for cfg.Provider, wrapped in a RateLimitedClient
// when rate limiting is enabled.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	var (
		client Client
		err    error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		client = NewOpenAIClient(cfg)
	case config.ProviderAnthropic:
		client = NewAnthropicClient(cfg)
	case config.ProviderGemini:
		client, err = NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.UnknownProvider(string(cfg.Provider))
	}

	llmLog.Info("using provider %s, model %s", cfg.Provider, client.GetModel())

	if cfg.RateLimit.EnableRateLimiting {
		return NewRateLimitedClient(client, &cfg.RateLimit), nil
	}
	return client, nil
}
