package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/floatai/internal/config"
	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
)

func providerConfig(t *testing.T, provider config.Provider, handler http.HandlerFunc) *config.Config {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Provider = provider
	cfg.BaseURL = srv.URL + "/"
	cfg.APIKey = "test-key"
	return cfg
}

func TestAnthropicClient_Chat(t *testing.T) {
	var body map[string]any
	cfg := providerConfig(t, config.ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			t.Errorf("path = %q", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [{"type": "text", "text": "hello there"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 7, "output_tokens": 2}
		}`)
	})

	client := NewAnthropicClient(cfg)
	resp, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "You are a helpful assistant.")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Content != "hello there" || resp.StopReason != "end_turn" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.InputTokens != 7 || resp.OutputTokens != 2 {
		t.Errorf("usage = %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if body["model"] != cfg.GetDefaultModel() {
		t.Errorf("request model = %v", body["model"])
	}
	if _, ok := body["system"]; !ok {
		t.Error("request has no system prompt")
	}
}

func TestAnthropicClient_Unauthorized(t *testing.T) {
	cfg := providerConfig(t, config.ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	})

	_, err := NewAnthropicClient(cfg).Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	if !apperrors.IsBackend(err) {
		t.Fatalf("Chat() error = %v, want backend error", err)
	}
	msg := apperrors.GetUserMessage(err)
	if !strings.Contains(msg, "HTTP 401") || !strings.Contains(msg, "API key") {
		t.Errorf("message = %q", msg)
	}
}

func TestGeminiClient_Chat(t *testing.T) {
	cfg := providerConfig(t, config.ProviderGemini, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "hi from gemini"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 5, "candidatesTokenCount": 4}
		}`)
	})

	client, err := NewGeminiClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	resp, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "be brief")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Content != "hi from gemini" || resp.StopReason != "STOP" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.InputTokens != 5 || resp.OutputTokens != 4 {
		t.Errorf("usage = %d/%d", resp.InputTokens, resp.OutputTokens)
	}
}

func TestGeminiClient_Error(t *testing.T) {
	cfg := providerConfig(t, config.ProviderGemini, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`)
	})

	client, err := NewGeminiClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	_, err = client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	if !apperrors.IsBackend(err) {
		t.Errorf("Chat() error = %v, want backend error", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		provider config.Provider
		limited  bool
		wantErr  bool
	}{
		{"openai", config.ProviderOpenAI, false, false},
		{"anthropic", config.ProviderAnthropic, false, false},
		{"gemini", config.ProviderGemini, false, false},
		{"rate limited", config.ProviderOpenAI, true, false},
		{"unknown", config.Provider("ollama"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Provider = tt.provider
			cfg.APIKey = "test-key"
			cfg.RateLimit.EnableRateLimiting = tt.limited

			client, err := New(context.Background(), cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if _, ok := client.(*RateLimitedClient); ok != tt.limited {
				t.Errorf("rate limited = %v, want %v", ok, tt.limited)
			}
			if client.GetModel() != cfg.GetDefaultModel() {
				t.Errorf("GetModel() = %q, want %q", client.GetModel(), cfg.GetDefaultModel())
			}
		})
	}
}
