package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/floatai/internal/config"
	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/abdul-hamid-achik/floatai/internal/llm"
)

func TestModelsList(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Models = []string{"a/one", "b/two"}

	var buf bytes.Buffer
	modelsList(&buf, cfg)

	out := buf.String()
	for _, want := range []string{"Provider: openai", "Base URL: " + config.DefaultBaseURL, "* 1. a/one", "  2. b/two"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestModelsTest(t *testing.T) {
	mock := llm.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, messages []llm.Message, systemPrompt string) (*llm.Response, error) {
		if mock.GetModel() == "broken" {
			return nil, apperrors.BackendStatus(404, "no such model")
		}
		return &llm.Response{Content: "4\nbecause arithmetic"}, nil
	}

	var buf bytes.Buffer
	modelsTest(context.Background(), &buf, mock, []string{"good", "broken"})

	out := buf.String()
	if !strings.Contains(out, `Testing good... `) || !strings.Contains(out, `- "4"`) {
		t.Errorf("missing good result:\n%s", out)
	}
	if !strings.Contains(out, "Testing broken... ERROR: HTTP 404: no such model\n") {
		t.Errorf("missing error line:\n%s", out)
	}
	if len(mock.Calls()) != 2 {
		t.Errorf("calls = %d, want 2", len(mock.Calls()))
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	if buf.String() != "floatai version dev\n" {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 50); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate(strings.Repeat("x", 60), 10); got != "xxxxxxx..." {
		t.Errorf("truncate() = %q", got)
	}
}
