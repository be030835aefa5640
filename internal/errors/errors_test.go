package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
	"testing"
	"unicode/utf8"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name: "with cause",
			err: &AppError{
				Category: CategoryBackend,
				Code:     "backend_unavailable",
				Message:  "AI backend is unavailable",
				Cause:    fmt.Errorf("connection refused"),
			},
			contains: []string{"[backend]", "backend_unavailable", "AI backend is unavailable", "connection refused"},
		},
		{
			name: "without cause",
			err: &AppError{
				Category: CategoryFile,
				Code:     "file_access",
				Message:  "cannot write memory.txt",
			},
			contains: []string{"[file]", "file_access", "cannot write memory.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("Error() = %q, want it to contain %q", msg, s)
				}
			}
		})
	}
}

func TestAppError_UnwrapChain(t *testing.T) {
	root := fmt.Errorf("disk full")
	mid := ConfigLoadFailed("floatai.yaml", root)
	outer := fmt.Errorf("startup failed: %w", mid)

	if !errors.Is(outer, root) {
		t.Error("expected errors.Is to find root cause through chain")
	}

	var ae *AppError
	if !errors.As(outer, &ae) {
		t.Fatal("expected errors.As to find AppError in chain")
	}
	if ae.Code != "config_load_failed" {
		t.Errorf("got code %q, want %q", ae.Code, "config_load_failed")
	}
}

func TestAppError_Is(t *testing.T) {
	err1 := &AppError{Category: CategoryBackend, Code: "backend_status", Message: "a"}
	err2 := &AppError{Category: CategoryBackend, Code: "backend_status", Message: "b"}
	err3 := &AppError{Category: CategoryBackend, Code: "backend_unavailable", Message: "c"}
	err4 := &AppError{Category: CategoryFile, Code: "backend_status", Message: "d"}

	if !errors.Is(err1, err2) {
		t.Error("expected Is() to match same category+code regardless of message")
	}
	if errors.Is(err1, err3) {
		t.Error("expected Is() to not match different codes")
	}
	if errors.Is(err1, err4) {
		t.Error("expected Is() to not match different categories")
	}
	if errors.Is(err1, fmt.Errorf("not an app error")) {
		t.Error("expected Is() to return false for non-AppError target")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unavailable", BackendUnavailable(nil), true},
		{"429", BackendStatus(429, "slow down"), true},
		{"503", BackendStatus(503, ""), true},
		{"401", BackendStatus(401, "bad key"), false},
		{"wrapped retryable", fmt.Errorf("outer: %w", BackendUnavailable(nil)), true},
		{"file access", FileAccess("write", "memory.txt", nil), false},
		{"plain error", fmt.Errorf("plain error"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"backend", BackendEmptyResponse("m"), CategoryBackend},
		{"file", FileAccess("read", "history.txt", nil), CategoryFile},
		{"wrapped config", fmt.Errorf("wrap: %w", MissingAPIKey("openai", "NVIDIA_API_KEY")), CategoryConfig},
		{"plain", fmt.Errorf("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCategory(tt.err); got != tt.want {
				t.Errorf("GetCategory() = %q, want %q", got, tt.want)
			}
		})
	}

	if !IsBackend(BackendUnavailable(nil)) {
		t.Error("IsBackend should be true for BackendUnavailable")
	}
	if !IsFileAccess(FileAccess("write", "x", nil)) {
		t.Error("IsFileAccess should be true for FileAccess")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(BackendStatus(429, "slow down")); got != "backend_status" {
		t.Errorf("GetCode() = %q, want backend_status", got)
	}
	if got := GetCode(fmt.Errorf("wrap: %w", BackendUnavailable(nil))); got != "backend_unavailable" {
		t.Errorf("GetCode() = %q, want backend_unavailable", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "file access unwraps path error",
			err: FileAccess("write", "memory.txt", &fs.PathError{
				Op: "open", Path: "/tmp/features/memory.txt", Err: syscall.EACCES,
			}),
			want: "cannot write memory.txt: permission denied",
		},
		{
			name: "plain error",
			err:  fmt.Errorf("something broke"),
			want: "something broke",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserMessage(tt.err); got != tt.want {
				t.Errorf("GetUserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBackendStatusHints(t *testing.T) {
	if msg := BackendStatus(401, "unauthorized").Message; !strings.Contains(msg, "HTTP 401") || !strings.Contains(msg, "API key") {
		t.Errorf("401 message missing status or hint: %q", msg)
	}
	if msg := BackendStatus(404, "no such model").Message; !strings.Contains(msg, "NVIDIA_MODEL") {
		t.Errorf("404 message missing model hint: %q", msg)
	}
	if msg := BackendStatus(500, "oops").Message; strings.Contains(msg, "Hint") {
		t.Errorf("500 message should carry no hint: %q", msg)
	}

	long := strings.Repeat("x", maxBodyInMessage*2)
	if msg := BackendStatus(500, long).Message; len(msg) > maxBodyInMessage+20 {
		t.Errorf("body not truncated, message length %d", len(msg))
	}
}

func TestConstructors(t *testing.T) {
	t.Run("BackendUnavailable", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := BackendUnavailable(cause)
		assertError(t, err, CategoryBackend, "backend_unavailable", true, cause)
		if !strings.Contains(err.Message, "connection refused") {
			t.Errorf("Message should carry the cause, got %q", err.Message)
		}
	})

	t.Run("BackendEmptyResponse", func(t *testing.T) {
		err := BackendEmptyResponse("nvidia/nemotron-3-8b-instruct")
		assertError(t, err, CategoryBackend, "backend_empty_response", false, nil)
	})

	t.Run("FileAccess", func(t *testing.T) {
		cause := fmt.Errorf("disk full")
		err := FileAccess("write", "history.txt", cause)
		assertError(t, err, CategoryFile, "file_access", false, cause)
		if err.Message != "cannot write history.txt: disk full" {
			t.Errorf("Message = %q", err.Message)
		}
	})

	t.Run("ConfigLoadFailed", func(t *testing.T) {
		cause := fmt.Errorf("file not found")
		err := ConfigLoadFailed("/etc/floatai.yaml", cause)
		assertError(t, err, CategoryConfig, "config_load_failed", false, cause)
		if !strings.Contains(err.Message, "/etc/floatai.yaml") {
			t.Errorf("Message should contain path, got %q", err.Message)
		}
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		err := MissingAPIKey("openai", "NVIDIA_API_KEY", "OPENAI_API_KEY")
		assertError(t, err, CategoryConfig, "missing_api_key", false, nil)
		if !strings.Contains(err.Message, "NVIDIA_API_KEY or OPENAI_API_KEY") {
			t.Errorf("Message should list env vars, got %q", err.Message)
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		err := UnknownProvider("cohere")
		assertError(t, err, CategoryConfig, "unknown_provider", false, nil)
	})
}

func assertError(t *testing.T, err *AppError, category Category, code string, retryable bool, cause error) {
	t.Helper()
	if err.Category != category {
		t.Errorf("Category = %q, want %q", err.Category, category)
	}
	if err.Code != code {
		t.Errorf("Code = %q, want %q", err.Code, code)
	}
	if err.Retryable != retryable {
		t.Errorf("Retryable = %v, want %v", err.Retryable, retryable)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Message == "" {
		t.Error("Message should not be empty")
	}
}

func TestBackendStatusTruncatesOnRuneBoundary(t *testing.T) {
	// "é" is two bytes, so the byte limit falls inside a rune
	body := "x" + strings.Repeat("é", maxBodyInMessage)
	msg := BackendStatus(500, body).Message

	if !utf8.ValidString(msg) {
		t.Fatalf("message is not valid UTF-8: %q", msg[len(msg)-10:])
	}
	if !strings.HasSuffix(msg, "é...") {
		t.Errorf("expected truncated body to end with a whole rune, got %q", msg[len(msg)-10:])
	}
	if got := len(strings.TrimPrefix(strings.TrimSuffix(msg, "..."), "HTTP 500: ")); got > maxBodyInMessage {
		t.Errorf("body kept %d bytes, limit %d", got, maxBodyInMessage)
	}

	short := BackendStatus(502, "  bad gateway  ").Message
	if short != "HTTP 502: bad gateway" {
		t.Errorf("short body = %q", short)
	}
}

func TestBackendInvalidResponseIsNotRetried(t *testing.T) {
	err := BackendInvalidResponse(fmt.Errorf("decode response: unexpected EOF"))
	if IsRetryable(err) {
		t.Error("invalid response must not be retryable")
	}
	if !IsBackend(err) {
		t.Error("invalid response should be a backend error")
	}
	if GetCode(err) != "backend_invalid_response" {
		t.Errorf("code = %q", GetCode(err))
	}
}
