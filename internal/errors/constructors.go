package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"unicode/utf8"
)

// maxBodyInMessage bounds how much of an error response body is shown to the user.
const maxBodyInMessage = 500

// BackendUnavailable creates an error for when the AI backend cannot be reached.
func BackendUnavailable(cause error) *AppError {
	msg := "AI backend is unavailable"
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &AppError{
		Category:  CategoryBackend,
		Code:      "backend_unavailable",
		Message:   msg,
		Retryable: true,
		Cause:     cause,
	}
}

// BackendStatus creates an error for a non-2xx response from the AI backend.
// 401 and 404 carry a hint about the usual misconfiguration.
func BackendStatus(status int, body string) *AppError {
	body = truncateBody(strings.TrimSpace(body))
	msg := fmt.Sprintf("HTTP %d: %s", status, body)
	switch status {
	case http.StatusUnauthorized:
		msg += "\nHint: Authentication failed. Check that your API key is valid and has access to the selected model."
	case http.StatusNotFound:
		msg += "\nHint: Set NVIDIA_MODEL (or the models list in floatai.yaml) to a valid model id, e.g. meta/llama-3.1-8b-instruct."
	}
	return &AppError{
		Category:  CategoryBackend,
		Code:      "backend_status",
		Message:   msg,
		Retryable: status == http.StatusTooManyRequests || status >= 500,
	}
}

// BackendInvalidResponse creates an error for a 2xx response that cannot be decoded.
// Sending the same request again would get the same body, so it is not retried.
func BackendInvalidResponse(cause error) *AppError {
	return &AppError{
		Category:  CategoryBackend,
		Code:      "backend_invalid_response",
		Message:   fmt.Sprintf("AI backend sent a response that could not be read: %v", cause),
		Retryable: false,
		Cause:     cause,
	}
}

// BackendEmptyResponse creates an error for a response with no usable content.
func BackendEmptyResponse(model string) *AppError {
	return &AppError{
		Category:  CategoryBackend,
		Code:      "backend_empty_response",
		Message:   fmt.Sprintf("model %q returned an empty response", model),
		Retryable: false,
	}
}

// FileAccess creates an error for a failed read or write of a state file.
// op is a verb such as "read" or "write".
func FileAccess(op, name string, cause error) *AppError {
	reason := "unknown error"
	if cause != nil {
		reason = cause.Error()
		var pe *fs.PathError
		if errors.As(cause, &pe) {
			reason = pe.Err.Error()
		}
	}
	return &AppError{
		Category:  CategoryFile,
		Code:      "file_access",
		Message:   fmt.Sprintf("cannot %s %s: %s", op, name, reason),
		Retryable: false,
		Cause:     cause,
	}
}

// ConfigLoadFailed creates an error for when configuration loading fails.
func ConfigLoadFailed(path string, cause error) *AppError {
	return &AppError{
		Category:  CategoryConfig,
		Code:      "config_load_failed",
		Message:   fmt.Sprintf("failed to load config from %q", path),
		Retryable: false,
		Cause:     cause,
	}
}

// MissingAPIKey creates an error for a provider with no key in the environment.
func MissingAPIKey(provider string, envVars ...string) *AppError {
	return &AppError{
		Category:  CategoryConfig,
		Code:      "missing_api_key",
		Message:   fmt.Sprintf("no API key found for provider %q: set %s (a .env file in the working directory is read too)", provider, strings.Join(envVars, " or ")),
		Retryable: false,
	}
}

// UnknownProvider creates an error for an unsupported provider name.
func UnknownProvider(name string) *AppError {
	return &AppError{
		Category:  CategoryConfig,
		Code:      "unknown_provider",
		Message:   fmt.Sprintf("unknown provider %q (want openai, anthropic or gemini)", name),
		Retryable: false,
	}
}

// truncateBody cuts body to maxBodyInMessage bytes without splitting a rune
func truncateBody(body string) string {
	if len(body) <= maxBodyInMessage {
		return body
	}
	cut := maxBodyInMessage
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
