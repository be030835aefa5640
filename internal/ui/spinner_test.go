package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "0s"},
		{"seconds only", 45 * time.Second, "45s"},
		{"one minute", 60 * time.Second, "1m00s"},
		{"one minute thirty", 90 * time.Second, "1m30s"},
		{"negative", -5 * time.Second, "0s"},
		{"rounds down", 45*time.Second + 400*time.Millisecond, "45s"},
		{"rounds up", 45*time.Second + 600*time.Millisecond, "46s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatDuration(tc.duration); got != tc.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tc.duration, got, tc.expected)
			}
		})
	}
}

func TestWaitDescribe(t *testing.T) {
	tests := []struct {
		name     string
		wait     Wait
		left     time.Duration
		expected string
	}{
		{"budget", Wait{Reason: "request budget"}, 12 * time.Second, "waiting 12s for request budget"},
		{"no reason", Wait{}, 2 * time.Second, "waiting 2s for the backend"},
		{"retry", Wait{Reason: "backend_status", Retry: 1, Retries: 2}, 3 * time.Second, "retry 1/2 in 3s (backend_status)"},
		{"retry without code", Wait{Retry: 2, Retries: 3}, 90 * time.Second, "retry 2/3 in 1m30s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.wait.describe(tc.left); got != tc.expected {
				t.Errorf("describe() = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestSpinnerWaitCancelled(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(NewOutputHandlerTo(&buf, &buf, false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := spinner.Wait(ctx, Wait{Reason: "request budget", Duration: 10 * time.Second})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if buf.String() != "waiting 10s for request budget\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSpinnerShortWaitIsSilent(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(NewOutputHandlerTo(&buf, &buf, true))

	start := time.Now()
	if err := spinner.Wait(context.Background(), Wait{Duration: 50 * time.Millisecond}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("returned after %v", elapsed)
	}
	if buf.Len() != 0 {
		t.Errorf("short wait wrote output: %q", buf.String())
	}
}

func TestSpinnerWaitCountsDown(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(NewOutputHandlerTo(&buf, &buf, true))

	err := spinner.Wait(context.Background(), Wait{Reason: "backend_status", Duration: 600 * time.Millisecond, Retry: 1, Retries: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "retry 1/2 in 1s (backend_status)") {
		t.Errorf("output missing countdown: %q", out)
	}
	if !strings.HasSuffix(out, ClearLine+CursorStart) {
		t.Errorf("line not cleared after wait: %q", out)
	}
}

func TestLoadingWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(NewOutputHandlerTo(&buf, &buf, false))

	stop := spinner.Loading("Loading response...")
	stop()
	stop()

	if buf.String() != "Loading response...\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLoadingAnimatesUntilStopped(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(NewOutputHandlerTo(&buf, &buf, true))

	stop := spinner.Loading("Loading response...")
	time.Sleep(150 * time.Millisecond)
	stop()

	out := buf.String()
	if !strings.Contains(out, "Loading response...") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.HasSuffix(out, ClearLine+CursorStart) {
		t.Errorf("line not cleared after stop: %q", out)
	}
}
