package ui

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

const (
	frameInterval = 100 * time.Millisecond
	// waits shorter than this are not announced
	minVisibleWait = 500 * time.Millisecond
)

// Wait describes a pause before the next backend request
type Wait struct {
	Reason   string        // "request budget" or the code of the error being retried
	Duration time.Duration // how long the pause lasts
	Retry    int           // 1-based retry number, 0 when waiting for budget
	Retries  int           // retries allowed for this request
}

// describe renders the wait with the time still to go:
// "waiting 12s for request budget" or "retry 1/2 in 3s (backend_status)"
func (w Wait) describe(left time.Duration) string {
	if w.Retry > 0 {
		s := fmt.Sprintf("retry %d/%d in %s", w.Retry, w.Retries, formatDuration(left))
		if w.Reason != "" {
			s += " (" + w.Reason + ")"
		}
		return s
	}
	reason := w.Reason
	if reason == "" {
		reason = "the backend"
	}
	return fmt.Sprintf("waiting %s for %s", formatDuration(left), reason)
}

// Spinner shows progress on the error stream while the REPL waits on the backend
type Spinner struct {
	output *OutputHandler
}

// NewSpinner creates a spinner writing through output
func NewSpinner(output *OutputHandler) *Spinner {
	return &Spinner{output: output}
}

// Wait blocks for w.Duration or until ctx is done. On a terminal the time left
// counts down beside the spinner; otherwise the wait is announced once.
func (s *Spinner) Wait(ctx context.Context, w Wait) error {
	timer := time.NewTimer(w.Duration)
	defer timer.Stop()

	if w.Duration >= minVisibleWait {
		if s.output.IsTTY() {
			deadline := time.Now().Add(w.Duration)
			stop := s.animate(func() string {
				return w.describe(max(time.Until(deadline), 0))
			})
			defer stop()
		} else {
			fmt.Fprintln(s.output.errOut, w.describe(w.Duration))
		}
	}

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loading shows message beside the spinner until stop is called. Without a
// terminal the message is printed once.
func (s *Spinner) Loading(message string) (stop func()) {
	if !s.output.IsTTY() {
		fmt.Fprintln(s.output.errOut, message)
		return func() {}
	}
	return s.animate(func() string { return message })
}

// animate redraws the status line every frame until stop is called. stop
// waits for the last frame and leaves the line blank.
func (s *Spinner) animate(text func() string) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.draw(spinnerFrames[i%len(spinnerFrames)], text())
			select {
			case <-ticker.C:
			case <-done:
				fmt.Fprint(s.output.errOut, ClearLine+CursorStart)
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

func (s *Spinner) draw(frame rune, text string) {
	fmt.Fprint(s.output.errOut, ClearLine+CursorStart+s.output.color(Cyan, string(frame))+" "+s.output.color(Dim, text))
}

// formatDuration rounds to the second: 45s, 1m30s
func formatDuration(d time.Duration) string {
	secs := int(max(d.Round(time.Second), 0) / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}
