// Package repl is the line-mode front end, used with --plain or when no
// terminal is attached.
package repl

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/abdul-hamid-achik/floatai/internal/llm"
	"github.com/abdul-hamid-achik/floatai/internal/logger"
	"github.com/abdul-hamid-achik/floatai/internal/router"
	"github.com/abdul-hamid-achik/floatai/internal/ui"
	"github.com/peterh/liner"
)

const prompt = "floatai> "

// commands offered by tab completion
var commands = []string{
	"exit", "clear", "clear all", "clear history", "clear memory",
	"history", "memory", "set personality: ", "models", "model: ", "help",
}

var replLog = logger.WithPrefix("repl")

// LineReader is the part of liner.State the loop needs
type LineReader interface {
	Prompt(p string) (string, error)
	AppendHistory(item string)
}

// Options configures a REPL
type Options struct {
	HistoryFile string // input history across sessions; empty disables it
}

// REPL reads lines and hands them to the router
type REPL struct {
	router      *router.Router
	out         *ui.OutputHandler
	spinner     *ui.Spinner
	historyFile string
	stopLoading func()
}

// New creates a REPL writing to out
func New(r *router.Router, out *ui.OutputHandler, opts Options) *REPL {
	return &REPL{
		router:      r,
		out:         out,
		spinner:     ui.NewSpinner(out),
		historyFile: opts.HistoryFile,
	}
}

// Run prompts until exit, Ctrl+C, Ctrl+D or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	r.loadHistory(line)
	defer r.saveHistory(line)

	r.out.Header("floatai")
	r.out.ModelInfo(r.router.Model())
	r.out.Info(`Type "help" for commands, "exit" to quit.`)

	return r.Loop(ctx, line)
}

// Loop runs the prompt loop over reader.
func (r *REPL) Loop(ctx context.Context, reader LineReader) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := reader.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) != "" {
			reader.AppendHistory(input)
		}

		if r.HandleLine(ctx, input) {
			return nil
		}
	}
}

// HandleLine processes one line and reports whether the session should end.
func (r *REPL) HandleLine(ctx context.Context, input string) (exit bool) {
	res := r.router.Route(input)
	replLog.Debug("input routed: %s", res.Action)

	switch res.Action {
	case router.ActionExit:
		return true
	case router.ActionClearScreen:
		r.out.Clear()
	case router.ActionReply:
		if res.Err != nil {
			r.out.Error(res.Err)
		} else {
			r.out.Reply(res.Text)
		}
	case router.ActionForward:
		if res.Warning != "" {
			r.out.Warning(res.Warning)
		}
		r.forward(ctx, res.Query)
	}
	return false
}

func (r *REPL) forward(ctx context.Context, query string) {
	r.startLoading()
	text, err := r.router.Forward(ctx, query)
	r.pauseLoading()

	if err != nil {
		r.out.Error(err)
		return
	}
	r.out.Reply(text)
	if err := r.router.Record(query, text); err != nil {
		replLog.Warn("history save failed: %v", err)
		r.out.Warning(apperrors.GetUserMessage(err))
	}
}

// WaitCallback shows rate limit and retry waits. It is meant for
// llm.RateLimitedClient.SetWaitCallback and pauses the loading spinner while
// it runs.
func (r *REPL) WaitCallback(ctx context.Context, info llm.WaitInfo) error {
	resume := r.stopLoading != nil
	r.pauseLoading()
	if resume {
		defer r.startLoading()
	}

	return r.spinner.Wait(ctx, ui.Wait{
		Reason:   info.Reason,
		Duration: info.Duration,
		Retry:    info.Attempt,
		Retries:  info.MaxAttempts,
	})
}

func (r *REPL) startLoading() {
	r.stopLoading = r.spinner.Loading("Loading response...")
}

func (r *REPL) pauseLoading() {
	if r.stopLoading != nil {
		r.stopLoading()
		r.stopLoading = nil
	}
}

func (r *REPL) loadHistory(line *liner.State) {
	if r.historyFile == "" {
		return
	}
	f, err := os.Open(r.historyFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			replLog.Warn("cannot read input history: %v", err)
		}
		return
	}
	defer f.Close()
	if _, err := line.ReadHistory(f); err != nil {
		replLog.Warn("cannot read input history: %v", err)
	}
}

func (r *REPL) saveHistory(line *liner.State) {
	if r.historyFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0755); err != nil {
		replLog.Warn("cannot save input history: %v", err)
		return
	}
	f, err := os.Create(r.historyFile)
	if err != nil {
		replLog.Warn("cannot save input history: %v", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		replLog.Warn("cannot save input history: %v", err)
	}
}

// complete offers the commands that start with line
func complete(line string) []string {
	lower := strings.ToLower(line)
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			out = append(out, c)
		}
	}
	return out
}
