package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/floatai/internal/router"
	"github.com/abdul-hamid-achik/floatai/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// RunConfig contains configuration for running the TUI
type RunConfig struct {
	Router    *router.Router
	Watcher   *store.Watcher // optional
	SessionID string
}

// Run starts the TUI and blocks until it exits
func Run(ctx context.Context, cfg RunConfig) error {
	if !IsTTYAvailable() {
		return fmt.Errorf("TUI mode requires a terminal")
	}

	var changes <-chan store.Change
	if cfg.Watcher != nil {
		changes = cfg.Watcher.Changes()
	}

	model := NewModel(ctx, cfg.Router, changes, cfg.SessionID)
	defer model.cancel()

	// No mouse capture to allow native text selection
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	tuiLog.Info("starting TUI with model %s", cfg.Router.Model())
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// IsTTYAvailable reports whether stdin and stdout are terminals.
func IsTTYAvailable() bool {
	return isTerminal(os.Stdout) && isTerminal(os.Stdin)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
