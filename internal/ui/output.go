package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/abdul-hamid-achik/floatai/internal/ui/highlight"
	"github.com/mattn/go-isatty"
)

// ANSI color codes
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	Italic    = "\033[3m"
	Underline = "\033[4m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// ANSI cursor control codes
const (
	CursorStart = "\r"            // Move cursor to start of line
	ClearLine   = "\033[2K"       // Clear entire line
	ClearScreen = "\033[H\033[2J" // Home cursor and clear the screen
)

// OutputHandler writes line-mode output, with colors when attached to a terminal
type OutputHandler struct {
	out         io.Writer
	errOut      io.Writer
	useColors   bool
	highlighter *highlight.Highlighter
}

// NewOutputHandler creates an output handler for stdout and stderr. Colors are
// off when stdout is not a terminal or NO_COLOR is set.
func NewOutputHandler() *OutputHandler {
	useColors := isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("NO_COLOR") == ""
	return NewOutputHandlerTo(os.Stdout, os.Stderr, useColors)
}

// NewOutputHandlerTo creates an output handler writing to the given streams
func NewOutputHandlerTo(out, errOut io.Writer, useColors bool) *OutputHandler {
	return &OutputHandler{
		out:         out,
		errOut:      errOut,
		useColors:   useColors,
		highlighter: highlight.New(useColors, highlight.DefaultStyle),
	}
}

// color applies color if colors are enabled
func (o *OutputHandler) color(color, text string) string {
	if !o.useColors {
		return text
	}
	return color + text + Reset
}

// IsTTY returns true if the output is a terminal (not piped/redirected)
func (o *OutputHandler) IsTTY() bool {
	return o.useColors
}

// UseColors returns true if colors are enabled
func (o *OutputHandler) UseColors() bool {
	return o.useColors
}

// Reply prints a Markdown reply with its code blocks highlighted
func (o *OutputHandler) Reply(text string) {
	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, strings.TrimRight(o.highlighter.HighlightMarkdownCodeBlocks(text), "\n"))
	fmt.Fprintln(o.out)
}

// Error outputs an error message
func (o *OutputHandler) Error(err error) {
	o.ErrorStr(apperrors.GetUserMessage(err))
}

// ErrorStr outputs an error string
func (o *OutputHandler) ErrorStr(msg string) {
	prefix := o.color(Red+Bold, "Error: ")
	fmt.Fprintln(o.errOut, prefix+msg)
}

// Warning outputs a warning message
func (o *OutputHandler) Warning(msg string) {
	prefix := o.color(Yellow+Bold, "Warning: ")
	fmt.Fprintln(o.errOut, prefix+msg)
}

// Success outputs a success message
func (o *OutputHandler) Success(msg string) {
	prefix := o.color(Green+Bold, "✓ ")
	fmt.Fprintln(o.out, prefix+msg)
}

// Info outputs an info message
func (o *OutputHandler) Info(msg string) {
	prefix := o.color(Blue, "ℹ ")
	fmt.Fprintln(o.out, prefix+msg)
}

// Header outputs a header
func (o *OutputHandler) Header(text string) {
	fmt.Fprintln(o.out, o.color(Bold+Underline, text))
}

// Separator outputs a horizontal line
func (o *OutputHandler) Separator() {
	fmt.Fprintln(o.out, o.color(Dim, strings.Repeat("─", 40)))
}

// ModelInfo outputs the current model info
func (o *OutputHandler) ModelInfo(model string) {
	fmt.Fprintln(o.out, o.color(Dim, "Using model: ")+o.color(Cyan, model))
}

// Clear clears the terminal, or prints a separator when output is not a terminal
func (o *OutputHandler) Clear() {
	if o.useColors {
		fmt.Fprint(o.out, ClearScreen)
		return
	}
	o.Separator()
}
