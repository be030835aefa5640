package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

const defaultWrap = 100

// markdownStyle is glamour's dark theme with the document margin removed and
// headings drawn without their "#" prefixes.
func markdownStyle() ansi.StyleConfig {
	s := styles.DarkStyleConfig
	s.Document.Margin = uintPtr(0)
	s.H1.Prefix = ""
	s.H1.Suffix = ""
	s.H2.Prefix = ""
	s.H3.Prefix = ""
	s.H4.Prefix = ""
	s.H5.Prefix = ""
	s.H6.Prefix = ""
	s.Strong.Color = stringPtr("#eceff4")
	s.BlockQuote.IndentToken = stringPtr("│ ")
	return s
}

func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }

// newRenderer builds a renderer wrapping at width columns. A nil renderer
// means plain text output.
func newRenderer(width int) *glamour.TermRenderer {
	if width <= 0 {
		width = defaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		tuiLog.Warn("markdown renderer unavailable: %v", err)
		return nil
	}
	return r
}

// renderMarkdown renders markdown text, falling back to plain text on error
func renderMarkdown(r *glamour.TermRenderer, content string) string {
	if r == nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	// Trim the blank lines glamour adds around the document
	return strings.Trim(rendered, "\n")
}
