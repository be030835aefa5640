// Package highlight colors fenced code blocks for terminal output.
package highlight

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is used when the requested chroma style does not exist
const DefaultStyle = "nord"

// Highlighter provides syntax highlighting for code blocks
type Highlighter struct {
	enabled   bool
	formatter chroma.Formatter
	style     *chroma.Style
}

// New creates a Highlighter. When enabled is false every method returns its
// input unchanged.
func New(enabled bool, styleName string) *Highlighter {
	style := styles.Get(styleName)
	if style == styles.Fallback {
		style = styles.Get(DefaultStyle)
	}
	return &Highlighter{
		enabled:   enabled,
		formatter: formatters.Get("terminal256"),
		style:     style,
	}
}

// Enabled reports whether highlighting is applied
func (h *Highlighter) Enabled() bool {
	return h.enabled
}

// Highlight applies syntax highlighting to a code string. Unknown languages
// are detected from the code itself.
func (h *Highlighter) Highlight(code, language string) string {
	if !h.enabled {
		return code
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// codeBlockRegex matches markdown code blocks with optional language
var codeBlockRegex = regexp.MustCompile("(?s)```([\\w+#-]*)[ \\t]*\\n(.*?)```")

// HighlightMarkdownCodeBlocks replaces each fenced block in text with its
// highlighted body. The fences are dropped.
func (h *Highlighter) HighlightMarkdownCodeBlocks(text string) string {
	if !h.enabled {
		return text
	}

	return codeBlockRegex.ReplaceAllStringFunc(text, func(match string) string {
		parts := codeBlockRegex.FindStringSubmatch(match)
		if len(parts) != 3 {
			return match
		}
		code := strings.TrimSuffix(parts[2], "\n")
		return h.Highlight(code, parts[1])
	})
}
