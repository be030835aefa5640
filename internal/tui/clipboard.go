package tui

import (
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// copyCmd copies text to the system clipboard off the event loop
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return copiedMsg{err: err}
		}
		return copiedMsg{chars: len([]rune(text))}
	}
}

// getLastAssistantResponse returns the content of the last assistant block
func getLastAssistantResponse(blocks []ContentBlock) string {
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Type == BlockAssistant {
			return blocks[i].Content
		}
	}
	return ""
}

// codeBlockRegex matches fenced code blocks
var codeBlockRegex = regexp.MustCompile("(?s)```[^\n]*\n(.*?)```")

// getLastCodeBlock returns the content of the last code block in the output
func getLastCodeBlock(blocks []ContentBlock) string {
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Type == BlockAssistant {
			matches := codeBlockRegex.FindAllStringSubmatch(blocks[i].Content, -1)
			if len(matches) > 0 {
				return strings.TrimSpace(matches[len(matches)-1][1])
			}
		}
	}
	return ""
}
