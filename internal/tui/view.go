package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.ready {
		return "\n  Starting floatai...\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

// renderHeader renders the title and the active model
func (m Model) renderHeader() string {
	title := headerTitleStyle.Render("floatai")

	sessionPart := ""
	if m.sessionID != "" {
		short := m.sessionID
		if len(short) > 8 {
			short = short[:8]
		}
		sessionPart = headerModelStyle.Render(fmt.Sprintf(" [%s]", short))
	}

	model := headerModelStyle.Render(fmt.Sprintf("Model: %s (tab)", m.modelName))

	leftPart := title + sessionPart
	availWidth := max(m.width-lipgloss.Width(leftPart)-lipgloss.Width(model)-2, 1)

	return headerStyle.Width(m.width).Render(leftPart + strings.Repeat(" ", availWidth) + model)
}

// renderStatusBar shows activity on the left and the personality on the right
func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.loading:
		left = m.spinner.View() + " Loading response..."
	case m.notice != "":
		left = m.notice
	default:
		left = statusKeyStyle.Render("enter send · alt+enter newline · ctrl+y copy reply · ctrl+o copy all · ctrl+c quit")
	}

	personality := m.personality
	if personality == "" {
		personality = "default"
	}
	right := statusKeyStyle.Render("personality: ") + truncate(personality, max(m.width/3, 10))

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return statusStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderContent renders all content blocks
func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return infoStyle.Render(iconInfo + " Ask anything. Type \"help\" for commands.")
	}

	var b strings.Builder
	for _, block := range m.blocks {
		b.WriteString(m.renderBlock(block))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderBlock renders a single content block
func (m Model) renderBlock(block ContentBlock) string {
	switch block.Type {
	case BlockUser:
		return userPrefixStyle.Render(iconUser+" ") + userStyle.Render(block.Content)
	case BlockAssistant:
		return renderMarkdown(m.renderer, block.Content)
	case BlockError:
		return errorStyle.Render(iconError+" ") + renderMarkdown(m.renderer, block.Content)
	case BlockWarning:
		return warningStyle.Render(iconWarning + " " + block.Content)
	case BlockInfo:
		return infoStyle.Render(iconInfo + " " + block.Content)
	default:
		return block.Content
	}
}
