package tui

import (
	"fmt"
	"strings"

	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/abdul-hamid-achik/floatai/internal/router"
	"github.com/abdul-hamid-achik/floatai/internal/store"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()
		case "enter":
			return m.submit()
		case "tab":
			if m.loading {
				m.notice = "Wait for the reply before switching models"
				return m, nil
			}
			m.modelName = m.router.NextModel()
			m.notice = ""
			return m, nil
		case "ctrl+y":
			return m.copy(getLastAssistantResponse(m.blocks), "reply")
		case "alt+y":
			return m.copy(getLastCodeBlock(m.blocks), "code block")
		case "ctrl+o":
			return m.copy(m.GetConversationText(), "output")
		case "ctrl+l":
			m.clearBlocks()
			return m, nil
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case replyMsg:
		return m.handleReply(msg), nil

	case storeChangedMsg:
		if msg.name == store.PersonalityFile {
			if p := m.router.Personality(); p != m.personality {
				m.personality = p
				m.addBlock(BlockInfo, "Personality reloaded from "+store.PersonalityFile)
			}
		}
		return m, waitForChange(m.changes)

	case copiedMsg:
		if msg.err != nil {
			m.addBlock(BlockError, "Copy failed: "+msg.err.Error())
		} else {
			m.notice = fmt.Sprintf("Copied %d characters", msg.chars)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit routes the input line. Only forwarded input leaves the event loop.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}
	if m.loading {
		m.notice = "Still waiting for the previous reply"
		return m, nil
	}
	m.input.Reset()
	m.notice = ""

	res := m.router.Route(input)
	tuiLog.Debug("input routed: %s", res.Action)

	switch res.Action {
	case router.ActionExit:
		return m.quit()

	case router.ActionClearScreen:
		m.clearBlocks()

	case router.ActionReply:
		m.addBlock(BlockUser, input)
		if res.Err != nil {
			m.addBlock(BlockError, res.Text)
		} else {
			m.addBlock(BlockAssistant, res.Text)
		}
		m.modelName = m.router.Model()
		m.personality = m.router.Personality()

	case router.ActionForward:
		m.addBlock(BlockUser, input)
		if res.Warning != "" {
			m.addBlock(BlockWarning, res.Warning)
		}
		m.loading = true
		m.pending = res.Query
		return m, tea.Batch(m.spinner.Tick, m.forwardCmd(res.Query))
	}

	return m, nil
}

// handleReply shows the backend's answer and records the exchange
func (m Model) handleReply(msg replyMsg) Model {
	if !m.loading || msg.query != m.pending {
		tuiLog.Debug("dropping stale reply")
		return m
	}
	m.loading = false
	m.pending = ""

	if msg.err != nil {
		m.addBlock(BlockError, router.ErrorText(msg.err))
		return m
	}

	m.addBlock(BlockAssistant, msg.text)
	if err := m.router.Record(msg.query, msg.text); err != nil {
		tuiLog.Warn("history save failed: %v", err)
		m.addBlock(BlockWarning, apperrors.GetUserMessage(err))
	}
	return m
}

func (m Model) copy(text, what string) (tea.Model, tea.Cmd) {
	if text == "" {
		m.notice = "Nothing to copy"
		return m, nil
	}
	m.notice = "Copying " + what + "..."
	return m, copyCmd(text)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.input.SetWidth(width)
	m.viewport.Width = width
	m.viewport.Height = max(height-headerHeight-statusHeight-inputHeight-1, 1)

	wrap := min(width-2, defaultWrap)
	m.renderer = newRenderer(wrap)
	m.ready = true
	m.updateViewportContent()
	m.viewport.GotoBottom()
}
