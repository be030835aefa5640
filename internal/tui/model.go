package tui

import (
	"context"
	"strings"

	"github.com/abdul-hamid-achik/floatai/internal/logger"
	"github.com/abdul-hamid-achik/floatai/internal/router"
	"github.com/abdul-hamid-achik/floatai/internal/store"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// tuiLog is a prefixed logger for TUI events
var tuiLog = logger.WithPrefix("tui")

// Layout
const (
	inputHeight  = 3
	headerHeight = 1
	statusHeight = 1
)

// BlockType represents the type of content block
type BlockType int

const (
	BlockUser      BlockType = iota // User message
	BlockAssistant                  // Backend reply or command output (Markdown)
	BlockError                      // Error message
	BlockWarning                    // Warning message
	BlockInfo                       // Info message
)

// ContentBlock represents a piece of content in the output area
type ContentBlock struct {
	Type    BlockType
	Content string
}

// Model is the Bubble Tea model for the chat window
type Model struct {
	// Dimensions
	width  int
	height int
	ready  bool

	// Collaborators
	router  *router.Router
	changes <-chan store.Change

	// Request lifecycle; cancel drops an outstanding reply on quit
	ctx     context.Context
	cancel  context.CancelFunc
	loading bool
	pending string

	// State shown in the chrome
	modelName   string
	personality string
	sessionID   string
	notice      string

	// Content
	blocks   []ContentBlock
	renderer *glamour.TermRenderer

	// Components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	quitting bool
}

// NewModel creates the chat model. changes may be nil when the data
// directory is not watched.
func NewModel(ctx context.Context, r *router.Router, changes <-chan store.Change, sessionID string) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message, or \"help\"..."
	ta.Prompt = "┃ "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ctx, cancel := context.WithCancel(ctx)
	return Model{
		router:      r,
		changes:     changes,
		ctx:         ctx,
		cancel:      cancel,
		modelName:   r.Model(),
		personality: r.Personality(),
		sessionID:   sessionID,
		viewport:    viewport.New(80, 20),
		input:       ta,
		spinner:     sp,
		renderer:    newRenderer(defaultWrap),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForChange(m.changes))
}

// waitForChange returns a command that waits for the next store change
func waitForChange(changes <-chan store.Change) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-changes
		if !ok {
			return nil
		}
		return storeChangedMsg{name: c.Name}
	}
}

// forwardCmd calls the backend off the event loop
func (m Model) forwardCmd(query string) tea.Cmd {
	ctx, r := m.ctx, m.router
	return func() tea.Msg {
		text, err := r.Forward(ctx, query)
		return replyMsg{query: query, text: text, err: err}
	}
}

// addBlock adds a content block and scrolls to it
func (m *Model) addBlock(t BlockType, content string) {
	m.blocks = append(m.blocks, ContentBlock{Type: t, Content: content})
	m.updateViewportContent()
	m.viewport.GotoBottom()
}

// clearBlocks empties the output area
func (m *Model) clearBlocks() {
	m.blocks = nil
	m.updateViewportContent()
}

func (m *Model) updateViewportContent() {
	m.viewport.SetContent(m.renderContent())
}

// IsQuitting returns true if the model is quitting
func (m Model) IsQuitting() bool {
	return m.quitting
}

// IsLoading reports whether a reply is outstanding
func (m Model) IsLoading() bool {
	return m.loading
}

// Blocks returns the output area's content
func (m Model) Blocks() []ContentBlock {
	return m.blocks
}

// GetConversationText returns the output area as plain text, for copying it whole
func (m Model) GetConversationText() string {
	var b strings.Builder
	for _, block := range m.blocks {
		switch block.Type {
		case BlockUser:
			b.WriteString("User: ")
		case BlockAssistant:
			b.WriteString("AI: ")
		case BlockError:
			b.WriteString("Error: ")
		default:
			continue
		}
		b.WriteString(block.Content)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
