// Package router turns one line of user input into either a local command on
// the state files or a request to the AI backend.
package router

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/abdul-hamid-achik/floatai/internal/llm"
	"github.com/abdul-hamid-achik/floatai/internal/logger"
	"github.com/abdul-hamid-achik/floatai/internal/store"
)

// Action tells the UI what to do with a Result.
type Action int

const (
	ActionNone        Action = iota // empty input, nothing to do
	ActionReply                     // show Text
	ActionForward                   // send Query to the backend via Forward
	ActionClearScreen               // clear the output area only
	ActionExit                      // quit the application
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionReply:
		return "reply"
	case ActionForward:
		return "forward"
	case ActionClearScreen:
		return "clear-screen"
	case ActionExit:
		return "exit"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Result is the outcome of routing one input.
type Result struct {
	Action  Action
	Text    string // Markdown to display
	Query   string // text to forward, for ActionForward
	Warning string // non-fatal problem to show beside the reply
	Err     error  // underlying failure when Text is an error message
}

// User-visible texts.
const (
	MsgAllCleared       = "**All history and memory cleared. ✅**"
	MsgHistoryCleared   = "**History cleared. ✅**"
	MsgMemoryCleared    = "**Memory cleared. ✅**"
	MsgHistoryEmpty     = "**History is empty.**"
	MsgMemoryEmpty      = "**Memory is empty.**"
	MsgPersonalitySaved = "**Personality settings saved successfully!**"
	MsgNoPersonality    = "**Error: No personality provided.**"
)

const personalityPrefix = "set personality:"

const modelPrefix = "model:"

const helpText = `## Commands

| Command | Effect |
|---|---|
| ` + "`exit`" + ` | quit |
| ` + "`clear`" + ` | clear the screen |
| ` + "`clear history`" + ` | empty history.txt |
| ` + "`clear memory`" + ` | empty memory.txt |
| ` + "`clear all`" + ` | empty history and memory |
| ` + "`history`" + ` | show past exchanges |
| ` + "`memory`" + ` | show saved notes |
| ` + "`set personality: <text>`" + ` | replace the personality |
| ` + "`models`" + ` | list models |
| ` + "`model: <name or number>`" + ` | switch model |

Messages containing *remember*, *note*, *important*, *save* or *store* are also saved to memory.`

// Options configures a Router.
type Options struct {
	Models             []string // selectable models, first is the default
	MemoryContextChars int      // how much of memory.txt goes into each request
}

// Router dispatches input to the store or the backend.
type Router struct {
	store       *store.Store
	client      llm.Client
	models      []string
	memoryChars int
}

var routerLog = logger.WithPrefix("router")

// New creates a Router over st and client.
func New(st *store.Store, client llm.Client, opts Options) *Router {
	models := opts.Models
	if len(models) == 0 {
		models = []string{client.GetModel()}
	}
	memoryChars := opts.MemoryContextChars
	if memoryChars <= 0 {
		memoryChars = 10000
	}
	return &Router{
		store:       st,
		client:      client,
		models:      models,
		memoryChars: memoryChars,
	}
}

// Route performs the local part of handling input. Commands are matched
// case-insensitively on the trimmed input, in a fixed priority order. Input
// that is not a command comes back as ActionForward; a trigger word also
// appends it to memory first.
func (r *Router) Route(input string) Result {
	query := strings.TrimSpace(input)
	if query == "" {
		return Result{Action: ActionNone}
	}

	switch strings.ToLower(query) {
	case "exit":
		return Result{Action: ActionExit}
	case "clear all":
		if err := r.store.ClearAll(); err != nil {
			return fileError(err)
		}
		return reply(MsgAllCleared)
	case "clear history":
		if err := r.store.History.Truncate(); err != nil {
			return fileError(err)
		}
		return reply(MsgHistoryCleared)
	case "clear memory":
		if err := r.store.Memory.Truncate(); err != nil {
			return fileError(err)
		}
		return reply(MsgMemoryCleared)
	case "clear":
		return Result{Action: ActionClearScreen}
	case "history":
		return r.show(r.store.History, MsgHistoryEmpty)
	case "memory":
		return r.show(r.store.Memory, MsgMemoryEmpty)
	case "help":
		return reply(helpText)
	case "models":
		return reply(r.describeModels())
	}

	if hasPrefixFold(query, personalityPrefix) {
		return r.setPersonality(query[len(personalityPrefix):])
	}
	if hasPrefixFold(query, modelPrefix) {
		if arg := strings.TrimSpace(query[len(modelPrefix):]); r.isModelArg(arg) {
			return r.selectModel(arg)
		}
	}

	res := Result{Action: ActionForward, Query: query}
	if hasTriggerWord(query) {
		if err := r.store.Memory.AppendLine(query); err != nil {
			routerLog.Warn("memory save failed: %v", err)
			res.Warning = apperrors.GetUserMessage(err)
		} else {
			routerLog.Debug("saved note to memory (%d bytes)", len(query))
		}
	}
	return res
}

// Forward sends query to the backend with the rules, personality and recent
// memory as context, and returns the reply text.
func (r *Router) Forward(ctx context.Context, query string) (string, error) {
	personality, err := r.store.Personality.ReadAll()
	if err != nil {
		routerLog.Warn("personality unavailable: %v", err)
		personality = ""
	}
	memory, err := r.store.Memory.ReadTail(r.memoryChars)
	if err != nil {
		routerLog.Warn("memory unavailable: %v", err)
		memory = ""
	}

	messages := []llm.Message{{
		Role:    llm.RoleUser,
		Content: BuildPrompt(strings.TrimSpace(personality), memory, query),
	}}

	routerLog.Debug("forwarding query to %s (%d chars)", r.client.GetModel(), len(query))
	resp, err := r.client.Chat(ctx, messages, SystemPrompt)
	if err != nil {
		routerLog.Error("backend request failed: %v", err)
		return "", err
	}
	routerLog.Debug("reply: %d chars, %d/%d tokens", len(resp.Content), resp.InputTokens, resp.OutputTokens)
	return resp.Content, nil
}

// Record appends a completed exchange to history.txt.
func (r *Router) Record(query, reply string) error {
	return r.store.History.Append(fmt.Sprintf("User: %s\n\n#AI: %s\n\n", query, reply))
}

// Handle routes input and, for forwarded input, waits for the backend reply
// and records the exchange. Line mode uses it directly.
func (r *Router) Handle(ctx context.Context, input string) Result {
	res := r.Route(input)
	if res.Action != ActionForward {
		return res
	}

	answer, err := r.Forward(ctx, res.Query)
	if err != nil {
		return Result{
			Action:  ActionReply,
			Text:    ErrorText(err),
			Warning: res.Warning,
			Err:     err,
		}
	}

	out := Result{Action: ActionReply, Text: answer, Query: res.Query, Warning: res.Warning}
	if err := r.Record(res.Query, answer); err != nil {
		routerLog.Warn("history save failed: %v", err)
		out.Warning = joinWarnings(out.Warning, apperrors.GetUserMessage(err))
	}
	return out
}

// Models returns the selectable models.
func (r *Router) Models() []string {
	return r.models
}

// Model returns the active model.
func (r *Router) Model() string {
	return r.client.GetModel()
}

// NextModel switches to the model after the active one, wrapping around.
func (r *Router) NextModel() string {
	next := r.models[0]
	for i, m := range r.models {
		if m == r.client.GetModel() {
			next = r.models[(i+1)%len(r.models)]
			break
		}
	}
	r.client.SetModel(next)
	routerLog.Info("model switched to %s", next)
	return next
}

// Personality returns the saved personality, or "" when none is set.
func (r *Router) Personality() string {
	p, err := r.store.Personality.ReadAll()
	if err != nil {
		routerLog.Warn("personality unavailable: %v", err)
		return ""
	}
	return strings.TrimSpace(p)
}

// ErrorText formats err for the output area.
func ErrorText(err error) string {
	return "**Error:** " + apperrors.GetUserMessage(err)
}

func (r *Router) show(f *store.File, empty string) Result {
	content, err := f.ReadAll()
	if err != nil {
		return fileError(err)
	}
	if strings.TrimSpace(content) == "" {
		return reply(empty)
	}
	return reply(content)
}

func (r *Router) setPersonality(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return reply(MsgNoPersonality)
	}
	if err := r.store.Personality.Overwrite(text); err != nil {
		return fileError(err)
	}
	routerLog.Info("personality updated")
	return reply(MsgPersonalitySaved)
}

func (r *Router) selectModel(arg string) Result {
	if arg == "" {
		return reply(r.describeModels())
	}

	model := arg
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(r.models) {
			return reply(fmt.Sprintf("**Error:** no model number %d (have 1-%d)", n, len(r.models)))
		}
		model = r.models[n-1]
	}

	r.client.SetModel(model)
	routerLog.Info("model switched to %s", model)
	return reply(fmt.Sprintf("**Model:** `%s`", model))
}

func (r *Router) describeModels() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Model:** `%s`\n\n", r.client.GetModel())
	for i, m := range r.models {
		fmt.Fprintf(&b, "%d. `%s`\n", i+1, m)
	}
	return b.String()
}

func reply(text string) Result {
	return Result{Action: ActionReply, Text: text}
}

func fileError(err error) Result {
	routerLog.Error("%v", err)
	return Result{Action: ActionReply, Text: ErrorText(err), Err: err}
}

// isModelArg reports whether the text after "model:" names a model: nothing,
// a configured model, or a single id such as "meta/llama-3.1-8b-instruct". A
// sentence is chat input and is forwarded.
func (r *Router) isModelArg(arg string) bool {
	if slices.Contains(r.models, arg) {
		return true
	}
	return !strings.ContainsFunc(arg, unicode.IsSpace)
}

// hasPrefixFold is strings.HasPrefix ignoring case, for ASCII prefixes
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func joinWarnings(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
