// Package repl implements an interactive console for composing templates.
//
// In eval mode each submitted line is rendered as a template against the
// session environment, and the variables it depends on are listed below the
// result. Esc switches to command mode, which edits the environment and
// inspects the variant's functions.
package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tmplvars/cli/cmd/environ"
	"github.com/ardnew/tmplvars/log"
	"github.com/ardnew/tmplvars/tmpl"
)

// templateName is the name REPL input is parsed under.
const templateName = "repl"

// editEnvMsg is sent when environment editing completes successfully.
type editEnvMsg struct{ env tmpl.Environment }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a decode
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for another reason.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help           Print this cruft
  vars           List the variables of the last template
  funcs          List the available functions
  env            Print the environment as YAML
  set KEY=EXPR   Set KEY to the value of an expr-lang expression
  unset KEY      Remove KEY from the environment
  edit           Edit the environment in $EDITOR
  clear          Clear screen
  quit           Exit REPL

Usage:
  Type a template to render it, e.g. {{getv "name" "world"}}
  Completions appear inside {{ }} actions as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	ex           *tmpl.Extractor
	env          tmpl.Environment
	vars         []tmpl.VariableInfo // variables of the last evaluated template
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	saved        [2]savedInput // per-mode input preserved across toggles
}

// savedInput is the input line of a mode that is not active.
type savedInput struct {
	text   string
	cursor int
}

// Run starts the REPL. History is kept in cacheDir.
func Run(
	ctx context.Context,
	ex *tmpl.Extractor,
	env tmpl.Environment,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if ex == nil {
		return ErrNoExtractor
	}

	if env == nil {
		env = tmpl.Environment{}
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("env_keys", len(env)),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, ex, env, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	ex *tmpl.Extractor,
	env tmpl.Environment,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		ex:         ex,
		env:        env,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editEnvMsg:
		clear(m.env)
		environ.Merge(m.env, msg.env)
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("env_keys", len(m.env)),
		)

		return m, tea.Println(resultStyle.Render("✔ environment updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine renders the line below the input: the history position, a usage
// hint, the signature of the function under the cursor, or completions.
func (m model) hintLine() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			return hintStyle.Render("Type a template or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && !m.tabActive {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if params, ok := getSignature(m.ex.Registry(), call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1, false), nil

	case tea.KeyDown:
		return m.recall(1, false), nil

	case tea.KeyShiftUp:
		return m.recall(-1, true), nil

	case tea.KeyShiftDown:
		return m.recall(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Other keys (backspace, delete, arrows) edit without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the selected completion candidate by step, starting a tab
// cycle if none is active. A lone candidate is accepted immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n
	case step > 0:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = n - 1
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	end := min(m.wordEnd, len(input))
	start := min(m.wordStart, end)

	m.input.SetValue(input[:start] + replacement + input[end:])
	m.input.SetCursor(start + len(replacement))

	m.wordEnd = start + len(replacement)
}

// refreshMatches recomputes fuzzy matches for the current input. With
// autoConfirm, a sole candidate equal to the typed word is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// recall moves through history by step. With sameMode, entries of the other
// mode are skipped; otherwise the input mode follows the recalled entry.
// Moving past the newest entry clears the input.
func (m model) recall(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to mode, preserving each mode's input.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode].text = m.input.Value()
	m.saved[m.mode].cursor = m.input.Position()

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	m.tabActive = false
	refreshMatches(&m, false)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]savedInput{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	out, vars, err := m.evaluate(input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	m.vars = vars

	return m, tea.Sequence(
		echo,
		tea.Println(resultStyle.Render(out)),
		tea.Println(describeVars(vars, m.env)),
	)
}

// evaluate renders source against the environment and extracts its
// variables. The variables are returned even when rendering fails.
func (m model) evaluate(source string) (string, []tmpl.VariableInfo, error) {
	ctx := m.ctxFunc()

	t, err := m.ex.Parse(ctx, templateName, source)
	if err != nil {
		return "", nil, err
	}

	vars := t.WithDefaults()

	var buf bytes.Buffer
	if err := m.ex.Render(ctx, &buf, templateName, source, m.env); err != nil {
		return "", vars, err
	}

	return buf.String(), vars, nil
}

// describeVars lists vars with their resolution: the environment value, the
// literal default, or missing.
func describeVars(vars []tmpl.VariableInfo, env tmpl.Environment) string {
	if len(vars) == 0 {
		return hintStyle.Render("(no variables)")
	}

	var b strings.Builder

	seen := map[string]bool{}

	for _, v := range vars {
		if seen[v.Name] {
			continue
		}

		seen[v.Name] = true

		if b.Len() > 0 {
			b.WriteString(hintStyle.Render(", "))
		}

		switch val, ok := env.Lookup(v.Name); {
		case ok:
			b.WriteString(hintStyle.Render(fmt.Sprintf("%s=%v", v.Name, val)))
		case v.HasDefault():
			b.WriteString(hintStyle.Render(v.String() + " (default)"))
		default:
			b.WriteString(errorStyle.Render(v.Name + " (missing)"))
		}
	}

	return b.String()
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", name),
		slog.String("args", arg),
	)

	reply := func(s string) (model, tea.Cmd) {
		return m, tea.Sequence(echo, tea.Println(s))
	}

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return reply(helpMessage())

	case "v", "vars":
		return reply(describeVars(m.vars, m.env))

	case "f", "funcs":
		return reply(m.listFunctions())

	case "env":
		var buf bytes.Buffer
		if err := environ.Encode(m.ctxFunc(), &buf, m.env); err != nil {
			return reply(errorStyle.Render("error: " + err.Error()))
		}

		if buf.Len() == 0 {
			return reply(hintStyle.Render("(empty environment)"))
		}

		return reply(strings.TrimRight(buf.String(), "\n"))

	case "set":
		if err := environ.Eval(m.env, arg); err != nil {
			return reply(errorStyle.Render("error: " + err.Error()))
		}

		return reply(resultStyle.Render("✔ " + strings.TrimSpace(strings.SplitN(arg, "=", 2)[0])))

	case "unset":
		if arg == "" {
			return reply(errorStyle.Render("usage: unset KEY"))
		}

		delete(m.env, arg)

		return reply(resultStyle.Render("✔ " + arg))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + name + " (try 'help')"),
		)
	}
}

// listFunctions lists the registered functions with their parameters.
func (m model) listFunctions() string {
	reg := m.ex.Registry()

	var b strings.Builder

	for def := range reg.Functions() {
		b.WriteString("  " + signatureNameStyle.Render(def.Name))

		if len(def.Params) > 0 {
			b.WriteString(" " + signatureStyle.Render(strings.Join(def.Params, " ")))
		}

		if def.Description != "" {
			b.WriteString(hintStyle.Render("  " + def.Description))
		}

		b.WriteString("\n")
	}

	builtins := builtinNames()
	slices.Sort(builtins)
	b.WriteString(hintStyle.Render("  builtin: " + strings.Join(builtins, " ")))

	return b.String()
}

func (m model) edit() tea.Cmd {
	cmd := &editEnvCommand{
		env:     m.env,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newEnv == nil:
			return editCancelledMsg{}
		default:
			return editEnvMsg{env: cmd.newEnv}
		}
	})
}
