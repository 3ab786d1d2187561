package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/log"
)

// editRanMsg is sent when edited source was run in the session.
type editRanMsg struct {
	source string
	result runtime.Value
	err    error
}

// editCancelledMsg is sent when the user cleared the editor content or
// declined to re-edit after a syntax error.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process itself fails.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const previewWidth = 60

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help         Print this message
  list         List session variables with their values
  load FILE    Run a script file in the session
  edit         Write source in $EDITOR and run it in the session
  clear        Clear screen
  quit         Exit

Usage:
  Type a command or expression to run it; the final ';' may be omitted
  Variables declared with var persist for the rest of the session
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
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
	outputStyle     = lipgloss.NewStyle()
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// describeError renders err for display. Lexical and syntax errors are
// followed by the offending source line with a caret under the error column.
func describeError(err error) string {
	var syntax interface{ Snippet() string }
	if errors.As(err, &syntax) {
		if snippet := syntax.Snippet(); snippet != "" {
			return err.Error() + "\n" + snippet
		}
	}

	return err.Error()
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *lang.Session
	output       *bytes.Buffer // script output not yet shown
	logger       log.Logger
	history      *History
	historyIdx   int
	lastSource   string        // most recent input run in eval mode
	matches      fuzzy.Matches // current fuzzy match results
	parent       string        // member chain the current word completes
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL on session. Script output written by the session
// must go to output, which is drained after each input. History is kept in
// cacheDir, or only in memory when cacheDir is empty.
func Run(
	ctx context.Context,
	session *lang.Session,
	output *bytes.Buffer,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
	)

	if session == nil {
		return ErrNoSession
	}

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, session, output, history, logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *lang.Session,
	output *bytes.Buffer,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	if output == nil {
		output = new(bytes.Buffer)
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		output:     output,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	// Output from preloaded scripts is shown before the first prompt.
	if text := m.drainOutput(); text != "" {
		return tea.Batch(textinput.Blink, tea.Println(outputStyle.Render(text)))
	}

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

	case editRanMsg:
		m.lastSource = msg.source
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Bool("failed", msg.err != nil),
		)

		return m, m.report(msg.result, msg.err)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("error: " + msg.err.Error()),
		)
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

	input := m.input.Value()
	viewingHistory := m.historyIdx < m.history.Len()
	funcCall := detectFunctionCall(input, m.input.Position())

	var hint string

	switch {
	case viewingHistory:
		hint = hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			hint = hintStyle.Render("Type a command or expression, or press Esc for commands")
		} else {
			hint = hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
		}

	case funcCall.inCall && m.mode == modeEval && !m.tabActive:
		if signature, params := getSignature(m.session, funcCall.name); signature != "" {
			hint = renderSignatureHint(signature, params, funcCall.argIndex)

			break
		}

		fallthrough

	default:
		hint = renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width,
			func(name string) bool { return callable(m.session, m.parent, name) },
		)
	}

	b.WriteString(hint)
	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
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
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyStep(-1, false)

	case tea.KeyDown:
		return m.historyStep(1, false)

	case tea.KeyShiftUp:
		return m.historyStep(-1, true)

	case tea.KeyShiftDown:
		return m.historyStep(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
		// Space breaks out of tab-cycling, keeping the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step through the candidates, starting
// a tab cycle if none is active.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.parent, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	if m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// drainOutput returns and clears the script output collected since the
// last call, without its final newline.
func (m model) drainOutput() string {
	text := strings.TrimSuffix(m.output.String(), "\n")
	m.output.Reset()

	return text
}

// report prints any pending script output followed by the result of an
// evaluation or its error.
func (m model) report(result runtime.Value, err error) tea.Cmd {
	var cmds []tea.Cmd

	if text := m.drainOutput(); text != "" {
		cmds = append(cmds, tea.Println(outputStyle.Render(text)))
	}

	switch {
	case err != nil:
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("result_type", "error"),
			slog.String("error", err.Error()),
		)

		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+describeError(err))))

	case result == runtime.Undefined:
		cmds = append(cmds, tea.Println(hintStyle.Render(lang.FormatResult(result))))

	default:
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("result_type", runtime.TypeOf(result)),
		)

		cmds = append(cmds, tea.Println(resultStyle.Render(lang.FormatResult(result))))
	}

	return tea.Sequence(cmds...)
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	m.lastSource = input
	result, err := m.session.Eval(m.ctxFunc(), input)

	return m, tea.Sequence(tea.Println(formatCommand(input)), m.report(result, err))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listVariables()))

	case "load":
		return m, tea.Sequence(echoCmd, m.load(args))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// load runs each named script in the session, stopping at the first
// failure.
func (m model) load(paths []string) tea.Cmd {
	if len(paths) == 0 {
		return tea.Println(errorStyle.Render("usage: load FILE..."))
	}

	var (
		result runtime.Value
		err    error
	)

	for _, path := range paths {
		var data []byte

		data, err = os.ReadFile(path)
		if err != nil {
			break
		}

		result, err = m.session.Exec(m.ctxFunc(), string(data))
		if err != nil {
			err = fmt.Errorf("%s: %w", path, err)

			break
		}
	}

	return m.report(result, err)
}

// edit opens the most recent input in the user's editor.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		draft:   lang.Terminate(m.lastSource),
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case cmd.ran:
			return editRanMsg{source: cmd.source, result: cmd.result, err: err}
		case errors.Is(err, ErrEditDeclined), err == nil:
			return editCancelledMsg{}
		default:
			return editErrorMsg{err: err}
		}
	})
}

// historyStep moves through history by step entries. When sameMode is set,
// entries from the other mode are skipped; otherwise the mode follows the
// entry. Stepping past the newest entry clears the input.
func (m model) historyStep(step int, sameMode bool) (model, tea.Cmd) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if m.mode != entry.Mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

func (m model) listVariables() string {
	var b strings.Builder

	for _, name := range m.session.Variables() {
		v, _ := m.session.Value(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(formatPreview(v, previewWidth)))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no variables)")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
