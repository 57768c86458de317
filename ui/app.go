package ui

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pscopilot/chat"
	"pscopilot/tools"
)

// AppView is the terminal chat interface.
type AppView struct {
	orch        *chat.Orchestrator
	transcripts *chat.TranscriptStorage
	modelName   string

	viewport       viewport.Model
	input          textinput.Model
	loadingSpinner spinner.Model

	width  int
	height int
	ready  bool

	// Input history recall with up/down
	inputHistory []string
	historyIdx   int
	draft        string

	// Line-by-line reveal progress per turn
	revealed map[string]int

	// Pending interactive prompt
	prompt       *tools.Continuation
	promptTurnID string
	answered     map[string]bool

	status string
}

// NewAppView creates the chat interface over an orchestrator.
func NewAppView(orch *chat.Orchestrator, transcripts *chat.TranscriptStorage, modelName string) *AppView {
	input := textinput.New()
	input.Placeholder = "Describe a problem, or type 'help'"
	input.CharLimit = 0
	input.Focus()

	loadingSpinner := spinner.New()
	loadingSpinner.Spinner = spinner.Dot
	loadingSpinner.Style = lipgloss.NewStyle().Foreground(accentColor)

	return &AppView{
		orch:           orch,
		transcripts:    transcripts,
		modelName:      modelName,
		input:          input,
		loadingSpinner: loadingSpinner,
		historyIdx:     -1,
		revealed:       make(map[string]int),
		answered:       make(map[string]bool),
	}
}

// Run starts the program and blocks until it exits.
func Run(orch *chat.Orchestrator, transcripts *chat.TranscriptStorage, modelName string) error {
	app := NewAppView(orch, transcripts, modelName)
	p := tea.NewProgram(app, tea.WithAltScreen())
	orch.Transcript().OnChange(func() {
		p.Send(transcriptChangedMsg{})
	})
	_, err := p.Run()
	return err
}

func (a *AppView) Init() tea.Cmd {
	return textinput.Blink
}

func (a *AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		viewportHeight := msg.Height - 4
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !a.ready {
			a.viewport = viewport.New(msg.Width, viewportHeight)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = viewportHeight
		}
		a.input.Width = msg.Width - 4
		a.refreshContent()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		if a.orch.Busy() {
			return a, cmd
		}
		return a, nil

	case transcriptChangedMsg:
		cmds := a.scheduleReveals()
		a.detectPrompt()
		a.refreshContent()
		return a, tea.Batch(cmds...)

	case revealTickMsg:
		return a, a.advanceReveal(msg.turnID)

	case submitDoneMsg:
		a.detectPrompt()
		a.refreshContent()
		return a, nil

	case attachResultMsg:
		if msg.err != nil {
			a.status = ErrorStyle.Render("attach failed: " + msg.err.Error())
		} else {
			a.status = DimStyle.Render("attached " + msg.path)
		}
		return a, nil

	case transcriptSavedMsg:
		if msg.err != nil {
			a.status = ErrorStyle.Render("save failed: " + msg.err.Error())
		} else {
			a.status = DimStyle.Render("conversation saved")
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "ctrl+s":
		return a, a.saveTranscriptCmd()

	case "ctrl+o":
		a.restoreLastTranscript()
		return a, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case "up":
		a.recallOlder()
		return a, nil

	case "down":
		a.recallNewer()
		return a, nil

	case "enter":
		return a.handleEnter()
	}

	// Digit keys answer a pending prompt.
	if a.prompt != nil {
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(a.prompt.Choices) {
			return a, a.chooseCmd(a.prompt.Choices[n-1])
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *AppView) handleEnter() (tea.Model, tea.Cmd) {
	if a.orch.Busy() {
		return a, nil
	}

	text := strings.TrimSpace(a.input.Value())
	a.input.SetValue("")
	a.status = ""

	if text != "" {
		a.inputHistory = append(a.inputHistory, text)
	}
	a.historyIdx = -1
	a.draft = ""

	if strings.HasPrefix(text, "/attach ") {
		path := strings.TrimSpace(strings.TrimPrefix(text, "/attach "))
		return a, attachImageCmd(a.orch, path)
	}

	if text == "" && a.orch.Attachment() == "" {
		return a, nil
	}

	return a, tea.Batch(
		a.loadingSpinner.Tick,
		func() tea.Msg {
			a.orch.Submit(context.Background(), chat.Submission{Text: text})
			return submitDoneMsg{}
		},
	)
}

func (a *AppView) chooseCmd(choice tools.Choice) tea.Cmd {
	a.answered[a.promptTurnID] = true
	a.prompt = nil
	a.promptTurnID = ""
	sub := chat.Resolve(choice)
	return tea.Batch(
		a.loadingSpinner.Tick,
		func() tea.Msg {
			a.orch.Submit(context.Background(), sub)
			return submitDoneMsg{}
		},
	)
}

func (a *AppView) recallOlder() {
	if len(a.inputHistory) == 0 {
		return
	}
	if a.historyIdx == -1 {
		a.draft = a.input.Value()
		a.historyIdx = len(a.inputHistory) - 1
	} else if a.historyIdx > 0 {
		a.historyIdx--
	}
	a.input.SetValue(a.inputHistory[a.historyIdx])
	a.input.CursorEnd()
}

func (a *AppView) recallNewer() {
	if a.historyIdx == -1 {
		return
	}
	if a.historyIdx < len(a.inputHistory)-1 {
		a.historyIdx++
		a.input.SetValue(a.inputHistory[a.historyIdx])
	} else {
		a.historyIdx = -1
		a.input.SetValue(a.draft)
	}
	a.input.CursorEnd()
}

// scheduleReveals starts the reveal ticker for any tool output that asked
// for line-by-line display and has not started revealing yet.
func (a *AppView) scheduleReveals() []tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range a.orch.Transcript().Turns() {
		if t.Reveal == nil || len(t.Reveal.Lines) == 0 {
			continue
		}
		if _, started := a.revealed[t.ID]; started {
			continue
		}
		a.revealed[t.ID] = 0
		id := t.ID
		cmds = append(cmds, tea.Tick(t.Reveal.Interval, func(_ time.Time) tea.Msg {
			return revealTickMsg{turnID: id}
		}))
	}
	return cmds
}

func (a *AppView) advanceReveal(turnID string) tea.Cmd {
	var reveal *tools.Display
	for _, t := range a.orch.Transcript().Turns() {
		if t.ID == turnID {
			reveal = t.Reveal
			break
		}
	}
	if reveal == nil {
		return nil
	}

	a.revealed[turnID]++
	a.refreshContent()

	if a.revealed[turnID] >= len(reveal.Lines) {
		return nil
	}
	return tea.Tick(reveal.Interval, func(_ time.Time) tea.Msg {
		return revealTickMsg{turnID: turnID}
	})
}

// detectPrompt finds the most recent unanswered interactive prompt.
func (a *AppView) detectPrompt() {
	turns := a.orch.Transcript().Turns()
	a.prompt = nil
	a.promptTurnID = ""
	for i := len(turns) - 1; i >= 0; i-- {
		t := turns[i]
		if t.Prompt != nil && !a.answered[t.ID] {
			a.prompt = t.Prompt
			a.promptTurnID = t.ID
			return
		}
	}
}

func (a *AppView) refreshContent() {
	if !a.ready {
		return
	}
	a.viewport.SetContent(a.renderTranscript())
	a.viewport.GotoBottom()
}

func (a *AppView) renderTranscript() string {
	var b strings.Builder
	for _, t := range a.orch.Transcript().Turns() {
		switch t.Kind {
		case chat.KindWelcome:
			b.WriteString(DimStyle.Render(t.Text))
			b.WriteString("\n\n")

		case chat.KindUserText:
			b.WriteString(UserStyle.Render("> " + t.Text))
			if t.Image != "" {
				b.WriteString(DimStyle.Render("  [image attached]"))
			}
			b.WriteString("\n")

		case chat.KindModelText:
			if t.Text == "" {
				continue
			}
			style := AssistantStyle
			if t.IsError {
				style = ErrorStyle
			} else if t.Analysis {
				style = AnalysisStyle
			}
			b.WriteString(style.Render(t.Text))
			b.WriteString("\n\n")

		case chat.KindFunctionCall:
			b.WriteString(DimStyle.Render("$ " + t.Text))
			b.WriteString("\n")
			b.WriteString(a.renderOutput(t))
			b.WriteString("\n")
			if t.Prompt != nil && t.ID == a.promptTurnID {
				b.WriteString(a.renderPrompt(t.Prompt))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func (a *AppView) renderOutput(t chat.Turn) string {
	if t.IsError {
		return ErrorStyle.Render(t.Output) + "\n"
	}
	if t.Reveal != nil && len(t.Reveal.Lines) > 0 {
		shown := a.revealed[t.ID]
		if shown > len(t.Reveal.Lines) {
			shown = len(t.Reveal.Lines)
		}
		if shown == 0 {
			return ""
		}
		return strings.Join(t.Reveal.Lines[:shown], "\n") + "\n"
	}
	if t.Output == "" {
		return ""
	}
	return t.Output + "\n"
}

func (a *AppView) renderPrompt(p *tools.Continuation) string {
	var b strings.Builder
	b.WriteString(PromptStyle.Render(p.Message))
	b.WriteString("\n")
	for i, c := range p.Choices {
		b.WriteString(fmt.Sprintf("  [%d] %s", i+1, c.Label))
	}
	return b.String()
}

func (a *AppView) View() string {
	if !a.ready {
		return "Initializing..."
	}

	model := a.modelName
	if a.width > 14 {
		model = runewidth.Truncate(model, a.width-14, "…")
	}
	header := TitleStyle.Render("PS Copilot") + StatusStyle.Render("  "+model)

	statusLine := a.status
	if a.orch.Busy() {
		statusLine = a.loadingSpinner.View() + StatusStyle.Render(" working...")
	}

	return header + "\n" +
		a.viewport.View() + "\n" +
		statusLine + "\n" +
		"> " + a.input.View()
}

func (a *AppView) saveTranscriptCmd() tea.Cmd {
	if a.transcripts == nil {
		return nil
	}
	turns := a.orch.Transcript().Turns()
	name := ""
	for _, t := range turns {
		if t.Kind == chat.KindUserText {
			name = t.Text
			break
		}
	}
	saved := &chat.SavedTranscript{
		Name:  chat.GenerateTranscriptName(name),
		Model: a.modelName,
		Turns: turns,
	}
	return func() tea.Msg {
		if err := a.transcripts.Save(saved); err != nil {
			return transcriptSavedMsg{err: err}
		}
		if err := a.transcripts.SaveCurrentID(saved.ID); err != nil {
			return transcriptSavedMsg{err: err}
		}
		return transcriptSavedMsg{id: saved.ID}
	}
}

func (a *AppView) restoreLastTranscript() {
	if a.transcripts == nil {
		return
	}
	id, err := a.transcripts.LoadCurrentID()
	if err != nil {
		a.status = DimStyle.Render("no saved conversation")
		return
	}
	saved, err := a.transcripts.Load(id)
	if err != nil {
		a.status = ErrorStyle.Render("restore failed: " + err.Error())
		return
	}
	a.orch.Transcript().Restore(saved.Turns)
	a.status = DimStyle.Render("restored " + saved.Name)
}

// attachImageCmd reads an image file and stages it as a data URL on the
// orchestrator.
func attachImageCmd(orch *chat.Orchestrator, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return attachResultMsg{path: path, err: err}
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "image/png"
		}
		dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
		orch.SetAttachment(dataURL)
		return attachResultMsg{path: path}
	}
}
