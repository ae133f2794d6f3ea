package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/vask/internal/controller"
	"github.com/Zuo-Peng/vask/internal/render"
	"github.com/Zuo-Peng/vask/internal/session"
)

type focusArea int

const (
	focusURL focusArea = iota
	focusQuestion
	focusFollowUp
	focusAnswer
	focusCount
)

// handler is the part of the controller the model drives.
type handler interface {
	HandleSubmit(ctx context.Context, videoURL, question string)
	HandleFollowUp(ctx context.Context, videoURL, followUp string)
	SessionID() string
}

// model

type model struct {
	ctx     context.Context
	ctl     handler
	inputs  [3]textinput.Model // url, question, follow-up
	spinner spinner.Model
	answer  viewport.Model
	focus   focusArea

	loading       bool
	errVisible    bool
	errText       string
	resultVisible bool
	rawAnswer     string
	status        string

	width    int
	height   int
	ready    bool
	quitting bool
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPromptBlurred
	ti.TextStyle = styleInput
	ti.CharLimit = 2048
	return ti
}

func initialModel(ctx context.Context, ctl handler, videoURL string) model {
	m := model{
		ctx: ctx,
		ctl: ctl,
		inputs: [3]textinput.Model{
			newInput("https://www.youtube.com/watch?v=..."),
			newInput("What is this video about?"),
			newInput("Ask a follow-up..."),
		},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleLoading)),
		answer:  viewport.New(0, 0),
	}
	m.inputs[0].SetValue(videoURL)
	if videoURL != "" {
		m.focus = focusQuestion
	}
	m.applyFocus()
	return m
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, asker controller.Asker, videoURL string, opts ...controller.Option) error {
	view := &programView{}
	ctl := controller.New(asker, view, session.NewGenerator(), opts...)

	m := initialModel(ctx, ctl, videoURL)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	view.send = p.Send

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.answer = newViewport(m.answerWidth(), m.answerHeight())
		m.renderAnswer()
		for i := range m.inputs {
			m.inputs[i].Width = m.answerWidth() - 14
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd

	case showLoadingMsg:
		m.loading = true
		m.errVisible = false
		m.status = ""
		return m, m.spinner.Tick

	case hideLoadingMsg:
		m.loading = false
		return m, nil

	case showErrorMsg:
		m.errText = msg.message
		m.errVisible = true
		m.loading = false
		return m, nil

	case displayAnswerMsg:
		m.rawAnswer = msg.answer
		m.resultVisible = true
		m.errVisible = false
		m.renderAnswer()
		// focus stays put so a follow-up can be typed right away
		m.answer.GotoTop()
		return m, nil

	case clearFollowUpMsg:
		m.inputs[focusFollowUp].Reset()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Answer copied to clipboard"
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

	cmd := m.updateFocusedInput(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Next):
		m.focus = (m.focus + 1) % focusCount
		cmd := m.applyFocus()
		return m, cmd

	case key.Matches(msg, keys.Prev):
		m.focus = (m.focus + focusCount - 1) % focusCount
		cmd := m.applyFocus()
		return m, cmd

	case key.Matches(msg, keys.Enter):
		switch m.focus {
		case focusURL, focusQuestion:
			return m, m.submitCmd()
		case focusFollowUp:
			return m, m.followUpCmd()
		}
		return m, nil

	case key.Matches(msg, keys.Copy):
		if m.rawAnswer == "" {
			return m, nil
		}
		return m, copyAnswerCmd(m.rawAnswer)

	case key.Matches(msg, keys.AnswerUp):
		m.answer.LineUp(m.answerHeight() / 2)
		return m, nil

	case key.Matches(msg, keys.AnswerDn):
		m.answer.LineDown(m.answerHeight() / 2)
		return m, nil

	case key.Matches(msg, keys.PageUp):
		m.answer.LineUp(m.answerHeight())
		return m, nil

	case key.Matches(msg, keys.PageDown):
		m.answer.LineDown(m.answerHeight())
		return m, nil
	}

	if m.focus == focusAnswer {
		switch {
		case key.Matches(msg, keys.LineUp):
			m.answer.LineUp(1)
		case key.Matches(msg, keys.LineDown):
			m.answer.LineDown(1)
		}
		return m, nil
	}

	cmd := m.updateFocusedInput(msg)
	return m, cmd
}

// updateFocusedInput passes msg to the focused text input, if any.
func (m *model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if m.focus == focusAnswer {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

// applyFocus focuses the input matching m.focus and blurs the others.
func (m *model) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if focusArea(i) == m.focus {
			cmd = m.inputs[i].Focus()
			m.inputs[i].PromptStyle = styleInputPrompt
			continue
		}
		m.inputs[i].Blur()
		m.inputs[i].PromptStyle = styleInputPromptBlurred
	}
	return cmd
}

// submitCmd runs a primary submission off the update loop. Input values are
// read here so the controller never touches model state.
func (m model) submitCmd() tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	videoURL := m.inputs[focusURL].Value()
	question := m.inputs[focusQuestion].Value()
	return func() tea.Msg {
		ctl.HandleSubmit(ctx, videoURL, question)
		return nil
	}
}

func (m model) followUpCmd() tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	videoURL := m.inputs[focusURL].Value()
	followUp := m.inputs[focusFollowUp].Value()
	return func() tea.Msg {
		ctl.HandleFollowUp(ctx, videoURL, followUp)
		return nil
	}
}

func copyAnswerCmd(answer string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(answer)}
	}
}

// renderAnswer highlights timestamps and wraps the answer to the panel width.
func (m *model) renderAnswer() {
	if !m.resultVisible {
		m.answer.SetContent("")
		return
	}
	content := render.Highlight(m.rawAnswer, func(ts string) string {
		return styleTimestamp.Render(ts)
	})
	m.answer.SetContent(render.Wrap(content, m.answerWidth()))
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	w := m.answerWidth()

	header := styleTitle.Render("vask") + " " +
		lipgloss.NewStyle().Foreground(colorDim).Render("session "+m.ctl.SessionID())

	urlRow := fieldLabel("Video URL") + m.inputs[focusURL].View()
	questionRow := fieldLabel("Question") + m.inputs[focusQuestion].View()
	followRow := fieldLabel("Follow-up") + m.inputs[focusFollowUp].View()

	// loading and error share one line; the error wins when both are set
	var stateRow string
	switch {
	case m.errVisible:
		stateRow = styleError.Render(m.errText)
	case m.loading:
		stateRow = m.spinner.View() + styleLoading.Render(" Asking...")
	}

	border := stylePanelBorder
	if m.focus == focusAnswer {
		border = styleActiveBorder
	}
	var body string
	if m.resultVisible {
		m.answer.Width = w
		m.answer.Height = m.answerHeight()
		body = m.answer.View()
	} else {
		body = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(w).
			Height(m.answerHeight()).
			Align(lipgloss.Center, lipgloss.Center).
			Render("Enter a video URL and a question, then press Enter")
	}
	panel := border.Width(w).Height(m.answerHeight()).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		header, urlRow, questionRow, stateRow, panel, followRow, m.statusBar())
}

func fieldLabel(s string) string {
	return styleTitle.Render(fmt.Sprintf("%-10s", s)) + " "
}

// helper methods

func (m model) answerWidth() int {
	if m.width <= 0 {
		return 80
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) answerHeight() int {
	if m.height <= 0 {
		return 20
	}
	// header, url, question, state, follow-up, status bar (6) + borders (2)
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (m model) statusBar() string {
	var parts []string
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if m.resultVisible {
		parts = append(parts, fmt.Sprintf("%d timestamps", len(render.Timestamps(m.rawAnswer))))
	}
	parts = append(parts, "tab switch field")
	parts = append(parts, "Enter ask")
	parts = append(parts, "C-u/C-d scroll")
	parts = append(parts, "C-y copy")
	parts = append(parts, "Esc quit")
	return styleStatusBar.Render(strings.Join(parts, " | "))
}
