package chatui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nriassist/internal/assistant"
)

const (
	headerHeight = 2
	footerHeight = 3
	minWidth     = 20
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("25")).Padding(0, 1)
	modeOnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	modeOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	botStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	optionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// turnsMsg carries the outcome of a submit or upload.
type turnsMsg struct {
	turns []assistant.Turn
	err   error
}

// Model is the chat screen over one assistant session.
type Model struct {
	ctx     context.Context
	session *assistant.Session

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	busy   bool
	status string
	failed bool
	width  int
	height int

	open func(path string) (io.ReadCloser, error)
}

// New builds the chat model and greets the customer.
func New(ctx context.Context, session *assistant.Session) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	input := textinput.New()
	input.Placeholder = "Ask about NRI accounts, or /upload <path>"
	input.CharLimit = 500
	input.Prompt = "› "
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	session.Open()
	m := &Model{
		ctx:      ctx,
		session:  session,
		input:    input,
		viewport: viewport.New(80, 20),
		spinner:  spin,
		width:    80,
		height:   20 + headerHeight + footerHeight,
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.setStatus(fmt.Sprintf("Mode: %s", m.session.ToggleMode()), false)
			return m, nil
		case tea.KeyEnter:
			value := m.input.Value()
			m.input.SetValue("")
			return m, m.handleInput(value)
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case turnsMsg:
		m.busy = false
		switch {
		case msg.err == nil:
			m.setStatus("", false)
		case errors.Is(msg.err, assistant.ErrReset):
		case errors.Is(msg.err, assistant.ErrBusy):
			m.setStatus("Still waiting for the previous reply", true)
		default:
			m.setStatus(msg.err.Error(), true)
		}
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleInput interprets slash commands and numbered option picks before
// falling back to a plain submit.
func (m *Model) handleInput(raw string) tea.Cmd {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	if m.busy {
		m.setStatus("Still waiting for the previous reply", true)
		return nil
	}

	command, arg, _ := strings.Cut(text, " ")
	switch strings.ToLower(command) {
	case "/quit", "/exit":
		return tea.Quit
	case "/mode":
		if arg = strings.TrimSpace(arg); arg == "" {
			m.setStatus(fmt.Sprintf("Mode: %s", m.session.ToggleMode()), false)
			return nil
		}
		mode, err := assistant.ParseMode(arg)
		if err == nil {
			err = m.session.SetMode(mode)
		}
		if err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		m.setStatus(fmt.Sprintf("Mode: %s", mode), false)
		return nil
	case "/reset":
		m.session.Reset()
		m.session.Open()
		m.setStatus("Conversation cleared", false)
		m.refresh()
		return nil
	case "/upload":
		return m.upload(strings.TrimSpace(arg))
	}

	if option, ok := m.pickOption(text); ok {
		text = option
	}
	return m.submit(text)
}

func (m *Model) submit(text string) tea.Cmd {
	m.busy = true
	m.setStatus("", false)
	session, ctx := m.session, m.ctx
	return tea.Batch(func() tea.Msg {
		turns, err := session.Submit(ctx, text)
		return turnsMsg{turns: turns, err: err}
	}, m.spinner.Tick)
}

func (m *Model) upload(path string) tea.Cmd {
	if path == "" {
		m.setStatus("Usage: /upload <path>", true)
		return nil
	}
	file, err := m.open(path)
	if err != nil {
		m.setStatus(fmt.Sprintf("Cannot open %s: %v", path, err), true)
		return nil
	}
	m.busy = true
	m.setStatus("", false)
	session, ctx, name := m.session, m.ctx, filepath.Base(path)
	return tea.Batch(func() tea.Msg {
		defer file.Close()
		turns, err := session.Upload(ctx, name, file)
		return turnsMsg{turns: turns, err: err}
	}, m.spinner.Tick)
}

// pickOption maps "2" to the second option of the latest bot turn.
func (m *Model) pickOption(text string) (string, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return "", false
	}
	transcript := m.session.Transcript()
	for i := len(transcript) - 1; i >= 0; i-- {
		turn := transcript[i]
		if turn.Speaker != assistant.SpeakerBot {
			continue
		}
		if n > len(turn.Options) {
			return "", false
		}
		return turn.Options[n-1], true
	}
	return "", false
}

func (m *Model) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

func (m *Model) resize(width, height int) {
	m.width = max(width, minWidth)
	m.height = height
	m.viewport.Width = m.width
	m.viewport.Height = max(height-headerHeight-footerHeight, 3)
	m.input.Width = max(m.width-4, 10)
	m.refresh()
}

func (m *Model) refresh() {
	content := renderTranscript(m.session.Transcript(), m.viewport.Width)
	if m.busy {
		content += "\n" + mutedStyle.Render(m.spinner.View()+" waiting for the assistant…")
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	switch {
	case m.status != "" && m.failed:
		b.WriteString(errorStyle.Render(m.status))
	case m.status != "":
		b.WriteString(mutedStyle.Render(m.status))
	default:
		b.WriteString(mutedStyle.Render("enter send · tab switch mode · 1-9 pick option · /upload <path> · /reset · esc quit"))
	}
	return b.String()
}

func (m *Model) header() string {
	chat, search := modeOffStyle, modeOffStyle
	if m.session.Mode() == assistant.ModeSearch {
		search = modeOnStyle
	} else {
		chat = modeOnStyle
	}
	uploads := ""
	if n := len(m.session.Uploads()); n > 0 {
		uploads = mutedStyle.Render(fmt.Sprintf("  %d uploaded", n))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("NRI Banking Assistant"),
		" ",
		chat.Render("Chat"),
		search.Render("Search"),
		uploads,
	)
}

func renderTranscript(turns []assistant.Turn, width int) string {
	body := lipgloss.NewStyle().Width(max(width-2, minWidth)).PaddingLeft(2)
	blocks := make([]string, 0, len(turns))
	for _, turn := range turns {
		var b strings.Builder
		if turn.Speaker == assistant.SpeakerUser {
			b.WriteString(userStyle.Render("You"))
		} else {
			b.WriteString(botStyle.Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(body.Render(turn.Text))
		for i, option := range turn.Options {
			b.WriteString("\n")
			b.WriteString(body.Render(optionStyle.Render(fmt.Sprintf("%d. %s", i+1, option))))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// Run drives the chat screen until the customer quits or ctx is cancelled.
func Run(ctx context.Context, session *assistant.Session, opts ...tea.ProgramOption) error {
	if session == nil {
		return errors.New("chat requires a session")
	}
	options := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, session), options...).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
