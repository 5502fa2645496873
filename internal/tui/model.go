// Package tui is the terminal front end: a chat loop over one session.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pondworks/waldenbot/internal/domain/usecases"
)

var (
	personaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	chatBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Model is the Bubble Tea model for the chat TUI. One turn is processed
// fully - retrieve, compose, generate - before the next input is accepted.
type Model struct {
	session  *usecases.Session
	input    textinput.Model
	viewport viewport.Model
	lines    []string
	ready    bool
	closed   bool
}

// New creates the TUI over a ready session and shows its greeting.
func New(session *usecases.Session) Model {
	ti := textinput.New()
	ti.Prompt = "You: "
	ti.Placeholder = "Share your thoughts..."
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)

	m := Model{session: session, input: ti, viewport: vp}
	m.appendPersona(session.Greeting())
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and drives the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		vh := msg.Height - ch - ih - 3 // header + spacer + input line
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		// Interrupt closes with the distinct abort farewell.
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			if farewell := m.session.Interrupt(); farewell != "" {
				m.appendPersona(farewell)
			}
			m.closed = true
			m.refresh()
			return m, tea.Quit
		}
		if m.closed {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			return m.submit()
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs one conversational turn. The generation call blocks; the next
// input is only accepted once it resolves.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.lines = append(m.lines, userStyle.Render("You: ")+text)
	m.input.SetValue("")

	result := m.session.Step(context.Background(), text)
	m.appendPersona(result.Reply)
	if result.Err != nil {
		// Raw detail stays visually separate from the persona's voice.
		m.lines = append(m.lines, detailStyle.Render("[system: "+result.Err.Error()+"]"))
	}
	m.refresh()

	if result.Closed {
		m.closed = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the chat transcript above the input box.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := personaStyle.Render(m.session.Persona().Name + " Companion")
	chat := chatBoxStyle.Render(m.viewport.View())
	if m.closed {
		return header + "\n" + chat + "\n"
	}
	return header + "\n" + chat + "\n" + inputStyle.Render(m.input.View())
}

func (m *Model) appendPersona(text string) {
	if text == "" {
		return
	}
	m.lines = append(m.lines, personaStyle.Render(m.session.Persona().Name+": ")+text)
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n\n"))
	m.viewport.GotoBottom()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
