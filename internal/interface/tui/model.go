package tui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/agent"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/manager"
)

type focusArea int

const (
	focusList focusArea = iota
	focusInput
)

const sidebarWidth = 34

// Model is the chat client. It renders whatever the manager last
// notified; all conversation state lives in the manager, not here.
type Model struct {
	mgr       *manager.Manager
	responder agent.Responder
	agentOpts agent.Options

	state    manager.State
	focus    focusArea
	list     list.Model
	viewport viewport.Model
	input    textarea.Model

	width  int
	height int
	ready  bool

	err    error
	status string
}

// New builds the chat model around an already-constructed manager.
func New(mgr *manager.Manager, responder agent.Responder, opts agent.Options) Model {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	return Model{
		mgr:       mgr,
		responder: responder,
		agentOpts: opts,
		focus:     focusInput,
		input:     input,
		state:     mgr.State(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, initialLoad(m.mgr))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refreshViews()
		return m, nil

	case stateChangedMsg:
		m.state = msg.state
		if msg.state.Error == "" {
			m.err = nil
		}
		m.refreshViews()
		return m, nil

	case agentReplyMsg:
		return m, resolveReply(m.mgr, msg)

	case errMsg:
		m.err = msg.err
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.focus == focusList {
			m.focus = focusInput
			m.input.Focus()
		} else {
			m.focus = focusList
			m.input.Blur()
		}
		return m, nil

	case "ctrl+n":
		return m, createSession(m.mgr)
	}

	if m.focus == focusList {
		return m.handleListKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "enter":
		if selected, ok := m.list.SelectedItem().(sessionListItem); ok {
			return m, selectSession(m.mgr, selected.session.ID)
		}
		return m, nil

	case "d":
		if selected, ok := m.list.SelectedItem().(sessionListItem); ok {
			return m, deleteSession(m.mgr, selected.session.ID)
		}
		return m, nil

	case "y":
		if selected, ok := m.list.SelectedItem().(sessionListItem); ok {
			if err := clipboard.WriteAll(selected.session.ID); err != nil {
				m.status = "Session ID: " + selected.session.ID
			} else {
				m.status = "Session ID copied"
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusList
		m.input.Blur()
		return m, nil

	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.input.Reset()
		m.status = ""
		return m, sendQuery(m.mgr, m.responder, m.agentOpts, query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) resize() {
	chatWidth := m.width - sidebarWidth - 4
	if chatWidth < 20 {
		chatWidth = 20
	}
	chatHeight := m.height - m.input.Height() - 4
	if chatHeight < 5 {
		chatHeight = 5
	}

	m.viewport = viewport.New(chatWidth, chatHeight)
	m.input.SetWidth(chatWidth)
}

// refreshViews rebuilds the session list and chat transcript from the
// latest snapshot, keeping the cursor on the same session when it
// still exists.
func (m *Model) refreshViews() {
	if !m.ready {
		return
	}

	selectedID := ""
	if item, ok := m.list.SelectedItem().(sessionListItem); ok {
		selectedID = item.session.ID
	}

	activeID := ""
	if m.state.CurrentSession != nil {
		activeID = m.state.CurrentSession.ID
	}
	m.list = createSessionList(m.state.Sessions, activeID, sidebarWidth, m.height-3)

	for i, s := range m.state.Sessions {
		if s.ID == selectedID {
			m.list.Select(i)
			break
		}
	}

	m.viewport.SetContent(renderTranscript(m.state, m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	sidebar := blurredBorderStyle.Width(sidebarWidth).Render(m.list.View())
	chat := blurredBorderStyle.Width(m.viewport.Width).Render(m.viewport.View())
	inputBox := blurredBorderStyle.Width(m.viewport.Width).Render(m.input.View())
	if m.focus == focusList {
		sidebar = focusedBorderStyle.Width(sidebarWidth).Render(m.list.View())
	} else {
		inputBox = focusedBorderStyle.Width(m.viewport.Width).Render(m.input.View())
	}

	right := lipgloss.JoinVertical(lipgloss.Left, chat, inputBox)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, right)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: " + m.err.Error())
	case m.state.Error != "":
		return errorStyle.Render("Error: " + m.state.Error)
	case m.state.IsLoading:
		return loadingStyle.Render("Working...")
	case m.status != "":
		return statusStyle.Render(m.status)
	default:
		return statusStyle.Render("tab: switch focus | ctrl+n: new chat | enter: send/select | d: delete | y: copy id | ctrl+c: quit")
	}
}
