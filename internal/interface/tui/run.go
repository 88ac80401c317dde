package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/agent"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/manager"
)

// Run starts the chat client over a manager. It subscribes to the
// manager for the lifetime of the program, forwarding every state
// snapshot into the update loop, and unsubscribes on exit.
func Run(mgr *manager.Manager, responder agent.Responder, opts agent.Options) error {
	m := New(mgr, responder, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	unsubscribe := mgr.Subscribe(func(state manager.State) {
		p.Send(stateChangedMsg{state: state})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

// Commands wrapping manager operations. Errors surface through errMsg;
// successful mutations arrive back as stateChangedMsg via the
// subscription.

func createSession(mgr *manager.Manager) tea.Cmd {
	return func() tea.Msg {
		if _, err := mgr.CreateSession(""); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func selectSession(mgr *manager.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.SelectSession(id); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func deleteSession(mgr *manager.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.DeleteSession(id); err != nil {
			return errMsg{err}
		}
		return nil
	}
}
