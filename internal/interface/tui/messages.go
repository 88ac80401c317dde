package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/agent"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/manager"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

type errMsg struct {
	err error
}

// stateChangedMsg carries a fresh manager snapshot into the program.
// It is produced by the subscription wired up in Run.
type stateChangedMsg struct {
	state manager.State
}

// agentReplyMsg resolves the loading placeholder once the responder
// returns.
type agentReplyMsg struct {
	messageID string
	resp      *agent.Response
	err       error
}

type statusMsg struct {
	text string
}

// initialLoad mirrors the guard the UI binding applies on mount: only
// initialize when there is nothing loaded, nothing loading, and no
// recorded error.
func initialLoad(mgr *manager.Manager) tea.Cmd {
	return func() tea.Msg {
		st := mgr.State()
		if len(st.Sessions) > 0 || st.IsLoading || st.Error != "" {
			return nil
		}
		if err := mgr.Initialize(); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// sendQuery appends the user message plus a loading assistant
// placeholder, then asks the responder for the reply. A session is
// created lazily when none is active.
func sendQuery(mgr *manager.Manager, responder agent.Responder, opts agent.Options, query string) tea.Cmd {
	return func() tea.Msg {
		if mgr.State().CurrentSession == nil {
			if _, err := mgr.CreateSession(""); err != nil {
				return errMsg{err}
			}
		}

		if _, err := mgr.AddMessage(manager.MessageInput{
			Role:    models.RoleUser,
			Content: query,
		}); err != nil {
			return errMsg{err}
		}

		placeholder, err := mgr.AddMessage(manager.MessageInput{
			Role:      models.RoleAssistant,
			IsLoading: true,
		})
		if err != nil {
			return errMsg{err}
		}

		opts.SessionID = placeholder.SessionID
		resp, err := responder.Respond(context.Background(), query, opts)
		return agentReplyMsg{messageID: placeholder.ID, resp: resp, err: err}
	}
}

// resolveReply writes the responder outcome into the placeholder.
func resolveReply(mgr *manager.Manager, msg agentReplyMsg) tea.Cmd {
	return func() tea.Msg {
		loading := false
		update := manager.MessageUpdate{IsLoading: &loading}
		if msg.err != nil {
			errText := msg.err.Error()
			update.Error = &errText
		} else {
			update.Content = &msg.resp.Content
			update.Metadata = msg.resp.Metadata
			update.FullResponse = msg.resp.FullResponse
		}
		if err := mgr.UpdateMessage(msg.messageID, update); err != nil {
			return errMsg{err}
		}
		return nil
	}
}
