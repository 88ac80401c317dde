package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/store"
)

// SearchMessagesArgs defines arguments for the search_messages tool
type SearchMessagesArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// GetSessionDetailArgs defines arguments for the get_session_detail tool
type GetSessionDetailArgs struct {
	SessionID string `json:"session_id"`
}

// ListRecentSessionsArgs defines arguments for the list_recent_sessions tool
type ListRecentSessionsArgs struct {
	Limit int `json:"limit,omitempty"`
}

// SessionSummary represents a session in the list view
type SessionSummary struct {
	SessionID    string `json:"session_id"`
	Title        string `json:"title"`
	LastMessage  string `json:"last_message,omitempty"`
	UpdatedAt    string `json:"updated_at"`
	MessageCount int    `json:"message_count"`
}

// SessionDetail represents a session with its full transcript
type SessionDetail struct {
	SessionID    string          `json:"session_id"`
	Title        string          `json:"title"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
	MessageCount int             `json:"message_count"`
	Messages     []MessageDetail `json:"messages"`
}

// MessageDetail represents a single message in a session
type MessageDetail struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// MessageMatch represents a search hit with its session context
type MessageMatch struct {
	SessionID    string `json:"session_id"`
	SessionTitle string `json:"session_title"`
	Role         string `json:"role"`
	Snippet      string `json:"snippet"`
	Timestamp    string `json:"timestamp"`
}

const mcpTimeFormat = "2006-01-02 15:04:05"

// StartServer opens the store and serves tools over stdio. All tools are
// scoped to the given user.
func StartServer(dbPath, userID string) error {
	st, err := store.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Printf("Error closing database: %v", closeErr)
		}
	}()

	s := server.NewMCPServer(
		"ClearAI",
		"1.0.0",
	)

	listTool := mcp.NewTool("list_recent_sessions",
		mcp.WithDescription("Get recent Clear AI conversation sessions, most recently updated first"),
		mcp.WithNumber("limit",
			mcp.Description("Max sessions to return (default: 20)")),
	)
	s.AddTool(listTool, makeListRecentSessionsHandler(st, userID))

	detailTool := mcp.NewTool("get_session_detail",
		mcp.WithDescription("Retrieve a Clear AI session with its full message transcript"),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID to retrieve")),
	)
	s.AddTool(detailTool, makeGetSessionDetailHandler(st, userID))

	searchTool := mcp.NewTool("search_messages",
		mcp.WithDescription("Full-text search across all Clear AI conversation messages"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term to match against message content")),
		mcp.WithNumber("limit",
			mcp.Description("Max matches to return (default: 20)")),
	)
	s.AddTool(searchTool, makeSearchMessagesHandler(st, userID))

	return server.ServeStdio(s)
}

func makeListRecentSessionsHandler(st store.Store, userID string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListRecentSessionsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit == 0 {
			limit = 20
		}

		coreSessions, err := st.GetAllSessions(userID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
		if len(coreSessions) > limit {
			coreSessions = coreSessions[:limit]
		}

		var sessions []SessionSummary
		for _, cs := range coreSessions {
			sessions = append(sessions, SessionSummary{
				SessionID:    cs.ID,
				Title:        cs.Title,
				LastMessage:  cs.LastMessage,
				UpdatedAt:    cs.UpdatedAt.Format(mcpTimeFormat),
				MessageCount: cs.MessageCount,
			})
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"sessions": sessions,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeGetSessionDetailHandler(st store.Store, userID string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GetSessionDetailArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		session, err := st.GetSession(args.SessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
		if session == nil || session.UserID != userID {
			return mcp.NewToolResultError(fmt.Sprintf("session not found: %s", args.SessionID)), nil
		}

		messages, err := st.GetMessagesForSession(session.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		detail := SessionDetail{
			SessionID:    session.ID,
			Title:        session.Title,
			CreatedAt:    session.CreatedAt.Format(mcpTimeFormat),
			UpdatedAt:    session.UpdatedAt.Format(mcpTimeFormat),
			MessageCount: session.MessageCount,
			Messages:     []MessageDetail{},
		}
		for _, msg := range messages {
			detail.Messages = append(detail.Messages, MessageDetail{
				Role:      string(msg.Role),
				Content:   msg.Content,
				Timestamp: msg.Timestamp.Format(mcpTimeFormat),
			})
		}

		resultJSON, err := json.Marshal(detail)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeSearchMessagesHandler(st store.Store, userID string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SearchMessagesArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit == 0 {
			limit = 20
		}

		results, err := st.SearchMessages(userID, args.Query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		var matches []MessageMatch
		for _, r := range results {
			matches = append(matches, MessageMatch{
				SessionID:    r.Message.SessionID,
				SessionTitle: r.SessionTitle,
				Role:         string(r.Message.Role),
				Snippet:      models.Truncate(r.Message.Content, 200),
				Timestamp:    r.Message.Timestamp.Format(mcpTimeFormat),
			})
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"matches": matches,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}
