// Package agent defines the boundary to the external agent that
// produces assistant replies. The conversation core only consumes this
// interface; the actual backend (REST service, local model, script) is
// supplied by the caller.
package agent

import (
	"context"
	"encoding/json"
)

// Options is the request options bag passed alongside a query.
type Options struct {
	UserID          string
	SessionID       string
	EnableMemory    bool
	EnableReasoning bool
	Model           string
	Temperature     float64
}

// Response is what the collaborator returns. Metadata and FullResponse
// are opaque payloads stored with the assistant message unexamined.
type Response struct {
	Content      string
	Metadata     json.RawMessage
	FullResponse json.RawMessage
}

// Responder produces an assistant reply for a free-text query.
type Responder interface {
	Respond(ctx context.Context, query string, opts Options) (*Response, error)
}

// Func adapts a plain function to the Responder interface.
type Func func(ctx context.Context, query string, opts Options) (*Response, error)

func (f Func) Respond(ctx context.Context, query string, opts Options) (*Response, error) {
	return f(ctx, query, opts)
}
