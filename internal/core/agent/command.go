package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNotConfigured is returned when no agent command is set.
var ErrNotConfigured = errors.New("no agent command configured")

// CommandResponder shells out to a user-configured command for each
// query. The query is written to the command's stdin, the options
// arrive as CLEAR_AI_* environment variables, and stdout becomes the
// reply content.
type CommandResponder struct {
	// Command is the argv to run, e.g. ["my-agent", "--json"].
	Command []string
}

var _ Responder = (*CommandResponder)(nil)

// NewCommandResponder builds a responder for the given argv. An empty
// argv is allowed; Respond then fails with ErrNotConfigured.
func NewCommandResponder(command []string) *CommandResponder {
	return &CommandResponder{Command: command}
}

func (c *CommandResponder) Respond(ctx context.Context, query string, opts Options) (*Response, error) {
	if len(c.Command) == 0 {
		return nil, ErrNotConfigured
	}

	cmd := exec.CommandContext(ctx, c.Command[0], c.Command[1:]...)
	cmd.Stdin = strings.NewReader(query)
	cmd.Env = append(os.Environ(),
		"CLEAR_AI_USER_ID="+opts.UserID,
		"CLEAR_AI_SESSION_ID="+opts.SessionID,
		"CLEAR_AI_MODEL="+opts.Model,
		"CLEAR_AI_TEMPERATURE="+strconv.FormatFloat(opts.Temperature, 'f', -1, 64),
		"CLEAR_AI_MEMORY="+strconv.FormatBool(opts.EnableMemory),
		"CLEAR_AI_REASONING="+strconv.FormatBool(opts.EnableReasoning),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("agent command failed: %s: %w", strings.TrimSpace(stderr.String()), err)
		}
		return nil, fmt.Errorf("agent command failed: %w", err)
	}

	return &Response{Content: strings.TrimSpace(stdout.String())}, nil
}
