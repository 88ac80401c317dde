package agent

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestCommandResponder_NotConfigured(t *testing.T) {
	r := NewCommandResponder(nil)
	_, err := r.Respond(context.Background(), "hi", Options{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCommandResponder_EchoesStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on cat")
	}

	r := NewCommandResponder([]string{"cat"})
	resp, err := r.Respond(context.Background(), "ping", Options{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if resp.Content != "ping" {
		t.Errorf("Content = %q, want %q", resp.Content, "ping")
	}
}

func TestCommandResponder_FailureIncludesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}

	r := NewCommandResponder([]string{"sh", "-c", "echo boom >&2; exit 1"})
	_, err := r.Respond(context.Background(), "ping", Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "boom") {
		t.Errorf("error %q should mention stderr output", got)
	}
}
