package observability

import (
	"context"
	"testing"
)

func TestWithSessionID(t *testing.T) {
	ctx := context.Background()
	ctx = WithSessionID(ctx, "session-123")

	lc := GetContext(ctx)
	if lc.SessionID != "session-123" {
		t.Errorf("expected session-123, got %s", lc.SessionID)
	}
}

func TestWithCommand(t *testing.T) {
	ctx := context.Background()
	ctx = WithCommand(ctx, "serve")

	lc := GetContext(ctx)
	if lc.Command != "serve" {
		t.Errorf("expected serve, got %s", lc.Command)
	}
}

func TestWithStage(t *testing.T) {
	ctx := context.Background()
	ctx = WithStage(ctx, "transform")

	lc := GetContext(ctx)
	if lc.Stage != "transform" {
		t.Errorf("expected transform, got %s", lc.Stage)
	}
}

func TestWithDocument(t *testing.T) {
	ctx := context.Background()
	ctx = WithDocument(ctx, "index.html")

	lc := GetContext(ctx)
	if lc.Document != "index.html" {
		t.Errorf("expected index.html, got %s", lc.Document)
	}
}

func TestContextAccumulation(t *testing.T) {
	ctx := context.Background()
	ctx = WithSessionID(ctx, "session-1")
	ctx = WithCommand(ctx, "build")
	ctx = WithStage(ctx, "resolve")

	lc := GetContext(ctx)
	if lc.SessionID != "session-1" || lc.Command != "build" || lc.Stage != "resolve" {
		t.Errorf("context fields not accumulated: %+v", lc)
	}
}

func TestGetContextEmpty(t *testing.T) {
	lc := GetContext(context.Background())
	if lc.SessionID != "" || lc.Command != "" || lc.Stage != "" || lc.Document != "" {
		t.Errorf("expected empty context, got %+v", lc)
	}
}
