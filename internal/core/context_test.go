package core

import (
	"context"
	"testing"
)

func TestRequestContext(t *testing.T) {
	ctx := context.Background()
	if got := ClientIPFromContext(ctx); got != "" {
		t.Errorf("ClientIPFromContext(empty) = %q, want \"\"", got)
	}

	ctx = ContextWithClientIP(ctx, "203.0.113.7")
	ctx = ContextWithUserAgent(ctx, "curl/8.0")

	if got := ClientIPFromContext(ctx); got != "203.0.113.7" {
		t.Errorf("ClientIPFromContext() = %q, want 203.0.113.7", got)
	}
	if got := UserAgentFromContext(ctx); got != "curl/8.0" {
		t.Errorf("UserAgentFromContext() = %q, want curl/8.0", got)
	}
}
