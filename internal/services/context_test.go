package services_test

import (
	"context"
	"testing"

	"nriassist/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithApplicationID(ctx, "NRI100234")
	ctx = services.WithRole(ctx, "Branch Staff")
	ctx = services.WithSessionID(ctx, "sess-1")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.ApplicationIDFromContext(ctx); !ok || id != "NRI100234" {
		t.Fatalf("unexpected application id: %v %v", id, ok)
	}
	if role, ok := services.RoleFromContext(ctx); !ok || role != "Branch Staff" {
		t.Fatalf("unexpected role: %v %v", role, ok)
	}
	if sid, ok := services.SessionIDFromContext(ctx); !ok || sid != "sess-1" {
		t.Fatalf("unexpected session id: %v %v", sid, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRole(ctx, "")
	ctx = services.WithSessionID(ctx, "")
	if _, ok := services.RoleFromContext(ctx); ok {
		t.Fatal("expected no role value")
	}
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session value")
	}
}
