package auth

import (
	"context"
	"testing"
)

func TestWithIdentityAndFromContext(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: 1, Username: "ada", SessionID: 3})
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Identity in context")
	}
	if got.UserID != 1 {
		t.Errorf("UserID = %d, want 1", got.UserID)
	}
	if got.Username != "ada" {
		t.Errorf("Username = %q, want %q", got.Username, "ada")
	}
	if got.SessionID != 3 {
		t.Errorf("SessionID = %d, want 3", got.SessionID)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected no Identity in empty context")
	}
}

func TestHelpersAnonymous(t *testing.T) {
	ctx := context.Background()
	if got := UserID(ctx); got != 0 {
		t.Errorf("UserID = %d, want 0", got)
	}
	if got := SessionID(ctx); got != 0 {
		t.Errorf("SessionID = %d, want 0", got)
	}
}

func TestHelpers(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: 10, SessionID: 30})
	if got := UserID(ctx); got != 10 {
		t.Errorf("UserID = %d, want 10", got)
	}
	if got := SessionID(ctx); got != 30 {
		t.Errorf("SessionID = %d, want 30", got)
	}
}
