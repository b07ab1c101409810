package repository

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/deskmate/internal/model"
)

func TestMemorySessionRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepo()

	session := &model.Session{
		ID:        "session-1",
		UserEmail: "user@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(ctx, "session-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found == nil {
		t.Fatal("FindByID() = nil, want session")
	}
	if found.UserEmail != "user@example.com" {
		t.Errorf("session userEmail = %q, want %q", found.UserEmail, "user@example.com")
	}
}

func TestMemorySessionRepo_ExpiredSession_ReturnsNilAndEvicts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepo()

	if err := repo.Create(ctx, &model.Session{
		ID:        "expired",
		UserEmail: "user@example.com",
		ExpiresAt: time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatal(err)
	}

	found, err := repo.FindByID(ctx, "expired")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found != nil {
		t.Errorf("FindByID() = %+v, want nil for expired session", found)
	}
}

func TestMemorySessionRepo_DeleteByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepo()

	if err := repo.Create(ctx, &model.Session{
		ID:        "to-delete",
		ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteByID(ctx, "to-delete"); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}

	found, err := repo.FindByID(ctx, "to-delete")
	if err != nil {
		t.Fatal(err)
	}
	if found != nil {
		t.Error("session should be gone after delete")
	}

	// 存在しないIDの削除もエラーにならないこと
	if err := repo.DeleteByID(ctx, "never-existed"); err != nil {
		t.Errorf("DeleteByID() on unknown ID error = %v", err)
	}
}
