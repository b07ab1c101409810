package note

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/repository"
)

// --- モック定義 ---

type mockNoteRepo struct {
	listFn   func(ctx context.Context) ([]model.Note, error)
	createFn func(ctx context.Context, note model.Note) error
}

func (m *mockNoteRepo) List(ctx context.Context) ([]model.Note, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockNoteRepo) Create(ctx context.Context, note model.Note) error {
	if m.createFn != nil {
		return m.createFn(ctx, note)
	}
	return nil
}

var _ repository.NoteRepository = (*mockNoteRepo)(nil)

// --- テスト ---

func TestCreate_AssignsIDFromCreationTime(t *testing.T) {
	ctx := context.Background()

	var created model.Note
	repo := &mockNoteRepo{
		createFn: func(ctx context.Context, note model.Note) error {
			created = note
			return nil
		},
	}

	svc := NewService(repo)
	fixed := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	note, err := svc.Create(ctx, "買い物リスト", "牛乳とパン")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if note.ID != fixed.UnixMilli() {
		t.Errorf("note ID = %d, want %d", note.ID, fixed.UnixMilli())
	}
	if !note.CreatedAt.Equal(fixed) {
		t.Errorf("note createdAt = %v, want %v", note.CreatedAt, fixed)
	}
	if created.Title != "買い物リスト" {
		t.Errorf("persisted title = %q, want %q", created.Title, "買い物リスト")
	}
}

func TestCreate_BlankTitleOrContent_ReturnsValidationError(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&mockNoteRepo{})

	cases := []struct {
		name    string
		title   string
		content string
	}{
		{"empty title", "", "body"},
		{"empty content", "title", ""},
		{"whitespace only title", "   ", "body"},
		{"whitespace only content", "title", "\t\n "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.title, tc.content)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.Code != "INVALID_NOTE" {
				t.Errorf("error code = %q, want %q", apiErr.Code, "INVALID_NOTE")
			}
		})
	}
}

func TestCreate_StripsMarkupBeforeValidation(t *testing.T) {
	ctx := context.Background()

	var created model.Note
	repo := &mockNoteRepo{
		createFn: func(ctx context.Context, note model.Note) error {
			created = note
			return nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Create(ctx, "title", `hello <script>alert("x")</script>world`)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Content != "hello world" {
		t.Errorf("sanitized content = %q, want %q", created.Content, "hello world")
	}

	// マークアップのみの本文はサニタイズ後に空になり、拒否されること
	_, err = svc.Create(ctx, "title", "<b></b>")
	if err == nil {
		t.Fatal("expected validation error for markup-only content")
	}
}

func TestList_SortsByCreatedAtDescending(t *testing.T) {
	ctx := context.Background()

	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockNoteRepo{
		listFn: func(ctx context.Context) ([]model.Note, error) {
			return []model.Note{
				{ID: 1, Title: "old", CreatedAt: base},
				{ID: 2, Title: "new", CreatedAt: base.Add(2 * time.Hour)},
				{ID: 3, Title: "mid", CreatedAt: base.Add(1 * time.Hour)},
			}, nil
		},
	}
	svc := NewService(repo)

	notes, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	wantOrder := []string{"new", "mid", "old"}
	for i, want := range wantOrder {
		if notes[i].Title != want {
			t.Errorf("notes[%d].Title = %q, want %q", i, notes[i].Title, want)
		}
	}
}

func TestList_EqualTimestamps_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()

	same := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockNoteRepo{
		listFn: func(ctx context.Context) ([]model.Note, error) {
			return []model.Note{
				{ID: 1, Title: "first", CreatedAt: same},
				{ID: 2, Title: "second", CreatedAt: same},
				{ID: 3, Title: "third", CreatedAt: same},
			}, nil
		},
	}
	svc := NewService(repo)

	notes, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	wantOrder := []string{"first", "second", "third"}
	for i, want := range wantOrder {
		if notes[i].Title != want {
			t.Errorf("notes[%d].Title = %q, want %q", i, notes[i].Title, want)
		}
	}
}

func TestCreate_RepoError_ReturnsError(t *testing.T) {
	ctx := context.Background()
	repo := &mockNoteRepo{
		createFn: func(ctx context.Context, note model.Note) error {
			return errors.New("disk full")
		},
	}
	svc := NewService(repo)

	_, err := svc.Create(ctx, "title", "content")
	if err == nil {
		t.Fatal("expected error from Create")
	}
}
