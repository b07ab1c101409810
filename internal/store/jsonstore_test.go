package store

import (
	"os"
	"path/filepath"
	"testing"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestLoad_MissingFile_InitializesEmptySlot(t *testing.T) {
	dir := t.TempDir()

	var recoveredSlot, recoveredReason string
	c := NewCollection[record](dir, "notes", func(slot, reason string) {
		recoveredSlot = slot
		recoveredReason = reason
	})

	records, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty slice, got %d records", len(records))
	}

	// 自己修復でファイルが作成されること
	data, err := os.ReadFile(filepath.Join(dir, "notes.json"))
	if err != nil {
		t.Fatalf("slot file was not created: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("slot file content = %q, want %q", string(data), "[]")
	}

	if recoveredSlot != "notes" || recoveredReason != "missing" {
		t.Errorf("recovery hook = (%q, %q), want (%q, %q)", recoveredSlot, recoveredReason, "notes", "missing")
	}
}

func TestLoad_MalformedContent_ReturnsEmptyWithoutError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var recoveredReason string
	c := NewCollection[record](dir, "tasks", func(_, reason string) {
		recoveredReason = reason
	})

	records, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty slice for corrupt slot, got %d records", len(records))
	}
	if recoveredReason != "corrupt" {
		t.Errorf("recovery reason = %q, want %q", recoveredReason, "corrupt")
	}
}

func TestLoad_UnreadableSlot_ReturnsEmptyWithoutError(t *testing.T) {
	dir := t.TempDir()
	// スロットのパスにディレクトリを置いて読み取りを失敗させる
	if err := os.MkdirAll(filepath.Join(dir, "notes.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	var recoveredReason string
	c := NewCollection[record](dir, "notes", func(_, reason string) {
		recoveredReason = reason
	})

	records, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, read failures must not surface", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty slice for unreadable slot, got %d records", len(records))
	}
	if recoveredReason != "unreadable" {
		t.Errorf("recovery reason = %q, want %q", recoveredReason, "unreadable")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewCollection[record](dir, "files", nil)

	want := []record{
		{ID: 1, Name: "alpha"},
		{ID: 2, Name: "beta"},
	}
	if err := c.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSave_NilRecords_WritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	c := NewCollection[record](dir, "users", nil)

	if err := c.Save(nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("slot file content = %q, want %q", string(data), "[]")
	}
}

func TestMutate_AppliesTransformUnderSingleLock(t *testing.T) {
	dir := t.TempDir()
	c := NewCollection[record](dir, "notes", nil)

	updated, err := c.Mutate(func(records []record) ([]record, error) {
		return append(records, record{ID: 10, Name: "added"}), nil
	})
	if err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}
	if len(updated) != 1 || updated[0].ID != 10 {
		t.Fatalf("Mutate() returned %+v, want single record with ID 10", updated)
	}

	// 変換結果が永続化されていること
	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "added" {
		t.Errorf("persisted records = %+v, want the appended record", got)
	}
}

func TestMutate_FnError_DoesNotSave(t *testing.T) {
	dir := t.TempDir()
	c := NewCollection[record](dir, "notes", nil)
	if err := c.Save([]record{{ID: 1, Name: "keep"}}); err != nil {
		t.Fatal(err)
	}

	_, err := c.Mutate(func(records []record) ([]record, error) {
		return nil, os.ErrInvalid
	})
	if err == nil {
		t.Fatal("expected error from Mutate")
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "keep" {
		t.Errorf("records after failed Mutate = %+v, want original untouched", got)
	}
}
