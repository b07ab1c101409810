package repository

import (
	"context"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/store"
)

// FileNoteRepo はJSONスロットによるNoteRepositoryの実装。
type FileNoteRepo struct {
	collection *store.Collection[model.Note]
}

// NewFileNoteRepo はFileNoteRepoを生成する。
func NewFileNoteRepo(collection *store.Collection[model.Note]) *FileNoteRepo {
	return &FileNoteRepo{collection: collection}
}

// List は全メモを保存順で返す。
func (r *FileNoteRepo) List(ctx context.Context) ([]model.Note, error) {
	return r.collection.Load()
}

// Create はメモを追加して保存する。
func (r *FileNoteRepo) Create(ctx context.Context, note model.Note) error {
	_, err := r.collection.Mutate(func(notes []model.Note) ([]model.Note, error) {
		return append(notes, note), nil
	})
	return err
}
