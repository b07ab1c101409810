package repository

import (
	"context"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/store"
)

// FileFileRecordRepo はJSONスロットによるFileRecordRepositoryの実装。
type FileFileRecordRepo struct {
	collection *store.Collection[model.FileRecord]
}

// NewFileFileRecordRepo はFileFileRecordRepoを生成する。
func NewFileFileRecordRepo(collection *store.Collection[model.FileRecord]) *FileFileRecordRepo {
	return &FileFileRecordRepo{collection: collection}
}

// List は全レコードを挿入順で返す。
func (r *FileFileRecordRepo) List(ctx context.Context) ([]model.FileRecord, error) {
	return r.collection.Load()
}

// Create はレコードを追加して保存する。
func (r *FileFileRecordRepo) Create(ctx context.Context, record model.FileRecord) error {
	_, err := r.collection.Mutate(func(records []model.FileRecord) ([]model.FileRecord, error) {
		return append(records, record), nil
	})
	return err
}

// DeleteByID は指定IDのレコードを取り除いて保存する。冪等。
func (r *FileFileRecordRepo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.collection.Mutate(func(records []model.FileRecord) ([]model.FileRecord, error) {
		kept := records[:0]
		for _, rec := range records {
			if rec.ID != id {
				kept = append(kept, rec)
			}
		}
		return kept, nil
	})
	return err
}
