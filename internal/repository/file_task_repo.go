package repository

import (
	"context"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/store"
)

// FileTaskRepo はJSONスロットによるTaskRepositoryの実装。
type FileTaskRepo struct {
	collection *store.Collection[model.Task]
}

// NewFileTaskRepo はFileTaskRepoを生成する。
func NewFileTaskRepo(collection *store.Collection[model.Task]) *FileTaskRepo {
	return &FileTaskRepo{collection: collection}
}

// List は全タスクを保存順で返す。
func (r *FileTaskRepo) List(ctx context.Context) ([]model.Task, error) {
	return r.collection.Load()
}

// Create はタスクを追加して保存する。
func (r *FileTaskRepo) Create(ctx context.Context, task model.Task) error {
	_, err := r.collection.Mutate(func(tasks []model.Task) ([]model.Task, error) {
		return append(tasks, task), nil
	})
	return err
}

// Update は指定IDのタスクのtextとcompletedを置き換えて保存する。
// 見つからない場合はnilを返し、スロットは変更しない。
func (r *FileTaskRepo) Update(ctx context.Context, id int64, text string, completed bool) (*model.Task, error) {
	var updated *model.Task
	_, err := r.collection.Mutate(func(tasks []model.Task) ([]model.Task, error) {
		for i := range tasks {
			if tasks[i].ID == id {
				tasks[i].Text = text
				tasks[i].Completed = completed
				t := tasks[i]
				updated = &t
				break
			}
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteByID は指定IDのタスクを取り除いて保存する。
// 存在しないIDでも（変更のない）スロットを保存し直すだけでエラーにはしない。
func (r *FileTaskRepo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.collection.Mutate(func(tasks []model.Task) ([]model.Task, error) {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		return kept, nil
	})
	return err
}
