// Package task はToDoリスト管理のドメインロジックを提供する。
package task

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/repository"
)

// CreateInput はタスク作成の入力を表す。
// ID・Completed・CreatedAtはオフライン作成されたレコードの突き合わせのため
// クライアント指定値を受け入れる。nilの場合はサーバー側で既定値を割り当てる。
// クライアント値をそのまま信頼するのは意図的な設計であり、ここが信頼境界になる。
type CreateInput struct {
	Text      string
	ID        *int64
	Completed *bool
	CreatedAt *time.Time
}

// Service はToDoリスト管理のサービス層。
type Service struct {
	repo repository.TaskRepository
	now  func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.TaskRepository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create はタスクを作成して永続化する。
// テキストがトリム後に空の場合はバリデーションエラーを返す。
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Task, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, model.NewInvalidTaskError()
	}

	now := s.now()
	t := model.Task{
		ID:        now.UnixMilli(),
		Text:      text,
		Completed: false,
		CreatedAt: now,
	}
	if in.ID != nil {
		t.ID = *in.ID
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.CreatedAt != nil {
		t.CreatedAt = *in.CreatedAt
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("タスクの保存に失敗しました: %w", err)
	}
	return &t, nil
}

// Update は指定IDのタスクのテキストと完了状態を置き換える。
// 見つからない場合はタスク未検出エラーを返す。
func (s *Service) Update(ctx context.Context, id int64, text string, completed bool) (*model.Task, error) {
	updated, err := s.repo.Update(ctx, id, text, completed)
	if err != nil {
		return nil, fmt.Errorf("タスクの更新に失敗しました: %w", err)
	}
	if updated == nil {
		return nil, model.NewTaskNotFoundError(id)
	}
	return updated, nil
}

// Delete は指定IDのタスクを削除する。
// 存在しないIDの削除はエラーにしない（冪等）。
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}
	return nil
}

// List は全タスクを作成日時の降順（新しい順）で返す。
// 作成日時が等しいタスクは挿入順を維持する。
func (s *Service) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}
