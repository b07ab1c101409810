// Package note はメモ管理のドメインロジックを提供する。
package note

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/repository"
)

// Service はメモ管理のサービス層。
// メモは作成後に変更されない。更新・削除操作は提供しない。
type Service struct {
	repo      repository.NoteRepository
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.NoteRepository) *Service {
	return &Service{
		repo: repo,
		// SPAがメモをそのまま描画するため、タイトルと本文からマークアップを除去する
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// Create はメモを作成して永続化する。
// タイトルまたは本文がトリム後に空の場合はバリデーションエラーを返す。
// IDは作成時刻（ミリ秒）から割り当てる。
func (s *Service) Create(ctx context.Context, title, content string) (*model.Note, error) {
	title = strings.TrimSpace(s.sanitizer.Sanitize(title))
	content = strings.TrimSpace(s.sanitizer.Sanitize(content))
	if title == "" || content == "" {
		return nil, model.NewInvalidNoteError()
	}

	now := s.now()
	note := model.Note{
		ID:        now.UnixMilli(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("メモの保存に失敗しました: %w", err)
	}
	return &note, nil
}

// List は全メモを作成日時の降順（新しい順）で返す。
// 作成日時が等しいメモは挿入順を維持する。
func (s *Service) List(ctx context.Context) ([]model.Note, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("メモ一覧の取得に失敗しました: %w", err)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}
