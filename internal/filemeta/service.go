// Package filemeta はファイルメタデータ台帳のドメインロジックを提供する。
// ファイル本体のバイト列は扱わない。転送はクライアント側の責務であり、
// この台帳はクライアントが申告したメタデータを受動的に記録する。
package filemeta

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/repository"
)

// Service はファイルメタデータ台帳のサービス層。
type Service struct {
	repo repository.FileRecordRepository
	now  func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.FileRecordRepository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create はクライアントが組み立てたレコードをそのまま追加する。
// name・size・typeのサーバー側バリデーションは行わない。
// IDとUploadedAtが未指定（ゼロ値）の場合のみ既定値を割り当てる。
func (s *Service) Create(ctx context.Context, record model.FileRecord) (*model.FileRecord, error) {
	now := s.now()
	if record.ID == 0 {
		record.ID = now.UnixMilli()
	}
	if record.UploadedAt.IsZero() {
		record.UploadedAt = now
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("ファイルレコードの保存に失敗しました: %w", err)
	}
	return &record, nil
}

// Delete は指定IDのレコードを削除する。
// 存在しないIDの削除はエラーにしない（冪等）。
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("ファイルレコードの削除に失敗しました: %w", err)
	}
	return nil
}

// List は全レコードを挿入順で返す。ソートは行わない。
func (s *Service) List(ctx context.Context) ([]model.FileRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ファイルレコード一覧の取得に失敗しました: %w", err)
	}
	return records, nil
}
