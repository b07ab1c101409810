// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/deskmate/internal/model"
)

// NoteRepository はメモデータの永続化インターフェース。
type NoteRepository interface {
	// List は全メモを保存順で返す。
	List(ctx context.Context) ([]model.Note, error)

	// Create はメモを追加する。
	Create(ctx context.Context, note model.Note) error
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// List は全タスクを保存順で返す。
	List(ctx context.Context) ([]model.Task, error)

	// Create はタスクを追加する。
	Create(ctx context.Context, task model.Task) error

	// Update は指定IDのタスクの可変フィールドを置き換える。
	// 見つからない場合はnilを返す。
	Update(ctx context.Context, id int64, text string, completed bool) (*model.Task, error)

	// DeleteByID は指定IDのタスクを削除する。存在しないIDは何もしない（冪等）。
	DeleteByID(ctx context.Context, id int64) error
}

// FileRecordRepository はファイルメタデータの永続化インターフェース。
type FileRecordRepository interface {
	// List は全レコードを挿入順で返す。
	List(ctx context.Context) ([]model.FileRecord, error)

	// Create はレコードを無検証で追加する。
	Create(ctx context.Context, record model.FileRecord) error

	// DeleteByID は指定IDのレコードを削除する。存在しないIDは何もしない（冪等）。
	DeleteByID(ctx context.Context, id int64) error
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail はメールアドレスでユーザーを検索する（大文字小文字を区別しない）。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByCustomerID は決済プロバイダーの顧客IDでユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByCustomerID(ctx context.Context, customerID string) (*model.User, error)

	// Create はユーザーを作成する。Emailは小文字に正規化して保存する。
	Create(ctx context.Context, user model.User) error

	// Update は指定メールアドレスのユーザーにパッチをシャローマージして保存する。
	// 見つからない場合はnilを返す。
	Update(ctx context.Context, email string, patch model.UserPatch) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}
