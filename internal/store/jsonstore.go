// Package store はJSONファイルによるフラットなレコード永続化を提供する。
// 1スロット = 1ファイルで、スロットはレコード列全体をJSON配列として保持する。
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// RecoveryFunc はスロットの自己修復（欠損・破損からの回復）を通知するフック。
// メトリクス収集用。nilの場合は通知しない。
type RecoveryFunc func(slot, reason string)

// Collection は1つのスロットに束縛されたレコード列のリポジトリ基盤。
// LoadとSaveは内部ミューテックスで直列化される。プロセス間の調整は行わない
// （単一プロセス・逐次アクセスを前提とする設計）。
type Collection[T any] struct {
	slot      string
	path      string
	mu        sync.Mutex
	onRecover RecoveryFunc
}

// NewCollection はdir配下のスロットに束縛されたCollectionを生成する。
// onRecoverはnil可。
func NewCollection[T any](dir, slot string, onRecover RecoveryFunc) *Collection[T] {
	return &Collection[T]{
		slot:      slot,
		path:      filepath.Join(dir, slot+".json"),
		onRecover: onRecover,
	}
}

// Slot はスロット名を返す。
func (c *Collection[T]) Slot() string {
	return c.slot
}

// Load はスロットの全レコードを読み込んで返す。
// ファイルが存在しない場合は空配列を書き込んで自己修復し、空列を返す。
// 読み取りに失敗した場合や内容が不正なJSONの場合はログに記録して空列を返す
// （エラーにはしない）。
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

func (c *Collection[T]) loadLocked() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		// 初回アクセス: 空のスロットを作成してから空列を返す
		if err := c.saveLocked([]T{}); err != nil {
			return nil, fmt.Errorf("failed to initialize slot %s: %w", c.slot, err)
		}
		slog.Info("slot initialized", slog.String("slot", c.slot))
		c.recover("missing")
		return []T{}, nil
	}
	if err != nil {
		// 読み取り不能なスロットも破損と同様に空列として扱う
		slog.Error("slot is unreadable, treating as empty",
			slog.String("slot", c.slot),
			slog.String("error", err.Error()),
		)
		c.recover("unreadable")
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		// 破損したスロットは空列として扱う。次のSaveで上書きされる。
		slog.Error("slot content is malformed, treating as empty",
			slog.String("slot", c.slot),
			slog.String("error", err.Error()),
		)
		c.recover("corrupt")
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save はスロットの内容をレコード列全体で上書きする。
func (c *Collection[T]) Save(records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(records)
}

func (c *Collection[T]) saveLocked(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", c.slot, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", c.slot, err)
	}
	return nil
}

// Mutate はLoad→変換→Saveをミューテックス保持のまま一括実行する。
// fnは読み込んだレコード列を受け取り、保存すべきレコード列を返す。
// fnがエラーを返した場合は保存せずそのエラーを返す。
func (c *Collection[T]) Mutate(fn func(records []T) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.loadLocked()
	if err != nil {
		return nil, err
	}
	updated, err := fn(records)
	if err != nil {
		return nil, err
	}
	if err := c.saveLocked(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Collection[T]) recover(reason string) {
	if c.onRecover != nil {
		c.onRecover(c.slot, reason)
	}
}
