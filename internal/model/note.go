// Package model はドメインモデルを定義する。
package model

import "time"

// Note は作成後に変更されないメモを表す。
// 観測可能なAPIには更新・削除操作が存在しない。
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
