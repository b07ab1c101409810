package model

import "time"

// Task はToDoリストの1項目を表す。
// オフライン作成されたレコードの突き合わせのため、IDとCreatedAtは
// クライアント指定値をそのまま受け入れる（信頼境界はハンドラー層で明示する）。
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}
