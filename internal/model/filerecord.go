package model

import "time"

// FileRecord はアップロードされたファイルのメタデータを表す。
// ファイル本体のバイト列はこのシステムに到達しない。転送と進捗表示は
// クライアント側の責務であり、ここでは台帳としてメタデータのみを保持する。
type FileRecord struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploadedAt"`
}
