package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, billing, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidNote      = "INVALID_NOTE"
	ErrCodeInvalidTask      = "INVALID_TASK"
	ErrCodeTaskNotFound     = "TASK_NOT_FOUND"
	ErrCodeCityRequired     = "CITY_REQUIRED"
	ErrCodeInvalidEmail     = "INVALID_EMAIL"
	ErrCodeInvalidCheckout  = "INVALID_CHECKOUT"
	ErrCodeCheckoutFailed   = "CHECKOUT_FAILED"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
)

// NewInvalidNoteError はメモのバリデーションエラーを生成する。
func NewInvalidNoteError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidNote,
		Message:  "タイトルと本文は必須です。",
		Category: "validation",
		Action:   "タイトルと本文を入力してください。",
	}
}

// NewInvalidTaskError はタスクのバリデーションエラーを生成する。
func NewInvalidTaskError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTask,
		Message:  "タスクの内容は必須です。",
		Category: "validation",
		Action:   "タスクの内容を入力してください。",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError(taskID int64) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %d", taskID),
		Category: "validation",
		Action:   "タスクIDを確認してください。",
	}
}

// NewCityRequiredError は都市名未指定エラーを生成する。
func NewCityRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeCityRequired,
		Message:  "都市名が指定されていません。",
		Category: "validation",
		Action:   "cityクエリパラメータを指定してください。",
	}
}

// NewInvalidEmailError は無効なメールアドレスのエラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "有効なメールアドレスを入力してください。",
		Category: "validation",
		Action:   "local@domain.tld 形式のメールアドレスを入力してください。",
	}
}

// NewInvalidCheckoutError はチェックアウトリクエストのバリデーションエラーを生成する。
func NewInvalidCheckoutError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCheckout,
		Message:  "メールアドレスと氏名は必須です。",
		Category: "validation",
		Action:   "メールアドレスと氏名を入力してください。",
	}
}

// NewCheckoutFailedError は決済プロバイダー呼び出しの失敗エラーを生成する。
// プロバイダーのエラーメッセージをそのまま呼び出し元へ伝える。
func NewCheckoutFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeCheckoutFailed,
		Message:  reason,
		Category: "billing",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewInvalidSignatureError はWebhook署名の検証失敗エラーを生成する。
func NewInvalidSignatureError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSignature,
		Message:  "Webhook署名の検証に失敗しました。",
		Category: "auth",
		Action:   "Webhookシークレットの設定を確認してください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "サインインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "サインインし直してください。",
	}
}
