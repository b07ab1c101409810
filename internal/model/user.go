package model

import "time"

// User はサービス利用ユーザーを表す。
// Emailが唯一の検索キーであり、常に小文字に正規化して保存する。
// ActiveSubscriptionは決済プロバイダーから最後に処理したイベントに
// 基づく導出フラグであり、プロバイダー側の真実そのものではない。
type User struct {
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	StripeCustomerID   string    `json:"stripeCustomerId,omitempty"`
	SubscriptionID     string    `json:"subscriptionId,omitempty"`
	ActiveSubscription bool      `json:"activeSubscription"`
	CreatedAt          time.Time `json:"createdAt"`
}

// UserPatch はユーザーレコードへの部分更新を表す。
// nilのフィールドは既存の値を維持する（シャローマージ）。
type UserPatch struct {
	Name               *string
	StripeCustomerID   *string
	SubscriptionID     *string
	ActiveSubscription *bool
}

// Session はユーザーのログインセッションを表す。
// ユーザーはEmailで一意に識別されるため、セッションはEmailを保持する。
type Session struct {
	ID        string
	UserEmail string
	ExpiresAt time.Time
	CreatedAt time.Time
}
