package repository

import (
	"context"
	"strings"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/store"
)

// FileUserRepo はJSONスロットによるUserRepositoryの実装。
// 検索は線形走査で行う。ユーザー数はプロセスの想定スケールでは十分小さい。
type FileUserRepo struct {
	collection *store.Collection[model.User]
}

// NewFileUserRepo はFileUserRepoを生成する。
func NewFileUserRepo(collection *store.Collection[model.User]) *FileUserRepo {
	return &FileUserRepo{collection: collection}
}

// FindByEmail はメールアドレスでユーザーを検索する。
// 比較は小文字正規化後に行う。見つからない場合はnilを返す。
func (r *FileUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.collection.Load()
	if err != nil {
		return nil, err
	}
	normalized := normalizeEmail(email)
	for i := range users {
		if users[i].Email == normalized {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// FindByCustomerID は決済プロバイダーの顧客IDでユーザーを検索する。
// 見つからない場合はnilを返す。
func (r *FileUserRepo) FindByCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	if customerID == "" {
		return nil, nil
	}
	users, err := r.collection.Load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].StripeCustomerID == customerID {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Create はユーザーを追加して保存する。Emailは小文字に正規化する。
func (r *FileUserRepo) Create(ctx context.Context, user model.User) error {
	user.Email = normalizeEmail(user.Email)
	_, err := r.collection.Mutate(func(users []model.User) ([]model.User, error) {
		return append(users, user), nil
	})
	return err
}

// Update は指定メールアドレスのユーザーにパッチをシャローマージして保存する。
// nilのパッチフィールドは既存の値を維持する。見つからない場合はnilを返す。
func (r *FileUserRepo) Update(ctx context.Context, email string, patch model.UserPatch) (*model.User, error) {
	normalized := normalizeEmail(email)
	var updated *model.User
	_, err := r.collection.Mutate(func(users []model.User) ([]model.User, error) {
		for i := range users {
			if users[i].Email != normalized {
				continue
			}
			if patch.Name != nil {
				users[i].Name = *patch.Name
			}
			if patch.StripeCustomerID != nil {
				users[i].StripeCustomerID = *patch.StripeCustomerID
			}
			if patch.SubscriptionID != nil {
				users[i].SubscriptionID = *patch.SubscriptionID
			}
			if patch.ActiveSubscription != nil {
				users[i].ActiveSubscription = *patch.ActiveSubscription
			}
			u := users[i]
			updated = &u
			break
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// normalizeEmail はメールアドレスを検索キーとして比較可能な形へ正規化する。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
