// Package auth はメールアドレスによるサインインとセッション管理を提供する。
// パスワードの概念はない。メールアドレスの提示を本人確認とみなすのは
// 意図的な簡略化であり、堅牢化はこのシステムの範囲外とする。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/repository"
)

// emailPattern は local@domain.tld 形式を要求する。
// 空白を含まないlocal部とドメイン、ドメインにドットが1つ以上あること。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// SignIn はメールアドレスでサインインし、セッションを発行する。
// 未登録のメールアドレスの場合はユーザーを新規作成する（購読は無効状態）。
// メールアドレスが未指定または形式不正の場合はバリデーションエラーを返す。
func (s *Service) SignIn(ctx context.Context, email string) (*model.User, *model.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, nil, model.NewInvalidEmailError()
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	if user == nil {
		newUser := model.User{
			Email:              email,
			ActiveSubscription: false,
			CreatedAt:          time.Now(),
		}
		if err := s.userRepo.Create(ctx, newUser); err != nil {
			return nil, nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
		}
		user = &newUser
		slog.Info("new user created", slog.String("email", email))
	} else {
		slog.Info("existing user signed in", slog.String("email", email))
	}

	session, err := s.createSession(ctx, user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	return user, session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの破棄に失敗しました: %w", err)
	}
	return nil
}

// CurrentUser はセッションIDから現在のユーザーを取得する。
// セッションが無効・期限切れ、またはユーザーが見つからない場合はnilを返す。
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	user, err := s.userRepo.FindByEmail(ctx, session.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	return user, nil
}

// createSession は新しいセッションを発行する。
func (s *Service) createSession(ctx context.Context, email string) (*model.Session, error) {
	now := time.Now()
	session := &model.Session{
		ID:        uuid.New().String(),
		UserEmail: email,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
