// Package billing はチェックアウト開始と決済イベントの突き合わせを提供する。
// 決済プロバイダーは不透明な外部協調者として扱い、インターフェースの背後に置く。
package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/repository"
)

// 突き合わせ対象の決済イベントタイプ。
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventInvoicePaySucceeded = "invoice.payment_succeeded"
	EventInvoicePayFailed    = "invoice.payment_failed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Event は決済プロバイダーから配送されたイベントの正規化表現。
type Event struct {
	Type           string
	CustomerID     string
	SubscriptionID string
}

// PaymentProvider は決済プロバイダーとの連携インターフェース。
type PaymentProvider interface {
	// CreateCustomer は顧客を作成し、顧客IDを返す。
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	// CreateCheckoutSession はチェックアウトセッションを作成し、
	// リダイレクト先URLを返す。
	CreateCheckoutSession(ctx context.Context, customerID, successURL, cancelURL string) (string, error)
}

// WebhookVerifier はWebhookペイロードの署名検証とイベント抽出のインターフェース。
type WebhookVerifier interface {
	// VerifyAndParse は署名を検証し、正規化したイベントを返す。
	// 検証失敗時はエラーを返し、イベントは信頼されない。
	VerifyAndParse(payload []byte, sigHeader string) (*Event, error)
}

// MetricsCollector は課金関連メトリクスの収集インターフェース。
type MetricsCollector interface {
	RecordCheckout(mode string)
	RecordReconcileEvent(eventType, outcome string)
}

// ServiceConfig は課金サービスの設定。
type ServiceConfig struct {
	SuccessURL string // チェックアウト成功時のリダイレクト先
	CancelURL  string // チェックアウト中断時のリダイレクト先
}

// Service はチェックアウトと購読状態の突き合わせのサービス層。
// providerがnilの場合はデモモードで動作する: 決済を行わず、直ちに
// 購読を有効化して成功URLを返す。外部クレデンシャルなしで
// システム全体をテスト可能にするための経路。
type Service struct {
	userRepo repository.UserRepository
	provider PaymentProvider
	metrics  MetricsCollector
	config   ServiceConfig
}

// NewService はServiceを生成する。providerとmetricsはnil可。
func NewService(
	userRepo repository.UserRepository,
	provider PaymentProvider,
	metrics MetricsCollector,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo: userRepo,
		provider: provider,
		metrics:  metrics,
		config:   config,
	}
}

// StartCheckout はチェックアウトを開始し、リダイレクト先URLを返す。
// メールアドレスまたは氏名が空の場合はバリデーションエラーを返す。
// プロバイダー呼び出しの失敗はプロバイダーのメッセージを載せたまま返す。
func (s *Service) StartCheckout(ctx context.Context, email, name string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return "", model.NewInvalidCheckoutError()
	}

	user, err := s.findOrCreateUser(ctx, email, name)
	if err != nil {
		return "", err
	}

	if s.provider == nil {
		return s.demoCheckout(ctx, user)
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = s.provider.CreateCustomer(ctx, email, name)
		if err != nil {
			return "", model.NewCheckoutFailedError(err.Error())
		}
		if _, err := s.userRepo.Update(ctx, email, model.UserPatch{StripeCustomerID: &customerID}); err != nil {
			return "", fmt.Errorf("顧客IDの保存に失敗しました: %w", err)
		}
	}

	url, err := s.provider.CreateCheckoutSession(ctx, customerID, s.config.SuccessURL, s.config.CancelURL)
	if err != nil {
		return "", model.NewCheckoutFailedError(err.Error())
	}

	s.recordCheckout("live")
	slog.Info("checkout session created",
		slog.String("email", email),
		slog.String("customer_id", customerID),
	)
	return url, nil
}

// demoCheckout はプロバイダー未設定時の縮退経路。
// 合成顧客IDを割り当て、直ちに購読を有効化して成功URLを返す。
func (s *Service) demoCheckout(ctx context.Context, user *model.User) (string, error) {
	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID = "demo_" + uuid.New().String()
	}
	active := true
	if _, err := s.userRepo.Update(ctx, user.Email, model.UserPatch{
		StripeCustomerID:   &customerID,
		ActiveSubscription: &active,
	}); err != nil {
		return "", fmt.Errorf("デモ購読の有効化に失敗しました: %w", err)
	}

	s.recordCheckout("demo")
	slog.Info("demo checkout completed",
		slog.String("email", user.Email),
		slog.String("customer_id", customerID),
	)
	return s.config.SuccessURL, nil
}

// Reconcile は決済プロバイダーから配送されたイベントをユーザーの購読状態へ
// 反映する。最後に処理したイベントが常に勝つ。順序が入れ替わって配送された
// 場合に状態が古くなり得るのは既知の制約。
// 顧客IDに一致するユーザーがいない場合、および未知のイベントタイプは
// ログに記録して何もしない（エラーにはしない）。
func (s *Service) Reconcile(ctx context.Context, event Event) error {
	var patch model.UserPatch
	active := false

	switch event.Type {
	case EventCheckoutCompleted:
		a := true
		patch = model.UserPatch{SubscriptionID: &event.SubscriptionID, ActiveSubscription: &a}
	case EventInvoicePaySucceeded:
		a := true
		patch = model.UserPatch{ActiveSubscription: &a}
	case EventInvoicePayFailed:
		patch = model.UserPatch{ActiveSubscription: &active}
	case EventSubscriptionDeleted:
		empty := ""
		patch = model.UserPatch{ActiveSubscription: &active, SubscriptionID: &empty}
	default:
		slog.Warn("unhandled webhook event type ignored",
			slog.String("type", event.Type),
		)
		s.recordReconcile(event.Type, "ignored")
		return nil
	}

	user, err := s.userRepo.FindByCustomerID(ctx, event.CustomerID)
	if err != nil {
		return fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		// ディレクトリが真実の源であり、一致しないイベントは再試行できない
		slog.Warn("webhook event for unknown customer ignored",
			slog.String("type", event.Type),
			slog.String("customer_id", event.CustomerID),
		)
		s.recordReconcile(event.Type, "unknown_customer")
		return nil
	}

	if _, err := s.userRepo.Update(ctx, user.Email, patch); err != nil {
		return fmt.Errorf("購読状態の更新に失敗しました: %w", err)
	}

	s.recordReconcile(event.Type, "applied")
	slog.Info("subscription state reconciled",
		slog.String("type", event.Type),
		slog.String("email", user.Email),
	)
	return nil
}

func (s *Service) findOrCreateUser(ctx context.Context, email, name string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		newUser := model.User{
			Email:              email,
			Name:               name,
			ActiveSubscription: false,
			CreatedAt:          time.Now(),
		}
		if err := s.userRepo.Create(ctx, newUser); err != nil {
			return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
		}
		return &newUser, nil
	}
	if user.Name == "" && name != "" {
		updated, err := s.userRepo.Update(ctx, email, model.UserPatch{Name: &name})
		if err != nil {
			return nil, fmt.Errorf("ユーザー名の更新に失敗しました: %w", err)
		}
		if updated != nil {
			return updated, nil
		}
	}
	return user, nil
}

func (s *Service) recordCheckout(mode string) {
	if s.metrics != nil {
		s.metrics.RecordCheckout(mode)
	}
}

func (s *Service) recordReconcile(eventType, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordReconcileEvent(eventType, outcome)
	}
}
