// Package app はアプリケーションの初期化と起動を提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/deskmate/internal/auth"
	"github.com/hitoshi/deskmate/internal/billing"
	"github.com/hitoshi/deskmate/internal/config"
	"github.com/hitoshi/deskmate/internal/filemeta"
	"github.com/hitoshi/deskmate/internal/handler"
	"github.com/hitoshi/deskmate/internal/logger"
	"github.com/hitoshi/deskmate/internal/metrics"
	"github.com/hitoshi/deskmate/internal/middleware"
	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/note"
	"github.com/hitoshi/deskmate/internal/repository"
	"github.com/hitoshi/deskmate/internal/store"
	"github.com/hitoshi/deskmate/internal/task"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルを反映する
	if cfg.LogLevel != "info" {
		logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
		slog.Bool("demo_checkout", cfg.DemoMode()),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. ストアとリポジトリの初期化（スロット: notes, tasks, files, users）
	noteRepo := repository.NewFileNoteRepo(
		store.NewCollection[model.Note](cfg.DataDir, "notes", collector.RecordStoreRecovery))
	taskRepo := repository.NewFileTaskRepo(
		store.NewCollection[model.Task](cfg.DataDir, "tasks", collector.RecordStoreRecovery))
	fileRepo := repository.NewFileFileRecordRepo(
		store.NewCollection[model.FileRecord](cfg.DataDir, "files", collector.RecordStoreRecovery))
	userRepo := repository.NewFileUserRepo(
		store.NewCollection[model.User](cfg.DataDir, "users", collector.RecordStoreRecovery))
	sessionRepo := repository.NewMemorySessionRepo()

	// 3. 決済プロバイダーの初期化
	// シークレットキー未設定の場合はデモモード（provider=nil）で動作する。
	var provider billing.PaymentProvider
	var verifier billing.WebhookVerifier
	if cfg.StripeSecretKey != "" || cfg.StripeWebhookSecret != "" {
		sp := billing.NewStripeProvider(cfg.StripeSecretKey, cfg.StripePriceID, cfg.StripeWebhookSecret)
		if cfg.StripeSecretKey != "" {
			provider = sp
		}
		if cfg.StripeWebhookSecret != "" {
			verifier = sp
		}
	}
	if provider == nil {
		slog.Info("payment provider not configured, checkout runs in demo mode")
	}

	// 4. ドメインサービスの初期化
	noteService := note.NewService(noteRepo)
	taskService := task.NewService(taskRepo)
	fileService := filemeta.NewService(fileRepo)
	authService := auth.NewService(userRepo, sessionRepo, auth.ServiceConfig{
		SessionMaxAge: cfg.SessionMaxAge,
	})
	billingService := billing.NewService(userRepo, provider, collector, billing.ServiceConfig{
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	})

	// 5. レート制限の初期化（req/min -> req/sec に変換）
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(cfg.RateLimitGeneral) / 60.0),
		GeneralBurst:    cfg.RateLimitGeneral,
		CheckoutRate:    rate.Limit(float64(cfg.RateLimitCheckout) / 60.0),
		CheckoutBurst:   cfg.RateLimitCheckout,
		CleanupInterval: 5 * time.Minute,
	})
	defer rateLimiter.Stop()

	// 6. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		SessionFinder:     sessionRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Metrics:           collector,

		NoteService: noteService,
		TaskService: taskService,
		FileService: fileService,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		BillingService:  billingService,
		WebhookVerifier: verifier,

		StaticDir: cfg.StaticDir,
	})

	// 7. /metricsはアプリケーションルーターの外に置く
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.Handle("/", router)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
