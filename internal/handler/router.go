package handler

import (
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/deskmate/internal/billing"
	"github.com/hitoshi/deskmate/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Metrics           middleware.StatusRecorder

	// リソースサービス
	NoteService NoteServiceInterface
	TaskService TaskServiceInterface
	FileService FileServiceInterface

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 課金
	BillingService  BillingServiceInterface
	WebhookVerifier billing.WebhookVerifier

	// ページ配信
	StaticDir string

	// 天気・チャットの乱数源のシード元。nilの場合は現在時刻でシードする。
	// 各ハンドラーは排他を自前のミューテックスで行うため、生成器そのものは
	// 共有せず、ここから導出したシードでハンドラーごとに独立に生成する。
	Rand *rand.Rand
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを
// 構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → SecurityHeaders
//
// リソースAPIにはレート制限（クライアントIP単位）を適用する。
// /app はセッション必須で、未認証アクセスは /signin へリダイレクトする。
func NewRouter(deps *RouterDeps) http.Handler {
	seeder := deps.Rand
	if seeder == nil {
		seeder = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	noteHandler := NewNoteHandler(deps.NoteService)
	taskHandler := NewTaskHandler(deps.TaskService)
	fileHandler := NewFileHandler(deps.FileService)
	weatherHandler := NewWeatherHandler(rand.New(rand.NewSource(seeder.Int63())))
	chatHandler := NewChatHandler(rand.New(rand.NewSource(seeder.Int63())))
	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	billingHandler := NewBillingHandler(deps.BillingService, deps.WebhookVerifier)
	pageHandler := NewPageHandler(deps.StaticDir)

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default(), deps.Metrics))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	// ヘルスチェック（レート制限の外）
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Webhookはプロバイダーからの配送のためレート制限の外に置く
	r.Post("/webhook", billingHandler.Webhook)

	// リソースAPI
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteHandler.ListNotes)
			r.Post("/", noteHandler.CreateNote)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Put("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
		})

		r.Route("/files", func(r chi.Router) {
			r.Get("/", fileHandler.ListFiles)
			r.Post("/", fileHandler.CreateFile)
			r.Delete("/{id}", fileHandler.DeleteFile)
		})

		r.Get("/weather", weatherHandler.GetWeather)
		r.Post("/chat", chatHandler.PostChat)

		// 認証・セッション
		r.Post("/signin", authHandler.SignIn)
		r.Post("/login", authHandler.SignIn) // /signinの別名
		r.Get("/me", authHandler.Me)
		r.Post("/logout", authHandler.Logout)

		// チェックアウト開始（専用レート制限を追加）
		r.With(deps.RateLimiter.CheckoutMiddleware()).Post("/checkout", billingHandler.Checkout)
	})

	// ページ配信
	r.Get("/signin", pageHandler.SignIn)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewPageGuardMiddleware(deps.SessionFinder, "/signin"))
		r.Get("/app", pageHandler.App)
	})

	return r
}
