package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hitoshi/deskmate/internal/billing"
	"github.com/hitoshi/deskmate/internal/model"
)

// webhookMaxBodySize はWebhookペイロードの上限サイズ。
const webhookMaxBodySize = 1 << 20 // 1MiB

// BillingServiceInterface は課金ハンドラーが必要とするサービスインターフェース。
type BillingServiceInterface interface {
	StartCheckout(ctx context.Context, email, name string) (string, error)
	Reconcile(ctx context.Context, event billing.Event) error
}

// BillingHandler はチェックアウトとWebhookのHTTPハンドラー。
// verifierがnilの場合（Webhookシークレット未設定）、Webhookはすべて拒否する。
type BillingHandler struct {
	service  BillingServiceInterface
	verifier billing.WebhookVerifier
}

// NewBillingHandler はBillingHandlerを生成する。
func NewBillingHandler(service BillingServiceInterface, verifier billing.WebhookVerifier) *BillingHandler {
	return &BillingHandler{
		service:  service,
		verifier: verifier,
	}
}

// checkoutRequest はチェックアウト開始リクエストのボディ。
type checkoutRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// checkoutResponse はチェックアウト開始のレスポンス。
type checkoutResponse struct {
	URL string `json:"url"`
}

// webhookResponse はWebhook受領のレスポンス。
type webhookResponse struct {
	Received bool `json:"received"`
}

// Checkout はチェックアウトを開始し、リダイレクト先URLを返す。
// POST /checkout {email, name}
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidCheckoutError())
		return
	}

	url, err := h.service.StartCheckout(r.Context(), req.Email, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{URL: url})
}

// Webhook は決済プロバイダーからのイベントを検証して突き合わせる。
// 署名検証に失敗した場合は状態を一切変更せずに401を返す。
// POST /webhook
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidSignatureError())
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, webhookMaxBodySize))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_BODY",
			Message:  "リクエストボディを読み取れません。",
			Category: "validation",
			Action:   "ペイロードのサイズと形式を確認してください。",
		})
		return
	}

	event, err := h.verifier.VerifyAndParse(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.Reconcile(r.Context(), *event); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, webhookResponse{Received: true})
}
