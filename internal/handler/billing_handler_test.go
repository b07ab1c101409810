package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/deskmate/internal/billing"
	"github.com/hitoshi/deskmate/internal/model"
)

// --- モック定義 ---

type mockBillingService struct {
	startCheckoutFn func(ctx context.Context, email, name string) (string, error)
	reconcileFn     func(ctx context.Context, event billing.Event) error
}

func (m *mockBillingService) StartCheckout(ctx context.Context, email, name string) (string, error) {
	if m.startCheckoutFn != nil {
		return m.startCheckoutFn(ctx, email, name)
	}
	return "", nil
}

func (m *mockBillingService) Reconcile(ctx context.Context, event billing.Event) error {
	if m.reconcileFn != nil {
		return m.reconcileFn(ctx, event)
	}
	return nil
}

type mockVerifier struct {
	verifyFn func(payload []byte, sigHeader string) (*billing.Event, error)
}

func (m *mockVerifier) VerifyAndParse(payload []byte, sigHeader string) (*billing.Event, error) {
	if m.verifyFn != nil {
		return m.verifyFn(payload, sigHeader)
	}
	return nil, nil
}

var _ BillingServiceInterface = (*mockBillingService)(nil)
var _ billing.WebhookVerifier = (*mockVerifier)(nil)

// --- テスト ---

func TestCheckout_ReturnsRedirectURL(t *testing.T) {
	svc := &mockBillingService{
		startCheckoutFn: func(ctx context.Context, email, name string) (string, error) {
			return "https://checkout.example.com/session/abc", nil
		},
	}
	h := NewBillingHandler(svc, nil)

	body := strings.NewReader(`{"email":"taro@example.com","name":"太郎"}`)
	req := httptest.NewRequest(http.MethodPost, "/checkout", body)
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp checkoutResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.URL != "https://checkout.example.com/session/abc" {
		t.Errorf("url = %q, want checkout session URL", resp.URL)
	}
}

func TestCheckout_ValidationError_Returns400(t *testing.T) {
	svc := &mockBillingService{
		startCheckoutFn: func(ctx context.Context, email, name string) (string, error) {
			return "", model.NewInvalidCheckoutError()
		},
	}
	h := NewBillingHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"email":"","name":""}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCheckout_ProviderFailure_Returns500WithReason(t *testing.T) {
	svc := &mockBillingService{
		startCheckoutFn: func(ctx context.Context, email, name string) (string, error) {
			return "", model.NewCheckoutFailedError("card network unavailable")
		},
	}
	h := NewBillingHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"email":"a@example.com","name":"A"}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var errResp apiErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Code != "CHECKOUT_FAILED" {
		t.Errorf("error code = %q, want %q", errResp.Code, "CHECKOUT_FAILED")
	}
	if !strings.Contains(errResp.Error, "card network unavailable") {
		t.Errorf("error message = %q, want provider reason included", errResp.Error)
	}
}

func TestWebhook_NoVerifierConfigured_Returns401(t *testing.T) {
	h := NewBillingHandler(&mockBillingService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestWebhook_InvalidSignature_Returns401WithoutReconcile(t *testing.T) {
	svc := &mockBillingService{
		reconcileFn: func(ctx context.Context, event billing.Event) error {
			t.Error("Reconcile should not be called for an unverified payload")
			return nil
		},
	}
	verifier := &mockVerifier{
		verifyFn: func(payload []byte, sigHeader string) (*billing.Event, error) {
			return nil, model.NewInvalidSignatureError()
		},
	}
	h := NewBillingHandler(svc, verifier)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"type":"invoice.payment_succeeded"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var errResp apiErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Code != "INVALID_SIGNATURE" {
		t.Errorf("error code = %q, want %q", errResp.Code, "INVALID_SIGNATURE")
	}
}

func TestWebhook_VerifiedEvent_ReconcilesAndAcknowledges(t *testing.T) {
	var reconciled billing.Event
	svc := &mockBillingService{
		reconcileFn: func(ctx context.Context, event billing.Event) error {
			reconciled = event
			return nil
		},
	}
	verifier := &mockVerifier{
		verifyFn: func(payload []byte, sigHeader string) (*billing.Event, error) {
			return &billing.Event{
				Type:       billing.EventInvoicePaySucceeded,
				CustomerID: "cus_123",
			}, nil
		},
	}
	h := NewBillingHandler(svc, verifier)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"type":"invoice.payment_succeeded"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=valid")
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp webhookResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Received {
		t.Error("expected received = true")
	}
	if reconciled.Type != billing.EventInvoicePaySucceeded || reconciled.CustomerID != "cus_123" {
		t.Errorf("reconciled event = %+v, want verified event passed through", reconciled)
	}
}
