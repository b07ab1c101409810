package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestRateLimiter(t *testing.T, burst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001), // 補充をほぼ止めてバーストのみで検証する
		GeneralBurst:    burst,
		CheckoutRate:    rate.Limit(0.001),
		CheckoutBurst:   burst,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func TestGeneralMiddleware_AllowsUpToBurst(t *testing.T) {
	rl := newTestRateLimiter(t, 3)
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	// バースト超過で429が返ること
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry a Retry-After header")
	}
}

func TestGeneralMiddleware_LimitsPerClientIP(t *testing.T) {
	rl := newTestRateLimiter(t, 1)
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 1つ目のクライアントがバーストを使い切る
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.RemoteAddr = "192.0.2.1:1000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first client: status = %d, want %d", rec.Code, http.StatusOK)
	}

	// 別IPのクライアントは影響を受けないこと
	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.RemoteAddr = "192.0.2.2:1000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("second client: status = %d, want %d", rec.Code, http.StatusOK)
	}

	if count := rl.GeneralLimiterCount(); count != 2 {
		t.Errorf("limiter entries = %d, want 2", count)
	}
}

func TestCheckoutMiddleware_IndependentFromGeneralLimit(t *testing.T) {
	rl := newTestRateLimiter(t, 1)

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	checkout := rl.CheckoutMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// API全般のバーストを使い切っても、チェックアウト側は独立に許可されること
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.RemoteAddr = "192.0.2.9:1000"
	general.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.RemoteAddr = "192.0.2.9:1000"
	rec := httptest.NewRecorder()
	checkout.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("checkout status = %d, want %d", rec.Code, http.StatusOK)
	}
}
