// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/deskmate/internal/model"
)

// SessionCookieName はセッションIDを保持するHTTP Only Cookieの名前。
const SessionCookieName = "deskmate_session"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userEmailContextKey はリクエストコンテキストにユーザーのメールアドレスを
// 格納するためのキー。ユーザーはメールアドレスで一意に識別される。
var userEmailContextKey = contextKey("user_email")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// resolveSession はCookieからセッションを解決する。
// Cookieなし・無効・期限切れの場合はnilを返す。
func resolveSession(r *http.Request, finder SessionFinder) *model.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	session, err := finder.FindByID(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to find session",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return session
}

// NewPageGuardMiddleware はページ配信用の境界チェックを行うミドルウェアを返す。
// セッションが有効な場合はユーザーのメールアドレスをリクエストコンテキストに
// 注入し、無い場合は状態を変えずサインインページへリダイレクトする。
func NewPageGuardMiddleware(finder SessionFinder, signInPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolveSession(r, finder)
			if session == nil {
				http.Redirect(w, r, signInPath, http.StatusFound)
				return
			}
			ctx := context.WithValue(r.Context(), userEmailContextKey, session.UserEmail)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserEmailFromContext はリクエストコンテキストからユーザーのメールアドレスを
// 取得する。ページガードを通過したリクエストでのみ有効。
func UserEmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(userEmailContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("user email not found in context")
	}
	return email, nil
}
