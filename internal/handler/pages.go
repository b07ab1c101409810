package handler

import (
	"net/http"
	"path/filepath"
)

// PageHandler はSPAのページ配信を行うHTTPハンドラー。
// UIの実体はこのサーバーの関心事ではない。staticDirが設定されていれば
// そこからHTMLを配信し、未設定の場合は最小限のプレースホルダーを返す。
type PageHandler struct {
	staticDir string
}

// NewPageHandler はPageHandlerを生成する。staticDirは空でもよい。
func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{staticDir: staticDir}
}

// App はメインのアプリケーションページを配信する。
// セッションガードの背後に配置される。
// GET /app
func (h *PageHandler) App(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, "app.html", appFallbackHTML)
}

// SignIn はサインインページを配信する。認証不要。
// GET /signin
func (h *PageHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, "signin.html", signInFallbackHTML)
}

func (h *PageHandler) servePage(w http.ResponseWriter, r *http.Request, name, fallback string) {
	if h.staticDir != "" {
		http.ServeFile(w, r, filepath.Join(h.staticDir, name))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(fallback))
}

const appFallbackHTML = `<!doctype html>
<html lang="ja">
<head><meta charset="utf-8"><title>deskmate</title></head>
<body><h1>deskmate</h1><p>静的アセットが未設定です。STATIC_DIRを設定してください。</p></body>
</html>
`

const signInFallbackHTML = `<!doctype html>
<html lang="ja">
<head><meta charset="utf-8"><title>deskmate - sign in</title></head>
<body><h1>サインイン</h1><p>POST /signin にメールアドレスを送信してください。</p></body>
</html>
`
