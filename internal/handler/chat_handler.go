package handler

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"

	"github.com/hitoshi/deskmate/internal/chat"
	"github.com/hitoshi/deskmate/internal/model"
)

// ChatHandler は定型文チャットのHTTPハンドラー。
type ChatHandler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewChatHandler はChatHandlerを生成する。
func NewChatHandler(rng *rand.Rand) *ChatHandler {
	return &ChatHandler{rng: rng}
}

// chatRequest はチャットリクエストのボディ。
// メッセージの内容は応答の選択に影響しない。
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse はチャット応答のボディ。
type chatResponse struct {
	Response string `json:"response"`
}

// PostChat は定型文セットから一様ランダムに応答を返す。
// POST /chat {message}
func (h *ChatHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_BODY",
			Message:  "リクエストボディを解釈できません。",
			Category: "validation",
			Action:   "JSON形式の{message}を送信してください。",
		})
		return
	}

	h.mu.Lock()
	reply := chat.Reply(h.rng)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}
