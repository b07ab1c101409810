package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/deskmate/internal/model"
)

// NoteServiceInterface はメモハンドラーが必要とするサービスインターフェース。
type NoteServiceInterface interface {
	Create(ctx context.Context, title, content string) (*model.Note, error)
	List(ctx context.Context) ([]model.Note, error)
}

// NoteHandler はメモ管理のHTTPハンドラー。
type NoteHandler struct {
	service NoteServiceInterface
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(service NoteServiceInterface) *NoteHandler {
	return &NoteHandler{service: service}
}

// noteCreateRequest はメモ作成リクエストのボディ。
type noteCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListNotes は全メモを新しい順で返す。
// GET /notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// CreateNote はメモを作成する。
// POST /notes {title, content}
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidNoteError())
		return
	}

	note, err := h.service.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}
