package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/deskmate/internal/model"
)

// FileServiceInterface はファイルメタデータハンドラーが必要とするサービスインターフェース。
type FileServiceInterface interface {
	Create(ctx context.Context, record model.FileRecord) (*model.FileRecord, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.FileRecord, error)
}

// FileHandler はファイルメタデータ台帳のHTTPハンドラー。
// ファイル本体のバイト列は受け取らない。
type FileHandler struct {
	service FileServiceInterface
}

// NewFileHandler はFileHandlerを生成する。
func NewFileHandler(service FileServiceInterface) *FileHandler {
	return &FileHandler{service: service}
}

// ListFiles は全レコードを挿入順で返す。
// GET /files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if records == nil {
		records = []model.FileRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// CreateFile はクライアントが組み立てたレコードを無検証で保存する。
// POST /files {...record}
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var record model.FileRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_BODY",
			Message:  "リクエストボディを解釈できません。",
			Category: "validation",
			Action:   "JSON形式のレコードを送信してください。",
		})
		return
	}

	created, err := h.service.Create(r.Context(), record)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteFile は指定IDのレコードを削除する。存在しないIDでも成功を返す（冪等）。
// DELETE /files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_BODY",
			Message:  "ファイルIDを解釈できません。",
			Category: "validation",
			Action:   "数値のファイルIDを指定してください。",
		})
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
