package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	Create(ctx context.Context, in task.CreateInput) (*model.Task, error)
	Update(ctx context.Context, id int64, text string, completed bool) (*model.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Task, error)
}

// TaskHandler はToDoリスト管理のHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// taskCreateRequest はタスク作成リクエストのボディ。
// id・completed・createdAtはオフライン作成レコードの突き合わせ用の任意項目。
type taskCreateRequest struct {
	Text      string     `json:"text"`
	ID        *int64     `json:"id,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// taskUpdateRequest はタスク更新リクエストのボディ。
type taskUpdateRequest struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// successResponse は削除系エンドポイントの応答。
type successResponse struct {
	Success bool `json:"success"`
}

// ListTasks は全タスクを新しい順で返す。
// GET /tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask はタスクを作成する。
// POST /tasks {text, id?, completed?, createdAt?}
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidTaskError())
		return
	}

	created, err := h.service.Create(r.Context(), task.CreateInput{
		Text:      req.Text,
		ID:        req.ID,
		Completed: req.Completed,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTask は指定IDのタスクのテキストと完了状態を置き換える。
// PUT /tasks/{id} {text, completed}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidTaskError())
		return
	}

	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidTaskError())
		return
	}

	updated, err := h.service.Update(r.Context(), id, req.Text, req.Completed)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTask は指定IDのタスクを削除する。存在しないIDでも成功を返す（冪等）。
// DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidTaskError())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// parseTaskID はURLパラメータからタスクIDを取り出す。
func parseTaskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
