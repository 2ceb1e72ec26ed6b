package http

import (
	"log/slog"
	"net/http"
	"time"

	"kadry/internal/task"
)

type taskHandler struct {
	tasks  *task.Service
	logger *slog.Logger
}

type taskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedBy   int64      `json:"created_by"`
	TakenBy     *int64     `json:"taken_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toTaskResponse(t *task.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedBy:   t.CreatedBy,
		TakenBy:     t.TakenBy,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func (h *taskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t := &task.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    task.Priority(req.Priority),
	}
	if err := h.tasks.Create(r.Context(), t); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

func (h *taskHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		tasks []task.Task
		err   error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		tasks, err = h.tasks.ListByStatus(r.Context(), task.Status(status))
	} else {
		tasks, err = h.tasks.List(r.Context())
	}
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *taskHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "taskID")
	if !ok {
		return
	}
	t, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

// take claims the task for the caller; 409 when someone beat them to it.
func (h *taskHandler) take(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "taskID")
	if !ok {
		return
	}
	t, err := h.tasks.Take(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *taskHandler) complete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "taskID")
	if !ok {
		return
	}
	t, err := h.tasks.Complete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *taskHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "taskID")
	if !ok {
		return
	}
	if err := h.tasks.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
