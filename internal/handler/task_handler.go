// Package handler exposes the task service over a JSON REST API. Single
// task operations address the task with an "id" query parameter.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gurkanbulca/taskdeck/internal/engine"
	"github.com/gurkanbulca/taskdeck/internal/models"
	"github.com/gurkanbulca/taskdeck/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// TaskService is the part of service.TaskService the handler calls.
type TaskService interface {
	CreateTask(ctx context.Context, in service.CreateTaskInput) (models.TaskView, error)
	GetTask(ctx context.Context, id string) (models.TaskView, error)
	ListTasks(ctx context.Context, in service.ListTasksInput) ([]models.TaskView, error)
	UpdateTask(ctx context.Context, id string, in service.UpdateTaskInput) (models.TaskView, error)
	DeleteTask(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type TaskHandler struct {
	svc      TaskService
	basePath string
	log      *slog.Logger
}

func NewTaskHandler(svc TaskService, basePath string, log *slog.Logger) *TaskHandler {
	if basePath == "" {
		basePath = "/api/tasks"
	}
	return &TaskHandler{
		svc:      svc,
		basePath: strings.TrimSuffix(basePath, "/"),
		log:      log,
	}
}

// Register mounts the task routes and /healthz on mux.
func (h *TaskHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+h.basePath, h.handleGet)
	mux.HandleFunc("POST "+h.basePath, h.handleCreate)
	mux.HandleFunc("PUT "+h.basePath, h.handleUpdate)
	mux.HandleFunc("DELETE "+h.basePath, h.handleDelete)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// handleGet lists tasks, or returns one when ?id= is present.
func (h *TaskHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("id") {
		id, ok := h.requireID(w, r)
		if !ok {
			return
		}
		view, err := h.svc.GetTask(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, view)
		return
	}

	key, err := engine.ParseSortKey(q.Get("sortBy"))
	if err != nil {
		h.writeError(w, r, &service.ValidationError{Field: "sortBy", Message: "sortBy must be one of title, deadline, priority"})
		return
	}
	dir, err := engine.ParseDirection(q.Get("sortDirection"))
	if err != nil {
		h.writeError(w, r, &service.ValidationError{Field: "sortDirection", Message: "sortDirection must be ascending or descending"})
		return
	}

	views, err := h.svc.ListTasks(r.Context(), service.ListTasksInput{SortBy: key, Direction: dir})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if views == nil {
		views = []models.TaskView{}
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.svc.CreateTask(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, view)
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r)
	if !ok {
		return
	}
	var req updateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.svc.UpdateTask(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.log.WarnContext(r.Context(), "health check failed", "error", err)
		h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *TaskHandler) requireID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		h.writeError(w, r, &service.ValidationError{Field: "id", Message: "id query parameter is required"})
		return "", false
	}
	return id, true
}

func (h *TaskHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "request body must be a JSON object"
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		h.writeError(w, r, &service.ValidationError{Message: msg})
		return false
	}
	return true
}

func (h *TaskHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: ve.Message, Field: ve.Field})
	case errors.Is(err, service.ErrTaskNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Message: "task not found"})
	case errors.Is(err, context.DeadlineExceeded):
		h.log.ErrorContext(r.Context(), "request timed out", "error", err)
		h.writeJSON(w, http.StatusGatewayTimeout, errorResponse{Message: "request timed out"})
	default:
		h.log.ErrorContext(r.Context(), "request failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func (h *TaskHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}
