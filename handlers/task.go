package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskmaster-api/db"
	"taskmaster-api/models"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 2000
	maxTaskBody       = 1 << 20 // 1MB
)

/*
handles routes:
- GET /api/tasks?status=&priority=&category_id= - list tasks with optional filters
- POST /api/tasks - create a new task
*/
func (h *Handler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTasks(w, r)
	case http.MethodPost:
		h.createTask(w, r)
	default:
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

/*
handles routes:
- GET /api/tasks/stats
- GET /api/tasks/recent?limit=
- GET/PUT/DELETE /api/tasks/{id}
*/
func (h *Handler) HandleTaskByID(w http.ResponseWriter, r *http.Request) {
	suffix := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	switch suffix {
	case "stats":
		h.taskStats(w, r)
		return
	case "recent":
		h.recentTasks(w, r)
		return
	}

	// nested paths like /api/tasks/5/comments are not routes at all
	if strings.Contains(suffix, "/") {
		sendError(w, "Not found", http.StatusNotFound)
		return
	}

	id, err := strconv.Atoi(suffix)
	if err != nil {
		sendError(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getTask(w, r, id)
	case http.MethodPut, http.MethodPatch:
		h.updateTask(w, r, id)
	case http.MethodDelete:
		h.deleteTask(w, r, id)
	default:
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type taskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	CategoryID  *int    `json:"category_id"`
}

// parseDueDate accepts RFC 3339 timestamps and bare dates.
func parseDueDate(value string) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// validate checks the supplied fields and copies them onto a patch.
// Absent fields stay nil. Owner id and timestamps are not part of the input
// shape at all, so they can never sneak into an update.
func (in *taskInput) validate() (models.TaskPatch, string) {
	patch := models.TaskPatch{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return patch, "Title is required"
		}
		if len(title) > maxTitleLen {
			return patch, "Title too long (max 100 chars)"
		}
		patch.Title = &title
	}
	if in.Description != nil {
		if len(*in.Description) > maxDescriptionLen {
			return patch, "Description too long (max 2000 chars)"
		}
		patch.Description = in.Description
	}
	if in.Status != nil {
		status := models.TaskStatus(*in.Status)
		if !status.Valid() {
			return patch, "Invalid status"
		}
		patch.Status = &status
	}
	if in.Priority != nil {
		priority := models.TaskPriority(*in.Priority)
		if !priority.Valid() {
			return patch, "Invalid priority"
		}
		patch.Priority = &priority
	}
	if in.DueDate != nil {
		due, err := parseDueDate(*in.DueDate)
		if err != nil {
			return patch, "Invalid due date"
		}
		patch.DueDate = due
	}
	if in.CategoryID != nil {
		patch.CategoryID = in.CategoryID
	}
	return patch, ""
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !isJSONContentType(r) {
		sendError(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTaskBody)
	var input taskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if input.Title == nil {
		sendError(w, "Title is required", http.StatusBadRequest)
		return
	}

	patch, msg := input.validate()
	if msg != "" {
		sendError(w, msg, http.StatusBadRequest)
		return
	}

	task := &models.Task{
		Title:      *patch.Title,
		DueDate:    patch.DueDate,
		CategoryID: patch.CategoryID,
		UserID:     claims.UserID,
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}

	if err := h.TaskRepo.Create(r.Context(), task); err != nil {
		h.logger().WithError(err).Error("create task")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, http.StatusCreated, map[string]any{
		"message": "Task created successfully",
		"task":    viewTask(task),
	})
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := models.TaskFilter{}
	query := r.URL.Query()
	if value := query.Get("status"); value != "" {
		status := models.TaskStatus(value)
		if !status.Valid() {
			sendError(w, "Invalid status", http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	if value := query.Get("priority"); value != "" {
		priority := models.TaskPriority(value)
		if !priority.Valid() {
			sendError(w, "Invalid priority", http.StatusBadRequest)
			return
		}
		filter.Priority = &priority
	}
	if value := query.Get("category_id"); value != "" {
		categoryID, err := strconv.Atoi(value)
		if err != nil {
			sendError(w, "Category ID must be an integer", http.StatusBadRequest)
			return
		}
		filter.CategoryID = &categoryID
	}

	tasks, err := h.TaskRepo.List(r.Context(), claims.UserID, filter)
	if err != nil {
		h.logger().WithError(err).Error("list tasks")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, http.StatusOK, map[string]any{"tasks": viewTasks(tasks)})
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request, id int) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if task, ok := h.cachedTask(r, claims.UserID, id); ok {
		sendJSON(w, http.StatusOK, map[string]any{"task": viewTask(task)})
		return
	}

	task, err := h.TaskRepo.GetByID(r.Context(), id, claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			sendError(w, "Task not found", http.StatusNotFound)
			return
		}
		h.logger().WithError(err).Error("get task")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	h.cacheTask(r, task)
	sendJSON(w, http.StatusOK, map[string]any{"task": viewTask(task)})
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request, id int) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !isJSONContentType(r) {
		sendError(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTaskBody)
	var input taskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	patch, msg := input.validate()
	if msg != "" {
		sendError(w, msg, http.StatusBadRequest)
		return
	}

	task, err := h.TaskRepo.Update(r.Context(), id, claims.UserID, patch)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			sendError(w, "Task not found", http.StatusNotFound)
			return
		}
		h.logger().WithError(err).Error("update task")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	h.invalidateTask(r, claims.UserID, id)
	sendJSON(w, http.StatusOK, map[string]any{
		"message": "Task updated successfully",
		"task":    viewTask(task),
	})
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request, id int) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deleted, err := h.TaskRepo.Delete(r.Context(), id, claims.UserID)
	if err != nil {
		h.logger().WithError(err).Error("delete task")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		sendError(w, "Task not found", http.StatusNotFound)
		return
	}

	h.invalidateTask(r, claims.UserID, id)
	sendJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func (h *Handler) taskStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := h.TaskRepo.Stats(r.Context(), claims.UserID, startOfDay(time.Now()))
	if err != nil {
		h.logger().WithError(err).Error("task stats")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (h *Handler) recentTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	tasks, err := h.TaskRepo.Recent(r.Context(), claims.UserID, limit)
	if err != nil {
		h.logger().WithError(err).Error("recent tasks")
		sendError(w, "Server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, http.StatusOK, map[string]any{"tasks": viewTasks(tasks)})
}

// startOfDay truncates to local midnight; the overdue comparison works on
// whole days, so a task due later today is not overdue yet.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
