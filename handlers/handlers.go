package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/sirupsen/logrus"

	"taskmaster-api/auth"
	"taskmaster-api/db"
	"taskmaster-api/models"
)

type Handler struct {
	UserRepo db.UserRepositoryInterface
	TaskRepo db.TaskRepositoryInterface
	Auth     *auth.Auth
	Cache    TaskCache
	Log      *logrus.Logger
}

func (h *Handler) logger() *logrus.Logger {
	if h.Log != nil {
		return h.Log
	}
	return logrus.StandardLogger()
}

type messageResponse struct {
	Message string `json:"message"`
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, messageResponse{Message: message})
}

func sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func isJSONContentType(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// taskView decorates a task with display forms of status and priority; the
// canonical values keep their underscores.
type taskView struct {
	*models.Task
	StatusDisplay   string `json:"status_display"`
	PriorityDisplay string `json:"priority_display"`
}

func viewTask(task *models.Task) taskView {
	return taskView{
		Task:            task,
		StatusDisplay:   task.Status.Display(),
		PriorityDisplay: task.Priority.Display(),
	}
}

func viewTasks(tasks []*models.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, viewTask(task))
	}
	return views
}

// userView is the sanitized user record returned from register and login.
type userView struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func viewUser(user *models.User) userView {
	return userView{ID: user.ID, Username: user.Username, Email: user.Email}
}
