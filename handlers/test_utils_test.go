package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskmaster-api/auth"
	"taskmaster-api/db"
	"taskmaster-api/models"
)

const testSecret = "test-secret-32-bytes-long-1234567890"

func testAuth() *auth.Auth {
	return auth.New(auth.Config{
		Secret:      []byte(testSecret),
		RegisterTTL: time.Hour,
		LoginTTL:    24 * time.Hour,
	})
}

// MockUserRepository keeps users in a map keyed by email.
type MockUserRepository struct {
	users     map[string]*models.User
	createErr error
	getErr    error
	nextID    int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*models.User), nextID: 1}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[user.Email]; exists {
		return db.ErrDuplicateEmail
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	m.users[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	user, ok := m.users[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	return user, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, db.ErrNotFound
}

// MockTaskRepository mimics the store contract over a map and records the
// arguments handlers pass down.
type MockTaskRepository struct {
	tasks  map[int]*models.Task
	nextID int

	lastFilter   models.TaskFilter
	lastDayStart time.Time
	lastLimit    int
	err          error
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{tasks: make(map[int]*models.Task), nextID: 1}
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if m.err != nil {
		return m.err
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = task
	return nil
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id, ownerID int) (*models.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	task, ok := m.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, db.ErrNotFound
	}
	return task, nil
}

func (m *MockTaskRepository) List(ctx context.Context, ownerID int, filter models.TaskFilter) ([]*models.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastFilter = filter
	tasks := []*models.Task{}
	for _, task := range m.tasks {
		if task.UserID == ownerID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, id, ownerID int, patch models.TaskPatch) (*models.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	task, ok := m.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, db.ErrNotFound
	}
	if patch.Title != nil {
		task.Title = *patch.Title
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
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.CategoryID != nil {
		task.CategoryID = patch.CategoryID
	}
	task.UpdatedAt = time.Now().UTC()
	return task, nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id, ownerID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	task, ok := m.tasks[id]
	if !ok || task.UserID != ownerID {
		return false, nil
	}
	delete(m.tasks, id)
	return true, nil
}

func (m *MockTaskRepository) Stats(ctx context.Context, ownerID int, dayStart time.Time) (*models.TaskStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastDayStart = dayStart
	stats := &models.TaskStats{}
	for _, task := range m.tasks {
		if task.UserID != ownerID {
			continue
		}
		stats.TotalTasks++
		switch task.Status {
		case models.StatusCompleted:
			stats.CompletedTasks++
		case models.StatusPending:
			stats.PendingTasks++
		case models.StatusInProgress:
			stats.InProgressTasks++
		}
		if task.Priority == models.PriorityHigh {
			stats.HighPriorityTasks++
		}
		if task.DueDate != nil && task.DueDate.Before(dayStart) && task.Status != models.StatusCompleted {
			stats.OverdueTasks++
		}
	}
	return stats, nil
}

func (m *MockTaskRepository) Recent(ctx context.Context, ownerID, limit int) ([]*models.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastLimit = limit
	tasks := []*models.Task{}
	for _, task := range m.tasks {
		if task.UserID == ownerID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// authedRequest builds a request that already passed the auth middleware.
func authedRequest(t *testing.T, method, target string, body io.Reader, userID int) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	claims := &auth.Claims{UserID: userID, Username: "alice", Email: "alice@x.com"}
	return req.WithContext(context.WithValue(req.Context(), claimsKey, claims))
}
