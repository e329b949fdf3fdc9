package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskmaster-api/models"
)

// defines methods for task db operations; every method takes the owner id
// from the caller and folds it into the query, so a task owned by someone
// else behaves exactly like a task that does not exist
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id, ownerID int) (*models.Task, error)
	List(ctx context.Context, ownerID int, filter models.TaskFilter) ([]*models.Task, error)
	Update(ctx context.Context, id, ownerID int, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id, ownerID int) (bool, error)
	Stats(ctx context.Context, ownerID int, dayStart time.Time) (*models.TaskStats, error)
	Recent(ctx context.Context, ownerID, limit int) ([]*models.Task, error)
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `t.id, t.title, t.description, t.status, t.priority,
	 t.due_date, t.category_id, c.name AS category_name, t.user_id, t.created_at, t.updated_at`

const taskFrom = ` FROM tasks t LEFT JOIN categories c ON t.category_id = c.id`

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `INSERT INTO tasks (title, description, status, priority, due_date, category_id, user_id, created_at, updated_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		task.Title, nullString(task.Description), task.Status, task.Priority,
		nullTime(task.DueDate), nullInt(task.CategoryID), task.UserID,
		task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID)
}

func (r *TaskRepository) GetByID(ctx context.Context, id, ownerID int) (*models.Task, error) {
	query := `SELECT ` + taskColumns + taskFrom + ` WHERE t.id = $1 AND t.user_id = $2`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// List returns the owner's tasks narrowed by the optional filters, ordered by
// due date ascending with undated tasks last, newest-created first among ties.
func (r *TaskRepository) List(ctx context.Context, ownerID int, filter models.TaskFilter) ([]*models.Task, error) {
	qb := &queryBuilder{}
	qb.equals("t.user_id", ownerID)
	if filter.Status != nil {
		qb.equals("t.status", *filter.Status)
	}
	if filter.Priority != nil {
		qb.equals("t.priority", *filter.Priority)
	}
	if filter.CategoryID != nil {
		qb.equals("t.category_id", *filter.CategoryID)
	}

	query := `SELECT ` + taskColumns + taskFrom +
		` WHERE ` + qb.whereClause() +
		` ORDER BY t.due_date ASC NULLS LAST, t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Update applies the supplied fields only. Owner id and creation time are
// never part of the SET clause; the updated timestamp always refreshes.
func (r *TaskRepository) Update(ctx context.Context, id, ownerID int, patch models.TaskPatch) (*models.Task, error) {
	qb := &queryBuilder{}
	if patch.Title != nil {
		qb.set("title", *patch.Title)
	}
	if patch.Description != nil {
		qb.set("description", nullString(*patch.Description))
	}
	if patch.Status != nil {
		qb.set("status", *patch.Status)
	}
	if patch.Priority != nil {
		qb.set("priority", *patch.Priority)
	}
	if patch.DueDate != nil {
		qb.set("due_date", *patch.DueDate)
	}
	if patch.CategoryID != nil {
		qb.set("category_id", *patch.CategoryID)
	}
	qb.set("updated_at", time.Now().UTC())
	qb.equals("id", id)
	qb.equals("user_id", ownerID)

	query := `UPDATE tasks SET ` + qb.setClause() + ` WHERE ` + qb.whereClause()

	result, err := r.db.ExecContext(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id, ownerID)
}

// Delete reports whether a row was removed; deleting a missing or foreign
// task is a no-op, not an error.
func (r *TaskRepository) Delete(ctx context.Context, id, ownerID int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Stats aggregates the owner's tasks in a single query. dayStart is the local
// start of the current day; a task is overdue when its due date falls strictly
// before it and the task is not completed, so a task due earlier today does
// not count until the day rolls over.
func (r *TaskRepository) Stats(ctx context.Context, ownerID int, dayStart time.Time) (*models.TaskStats, error) {
	// placeholders stay in ascending textual order: sqlite assigns $N
	// parameters indexes by first appearance, not by the number
	query := `SELECT
	 COUNT(*),
	 COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
	 COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
	 COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
	 COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0),
	 COALESCE(SUM(CASE WHEN due_date IS NOT NULL AND due_date < $1 AND status != 'completed' THEN 1 ELSE 0 END), 0)
	 FROM tasks WHERE user_id = $2`

	stats := &models.TaskStats{}
	err := r.db.QueryRowContext(ctx, query, dayStart, ownerID).Scan(
		&stats.TotalTasks, &stats.CompletedTasks, &stats.PendingTasks,
		&stats.InProgressTasks, &stats.HighPriorityTasks, &stats.OverdueTasks,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Recent returns the owner's most recently created tasks. The limit is
// clamped to [1, 20]; zero or negative values fall back to 5.
func (r *TaskRepository) Recent(ctx context.Context, ownerID, limit int) ([]*models.Task, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 20 {
		limit = 20
	}

	query := `SELECT ` + taskColumns + taskFrom +
		` WHERE t.user_id = $1 ORDER BY t.created_at DESC, t.id DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var (
		description  sql.NullString
		dueDate      sql.NullTime
		categoryID   sql.NullInt64
		categoryName sql.NullString
	)
	err := row.Scan(
		&task.ID, &task.Title, &description, &task.Status, &task.Priority,
		&dueDate, &categoryID, &categoryName, &task.UserID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Description = description.String
	if dueDate.Valid {
		due := dueDate.Time
		task.DueDate = &due
	}
	if categoryID.Valid {
		cid := int(categoryID.Int64)
		task.CategoryID = &cid
	}
	if categoryName.Valid {
		name := categoryName.String
		task.CategoryName = &name
	}
	return task, nil
}

func collectTasks(rows *sql.Rows) ([]*models.Task, error) {
	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
