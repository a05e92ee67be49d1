package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/shared"
)

// TaskRepository persists backend tasks [models.Task], always scoped to an owning user.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new [TaskRepository] with the given database connection
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns the user's live tasks, newest first.
func (r *TaskRepository) List(userID string) ([]models.Task, error) {
	query := `
		SELECT id, title, description, completed
		FROM tasks
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY sequence DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tasks, nil
}

// Get retrieves one live task owned by userID.
func (r *TaskRepository) Get(userID, id string) (*models.Task, error) {
	query := `
		SELECT id, title, description, completed
		FROM tasks
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`

	var task models.Task
	err := r.db.QueryRow(query, id, userID).Scan(&task.ID, &task.Title, &task.Description, &task.Completed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}
	return &task, nil
}

// Create inserts a new incomplete task from the normalized input.
func (r *TaskRepository) Create(userID string, in models.TaskInput) (*models.Task, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "tasks")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	task := &models.Task{ID: shared.GenerateID(), Title: in.Title, Description: in.Description}
	now := time.Now()

	query := `
		INSERT INTO tasks (id, sequence, user_id, title, description, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`

	if _, err := r.db.Exec(query, task.ID, sequence, userID, task.Title, task.Description, now, now); err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return task, nil
}

// Update applies changes to a task and returns the stored result.
func (r *TaskRepository) Update(userID, id string, changes models.TaskChanges) (*models.Task, error) {
	if err := changes.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	current, err := r.Get(userID, id)
	if err != nil {
		return nil, err
	}

	updated := changes.Apply(*current)

	query := `
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, updated.Title, updated.Description, updated.Completed, time.Now(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}

	return &updated, nil
}

// Delete soft-deletes a task owned by userID.
func (r *TaskRepository) Delete(userID, id string) error {
	query := `
		UPDATE tasks SET deleted_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}

	return nil
}
