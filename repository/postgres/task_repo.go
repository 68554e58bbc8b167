package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Poco-dev/todo-bot/domain"
	"github.com/Poco-dev/todo-bot/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, username, text, completed)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Username,
		task.Text,
		task.Completed,
	).Scan(&task.CreatedAt); err != nil {
		return nil, storageErr(err)
	}

	return task, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	const query = `
	SELECT id, user_id, username, text, completed, created_at
	FROM tasks
	WHERE user_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return tasks, nil
}

// SetCompleted updates the completion flag only when both id and owner match.
// The owner predicate is the authorization boundary, not an optimization.
func (r *taskRepository) SetCompleted(ctx context.Context, id string, ownerID int64, completed bool) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET completed = $3
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, username, text, completed, created_at
	`
	row := r.pool.QueryRow(ctx, query, id, ownerID, completed)
	return scanTask(row)
}

func (r *taskRepository) Delete(ctx context.Context, id string, ownerID int64) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountByOwner(ctx context.Context, ownerID int64) (domain.Stats, error) {
	const query = `
	SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
	FROM tasks
	WHERE user_id = $1
	`
	var stats domain.Stats
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&stats.Total, &stats.Completed); err != nil {
		return domain.Stats{}, storageErr(err)
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Username,
		&task.Text,
		&task.Completed,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storageErr(err)
	}
	return &task, nil
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return domain.WrapError(domain.ErrCodeUnavailable, "task store unavailable", err)
}
