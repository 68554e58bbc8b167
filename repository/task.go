package repository

import (
	"context"

	"github.com/Poco-dev/todo-bot/domain"
)

// TaskRepository is the persistence contract the task service works against.
// Mutations are keyed by id AND owner: a caller can never touch another
// owner's task through this interface.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error)
	SetCompleted(ctx context.Context, id string, ownerID int64, completed bool) (*domain.Task, error)
	Delete(ctx context.Context, id string, ownerID int64) error
	CountByOwner(ctx context.Context, ownerID int64) (domain.Stats, error)
}
