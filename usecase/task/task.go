package task

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Poco-dev/todo-bot/domain"
	appLogger "github.com/Poco-dev/todo-bot/pkg/logger"
	"github.com/Poco-dev/todo-bot/repository"
)

// MaxTextLen bounds task text to what a single Telegram message can carry.
const MaxTextLen = 4096

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// Add validates and persists a new task for the owner. Blank text is rejected
// before the store is touched.
func (uc *UseCase) Add(ctx context.Context, owner domain.Identity, text string) (*domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyTask
	}
	if utf8.RuneCountInString(text) > MaxTextLen {
		return nil, domain.ErrTaskTooLong
	}
	if owner.IsZero() {
		return nil, domain.ErrUnidentified
	}

	task := &domain.Task{
		UserID:   owner.ID,
		Username: owner.Username,
		Text:     text,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	appLogger.WithRequestID(ctx, uc.logger).Debug("task created",
		zap.String("id", created.ID), zap.Int64("owner", owner.ID))
	return created, nil
}

// List returns the owner's tasks, most recent first.
func (uc *UseCase) List(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	return uc.tasks.ListByOwner(ctx, ownerID)
}

// Toggle sets the completion flag. Setting it to its current value is an
// observable success, not an error.
func (uc *UseCase) Toggle(ctx context.Context, id string, ownerID int64, completed bool) (*domain.Task, error) {
	return uc.tasks.SetCompleted(ctx, id, ownerID, completed)
}

// Remove deletes the task when id and owner match; ErrTaskNotFound otherwise.
func (uc *UseCase) Remove(ctx context.Context, id string, ownerID int64) error {
	return uc.tasks.Delete(ctx, id, ownerID)
}

// Summarize reports total/completed/pending counts for the owner.
func (uc *UseCase) Summarize(ctx context.Context, ownerID int64) (domain.Stats, error) {
	return uc.tasks.CountByOwner(ctx, ownerID)
}
