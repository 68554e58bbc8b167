package task_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Poco-dev/todo-bot/domain"
	taskUC "github.com/Poco-dev/todo-bot/usecase/task"
)

// memStore is an in-memory TaskRepository with the same ownership semantics
// as the Postgres implementation.
type memStore struct {
	mu    sync.Mutex
	seq   int64
	tasks []domain.Task
}

func (m *memStore) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *task
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	m.seq++
	stored.CreatedAt = time.Unix(m.seq, 0)
	m.tasks = append(m.tasks, stored)

	out := stored
	return &out, nil
}

func (m *memStore) ListByOwner(_ context.Context, ownerID int64) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.Task{}
	for i := len(m.tasks) - 1; i >= 0; i-- {
		if m.tasks[i].UserID == ownerID {
			out = append(out, m.tasks[i])
		}
	}
	return out, nil
}

func (m *memStore) SetCompleted(_ context.Context, id string, ownerID int64, completed bool) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].UserID == ownerID {
			m.tasks[i].Completed = completed
			out := m.tasks[i]
			return &out, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (m *memStore) Delete(_ context.Context, id string, ownerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].UserID == ownerID {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (m *memStore) CountByOwner(_ context.Context, ownerID int64) (domain.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats domain.Stats
	for _, t := range m.tasks {
		if t.UserID != ownerID {
			continue
		}
		stats.Total++
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func newService() (*taskUC.UseCase, *memStore) {
	store := &memStore{}
	return taskUC.New(store, nil), store
}

func TestAddRejectsBlankText(t *testing.T) {
	uc, store := newService()
	owner := domain.Identity{ID: 42}

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := uc.Add(context.Background(), owner, text)
		require.ErrorIs(t, err, domain.ErrEmptyTask)
	}
	require.Empty(t, store.tasks, "no record may be created for blank input")
}

func TestAddRejectsOverlongText(t *testing.T) {
	uc, _ := newService()

	_, err := uc.Add(context.Background(), domain.Identity{ID: 42}, strings.Repeat("x", taskUC.MaxTextLen+1))
	require.ErrorIs(t, err, domain.ErrTaskTooLong)
}

func TestAddTrimsAndStoresOwner(t *testing.T) {
	uc, _ := newService()
	owner := domain.Identity{ID: 42, Username: "alice"}

	created, err := uc.Add(context.Background(), owner, "  Buy milk  ")
	require.NoError(t, err)
	require.Equal(t, "Buy milk", created.Text)
	require.Equal(t, int64(42), created.UserID)
	require.Equal(t, "alice", created.Username)
	require.False(t, created.Completed)
	require.NotEmpty(t, created.ID)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	uc, _ := newService()
	owner := domain.Identity{ID: 42}
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := uc.Add(ctx, owner, text)
		require.NoError(t, err)
	}

	tasks, err := uc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, "third", tasks[0].Text)
	require.Equal(t, "first", tasks[2].Text)
}

func TestOwnershipIsolation(t *testing.T) {
	uc, _ := newService()
	ctx := context.Background()
	alice := domain.Identity{ID: 42}
	bob := domain.Identity{ID: 7}

	created, err := uc.Add(ctx, alice, "secret plan")
	require.NoError(t, err)

	bobTasks, err := uc.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, bobTasks)

	_, err = uc.Toggle(ctx, created.ID, bob.ID, true)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = uc.Remove(ctx, created.ID, bob.ID)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	// the owner is unaffected by the failed cross-owner attempts
	aliceTasks, err := uc.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceTasks, 1)
	require.False(t, aliceTasks[0].Completed)
}

func TestToggleIsIdempotent(t *testing.T) {
	uc, _ := newService()
	ctx := context.Background()
	owner := domain.Identity{ID: 42}

	created, err := uc.Add(ctx, owner, "water plants")
	require.NoError(t, err)

	first, err := uc.Toggle(ctx, created.ID, owner.ID, true)
	require.NoError(t, err)
	require.True(t, first.Completed)

	second, err := uc.Toggle(ctx, created.ID, owner.ID, true)
	require.NoError(t, err)
	require.True(t, second.Completed)
}

func TestRemoveMissingIDIsNotFound(t *testing.T) {
	uc, _ := newService()

	err := uc.Remove(context.Background(), uuid.NewString(), 42)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestSummarizePendingInvariant(t *testing.T) {
	uc, _ := newService()
	ctx := context.Background()
	owner := domain.Identity{ID: 42}

	var ids []string
	for _, text := range []string{"a", "b", "c", "d"} {
		created, err := uc.Add(ctx, owner, text)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	for _, id := range ids[:2] {
		_, err := uc.Toggle(ctx, id, owner.ID, true)
		require.NoError(t, err)
	}

	stats, err := uc.Summarize(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 2, stats.Completed)
	require.Equal(t, stats.Total-stats.Completed, stats.Pending)
	require.GreaterOrEqual(t, stats.Pending, 0)
}

func TestFullLifecycle(t *testing.T) {
	uc, _ := newService()
	ctx := context.Background()
	owner := domain.Identity{ID: 42}

	created, err := uc.Add(ctx, owner, "Buy milk")
	require.NoError(t, err)

	tasks, err := uc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Buy milk", tasks[0].Text)
	require.False(t, tasks[0].Completed)

	_, err = uc.Toggle(ctx, created.ID, owner.ID, true)
	require.NoError(t, err)

	tasks, err = uc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.True(t, tasks[0].Completed)

	require.NoError(t, uc.Remove(ctx, created.ID, owner.ID))

	tasks, err = uc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)

	stats, err := uc.Summarize(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, domain.Stats{}, stats)
}
