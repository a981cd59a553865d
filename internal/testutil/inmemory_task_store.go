package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/task"
	"github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryTaskStore implements task.Repository
type InMemoryTaskStore struct {
	*InMemoryStore[*task.Task]
	// claimMu makes ClaimNextPending atomic across concurrent workers,
	// standing in for the CAS a SQL backend performs.
	claimMu sync.Mutex
}

func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		InMemoryStore: NewInMemoryStore[*task.Task](),
	}
}

func copyTask(t *task.Task) *task.Task {
	if t == nil {
		return nil
	}
	out := *t
	if t.StartedAt != nil {
		v := *t.StartedAt
		out.StartedAt = &v
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		out.CompletedAt = &v
	}
	return &out
}

func (s *InMemoryTaskStore) Create(ctx context.Context, t *task.Task) error {
	if t == nil {
		return fmt.Errorf("task cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, t.ID, copyTask(t))
}

func (s *InMemoryTaskStore) Get(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "task not found")
	}
	return copyTask(t), nil
}

func (s *InMemoryTaskStore) Update(ctx context.Context, t *task.Task) error {
	if t == nil {
		return fmt.Errorf("task cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, t.ID, copyTask(t))
}

func taskFilterFn(_ context.Context, t *task.Task, f interface{}) bool {
	if t == nil {
		return false
	}
	filter, ok := f.(*types.TaskFilter)
	if !ok || filter == nil {
		return true
	}
	if filter.ShopID != "" && t.ShopID != filter.ShopID {
		return false
	}
	if filter.ScheduledTaskID != "" && t.ScheduledTaskID != filter.ScheduledTaskID {
		return false
	}
	if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, t.Status) {
		return false
	}
	return true
}

func taskSortFn(i, j *task.Task) bool {
	return i.CreatedAt.Before(j.CreatedAt)
}

func (s *InMemoryTaskStore) List(ctx context.Context, filter *types.TaskFilter) ([]*task.Task, error) {
	items, err := s.InMemoryStore.List(ctx, filter, taskFilterFn, taskSortFn)
	if err != nil {
		return nil, err
	}
	out := make([]*task.Task, len(items))
	for i, t := range items {
		out[i] = copyTask(t)
	}
	return out, nil
}

func (s *InMemoryTaskStore) Count(ctx context.Context, filter *types.TaskFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, taskFilterFn)
}

func (s *InMemoryTaskStore) ClaimNextPending(ctx context.Context) (*task.Task, error) {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()

	pending, err := s.InMemoryStore.List(ctx, &types.TaskFilter{
		Statuses: []types.TaskStatus{types.TaskStatusPending},
	}, taskFilterFn, taskSortFn)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	claimed := copyTask(pending[0])
	now := time.Now().UTC()
	claimed.Status = types.TaskStatusRunning
	claimed.StartedAt = &now
	claimed.UpdatedAt = now
	if err := s.InMemoryStore.Update(ctx, claimed.ID, copyTask(claimed)); err != nil {
		return nil, err
	}
	return claimed, nil
}

func (s *InMemoryTaskStore) HasInFlight(ctx context.Context, scheduledTaskID string) (bool, error) {
	count, err := s.InMemoryStore.Count(ctx, &types.TaskFilter{
		ScheduledTaskID: scheduledTaskID,
		Statuses:        []types.TaskStatus{types.TaskStatusPending, types.TaskStatusRunning},
	}, taskFilterFn)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
