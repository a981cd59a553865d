package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/scheduledtask"
	"github.com/fiscalflow/fiscalflow/internal/errors"
)

// InMemoryScheduledTaskStore implements scheduledtask.Repository
type InMemoryScheduledTaskStore struct {
	*InMemoryStore[*scheduledtask.ScheduledTask]
	// runMu serializes UpdateRun so concurrent dispatchers see a
	// consistent NextRun, mirroring the row lock a SQL backend takes.
	runMu sync.Mutex
}

func NewInMemoryScheduledTaskStore() *InMemoryScheduledTaskStore {
	return &InMemoryScheduledTaskStore{
		InMemoryStore: NewInMemoryStore[*scheduledtask.ScheduledTask](),
	}
}

func copyScheduledTask(t *scheduledtask.ScheduledTask) *scheduledtask.ScheduledTask {
	if t == nil {
		return nil
	}
	out := *t
	if t.LastRun != nil {
		v := *t.LastRun
		out.LastRun = &v
	}
	return &out
}

func (s *InMemoryScheduledTaskStore) Create(ctx context.Context, t *scheduledtask.ScheduledTask) error {
	if t == nil {
		return fmt.Errorf("scheduled task cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, t.ID, copyScheduledTask(t))
}

func (s *InMemoryScheduledTaskStore) Get(ctx context.Context, id string) (*scheduledtask.ScheduledTask, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "scheduled task not found")
	}
	return copyScheduledTask(t), nil
}

func (s *InMemoryScheduledTaskStore) Update(ctx context.Context, t *scheduledtask.ScheduledTask) error {
	if t == nil {
		return fmt.Errorf("scheduled task cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, t.ID, copyScheduledTask(t))
}

func (s *InMemoryScheduledTaskStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryScheduledTaskStore) List(ctx context.Context, filters *scheduledtask.ListFilters) ([]*scheduledtask.ScheduledTask, error) {
	items, err := s.InMemoryStore.List(ctx, filters, func(_ context.Context, t *scheduledtask.ScheduledTask, f interface{}) bool {
		filter, ok := f.(*scheduledtask.ListFilters)
		if !ok || filter == nil {
			return true
		}
		if filter.ShopID != "" && t.ShopID != filter.ShopID {
			return false
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			return false
		}
		return true
	}, func(i, j *scheduledtask.ScheduledTask) bool {
		return i.ID < j.ID
	})
	if err != nil {
		return nil, err
	}

	out := make([]*scheduledtask.ScheduledTask, len(items))
	for i, t := range items {
		out[i] = copyScheduledTask(t)
	}
	return out, nil
}

func (s *InMemoryScheduledTaskStore) FindDue(ctx context.Context, now time.Time) ([]*scheduledtask.ScheduledTask, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, t *scheduledtask.ScheduledTask, _ interface{}) bool {
		return t.IsDue(now)
	}, func(i, j *scheduledtask.ScheduledTask) bool {
		return i.NextRun.Before(j.NextRun)
	})
	if err != nil {
		return nil, err
	}

	out := make([]*scheduledtask.ScheduledTask, len(items))
	for i, t := range items {
		out[i] = copyScheduledTask(t)
	}
	return out, nil
}

func (s *InMemoryScheduledTaskStore) UpdateRun(ctx context.Context, id string, lastRun *time.Time, nextRun *time.Time) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return errors.New(errors.ErrCodeNotFound, "scheduled task not found")
	}

	updated := copyScheduledTask(t)
	if lastRun != nil {
		v := *lastRun
		updated.LastRun = &v
	}
	if nextRun != nil {
		updated.NextRun = *nextRun
	}
	updated.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, id, updated)
}
