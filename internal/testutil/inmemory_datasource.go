package testutil

import (
	"context"
	"sync"

	"github.com/fiscalflow/fiscalflow/internal/render"
)

// InMemoryDataSource implements render.DataSource over fixed fixtures,
// filtered by the reporting window.
type InMemoryDataSource struct {
	mu      sync.RWMutex
	entries map[string][]render.Entry
	err     error
}

func NewInMemoryDataSource() *InMemoryDataSource {
	return &InMemoryDataSource{
		entries: make(map[string][]render.Entry),
	}
}

// AddEntries registers fixture entries for a shop.
func (s *InMemoryDataSource) AddEntries(shopID string, entries ...render.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[shopID] = append(s.entries[shopID], entries...)
}

// SetError makes every fetch fail with err.
func (s *InMemoryDataSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *InMemoryDataSource) FetchEntries(_ context.Context, shopID string, window render.Window) ([]render.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	var out []render.Entry
	for _, e := range s.entries[shopID] {
		if e.Date.Before(window.Start) || !e.Date.Before(window.End) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
