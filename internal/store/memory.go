// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"loan-workflow/internal/common/errors"
	"loan-workflow/internal/models"
)

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu   sync.RWMutex
	apps map[string]*models.Application
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[string]*models.Application)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, errors.NewNotFoundError(id)
	}
	return app.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, status *models.ApplicationStatus) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Application, 0, len(s.apps))
	for _, app := range s.apps {
		if status != nil && app.Status != *status {
			continue
		}
		out = append(out, app.Clone())
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := app.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.apps[stored.ID] = stored
	return nil
}

func (s *MemoryStore) Commit(ctx context.Context, id string, patch models.Patch) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, errors.NewNotFoundError(id)
	}

	updated := app.Clone()
	patch.Apply(updated)
	updated.UpdatedAt = time.Now().UTC()
	s.apps[id] = updated
	return updated.Clone(), nil
}

func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.apps[id]; !ok {
		return errors.NewNotFoundError(id)
	}
	delete(s.apps, id)
	return nil
}
