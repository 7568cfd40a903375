package flapp

import (
	"context"
	"sync"
	"time"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	apps map[id.ApplicationID]Application
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{apps: make(map[id.ApplicationID]Application)}
}

func (s *InMemoryStore) Get(_ context.Context, appID id.ApplicationID) (Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[appID]
	if !ok {
		return Application{}, sentinel.ErrNotFound
	}
	return cloneApplication(app), nil
}

func (s *InMemoryStore) ListByWoodlandOwner(_ context.Context, ownerID id.WoodlandOwnerID) ([]Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Application
	for _, app := range s.apps {
		if app.WoodlandOwnerID == ownerID {
			out = append(out, cloneApplication(app))
		}
	}
	return out, nil
}

func (s *InMemoryStore) Save(_ context.Context, app Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.apps[app.ID]; ok {
		app.CreatedAt = existing.CreatedAt
	} else if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	app.UpdatedAt = time.Now()
	s.apps[app.ID] = cloneApplication(app)
	return nil
}

// cloneApplication detaches the slice fields so callers mutating a returned
// (or saved) value cannot reach the record held under the store's mutex.
func cloneApplication(app Application) Application {
	app.StatusHistories = append([]StatusHistory(nil), app.StatusHistories...)
	app.Documents = append([]DocumentMeta(nil), app.Documents...)
	app.Designations = append([]CompartmentDesignation(nil), app.Designations...)
	return app
}
