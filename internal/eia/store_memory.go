package eia

import (
	"context"
	"sync"
	"time"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.ApplicationID]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.ApplicationID]Record)}
}

func (s *InMemoryStore) Get(_ context.Context, appID id.ApplicationID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[appID]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	return record, nil
}

func (s *InMemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.UpdatedAt = time.Now()
	s.records[record.ApplicationID] = record
	return nil
}
