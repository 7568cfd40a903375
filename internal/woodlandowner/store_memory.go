package woodlandowner

import (
	"context"
	"sync"
	"time"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	owners   map[id.WoodlandOwnerID]WoodlandOwner
	agencies map[id.AgencyID]Agency
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		owners:   make(map[id.WoodlandOwnerID]WoodlandOwner),
		agencies: make(map[id.AgencyID]Agency),
	}
}

func (s *InMemoryStore) SaveOwner(_ context.Context, owner WoodlandOwner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[owner.ID]; ok {
		return sentinel.ErrConflict
	}
	owner.CreatedAt = time.Now()
	owner.UpdatedAt = owner.CreatedAt
	s.owners[owner.ID] = owner
	return nil
}

func (s *InMemoryStore) GetOwner(_ context.Context, ownerID id.WoodlandOwnerID) (WoodlandOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.owners[ownerID]
	if !ok {
		return WoodlandOwner{}, sentinel.ErrNotFound
	}
	return owner, nil
}

func (s *InMemoryStore) SaveAgency(_ context.Context, agency Agency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agencies[agency.ID]; ok {
		return sentinel.ErrConflict
	}
	agency.CreatedAt = time.Now()
	agency.UpdatedAt = agency.CreatedAt
	s.agencies[agency.ID] = agency
	return nil
}

func (s *InMemoryStore) GetAgency(_ context.Context, agencyID id.AgencyID) (Agency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agency, ok := s.agencies[agencyID]
	if !ok {
		return Agency{}, sentinel.ErrNotFound
	}
	return agency, nil
}
