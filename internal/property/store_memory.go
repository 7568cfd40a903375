package property

import (
	"context"
	"strings"
	"sync"
	"time"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.PropertyProfileID]PropertyProfile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.PropertyProfileID]PropertyProfile)}
}

func (s *InMemoryStore) Get(_ context.Context, profileID id.PropertyProfileID) (PropertyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[profileID]
	if !ok {
		return PropertyProfile{}, sentinel.ErrNotFound
	}
	return cloneProfile(profile), nil
}

func (s *InMemoryStore) ListByWoodlandOwner(_ context.Context, ownerID id.WoodlandOwnerID) ([]PropertyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []PropertyProfile
	for _, profile := range s.profiles {
		if profile.WoodlandOwnerID == ownerID {
			out = append(out, cloneProfile(profile))
		}
	}
	return out, nil
}

func (s *InMemoryStore) Save(_ context.Context, profile PropertyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, existing := range s.profiles {
		if existing.WoodlandOwnerID == profile.WoodlandOwnerID && sameName(existing.Name, profile.Name) {
			return sentinel.ErrConflict
		}
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	profile.UpdatedAt = time.Now()
	s.profiles[profile.ID] = cloneProfile(profile)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, profile PropertyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.profiles[profile.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for otherID, other := range s.profiles {
		if otherID != profile.ID && other.WoodlandOwnerID == profile.WoodlandOwnerID && sameName(other.Name, profile.Name) {
			return sentinel.ErrConflict
		}
	}
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = time.Now()
	s.profiles[profile.ID] = cloneProfile(profile)
	return nil
}

// cloneProfile detaches the Compartments slice so callers mutating a returned
// (or saved) value cannot reach the record held under the store's mutex.
func cloneProfile(profile PropertyProfile) PropertyProfile {
	profile.Compartments = append([]Compartment(nil), profile.Compartments...)
	return profile
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
