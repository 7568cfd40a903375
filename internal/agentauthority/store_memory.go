package agentauthority

import (
	"context"
	"sync"
	"time"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu          sync.RWMutex
	authorities map[id.AuthorityID]AgentAuthority
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{authorities: make(map[id.AuthorityID]AgentAuthority)}
}

func (s *InMemoryStore) Get(_ context.Context, authorityID id.AuthorityID) (AgentAuthority, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	authority, ok := s.authorities[authorityID]
	if !ok {
		return AgentAuthority{}, sentinel.ErrNotFound
	}
	return cloneAuthority(authority), nil
}

func (s *InMemoryStore) Save(_ context.Context, authority AgentAuthority) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authorities[authority.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, existing := range s.authorities {
		if existing.AgencyID == authority.AgencyID &&
			existing.WoodlandOwnerID == authority.WoodlandOwnerID &&
			existing.Status != AuthorityRevoked {
			return sentinel.ErrConflict
		}
	}
	if authority.CreatedAt.IsZero() {
		authority.CreatedAt = time.Now()
	}
	authority.UpdatedAt = time.Now()
	s.authorities[authority.ID] = cloneAuthority(authority)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, authority AgentAuthority) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.authorities[authority.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	authority.CreatedAt = existing.CreatedAt
	authority.UpdatedAt = time.Now()
	s.authorities[authority.ID] = cloneAuthority(authority)
	return nil
}

func (s *InMemoryStore) ListByAgency(_ context.Context, agencyID id.AgencyID) ([]AgentAuthority, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []AgentAuthority
	for _, authority := range s.authorities {
		if authority.AgencyID == agencyID {
			out = append(out, cloneAuthority(authority))
		}
	}
	return out, nil
}

// cloneAuthority detaches the Forms slice so callers mutating a returned (or
// saved) value cannot reach the record held under the store's mutex.
func cloneAuthority(authority AgentAuthority) AgentAuthority {
	authority.Forms = append([]FormDocument(nil), authority.Forms...)
	return authority
}

// WoodlandOwnersForAgency returns the owners an agency holds an unrevoked
// authority for. Feeds access resolution for agent accounts.
func (s *InMemoryStore) WoodlandOwnersForAgency(_ context.Context, agencyID id.AgencyID) ([]id.WoodlandOwnerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []id.WoodlandOwnerID
	for _, authority := range s.authorities {
		if authority.AgencyID == agencyID && authority.Status != AuthorityRevoked {
			out = append(out, authority.WoodlandOwnerID)
		}
	}
	return out, nil
}
