package useraccess

import (
	"context"
	"strings"
	"sync"
	"time"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/sentinel"
)

// InMemoryStore keeps user accounts in process, keyed by id with an email
// index. Email uniqueness is enforced here the way the Postgres store enforces
// it with a unique constraint.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[id.UserAccountID]UserAccount
	byEmail  map[string]id.UserAccountID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[id.UserAccountID]UserAccount),
		byEmail:  make(map[string]id.UserAccountID),
	}
}

func (s *InMemoryStore) FindByID(_ context.Context, accountID id.UserAccountID) (UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return UserAccount{}, sentinel.ErrNotFound
	}
	return account, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accountID, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return UserAccount{}, sentinel.ErrNotFound
	}
	return s.accounts[accountID], nil
}

func (s *InMemoryStore) Save(_ context.Context, account UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(account.Email)
	if existing, ok := s.byEmail[key]; ok && existing != account.ID {
		return sentinel.ErrConflict
	}
	if _, ok := s.accounts[account.ID]; ok {
		return sentinel.ErrConflict
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = account
	s.byEmail[key] = account.ID
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, account UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.accounts[account.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byEmail, normalizeEmail(existing.Email))
	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = time.Now()
	s.accounts[account.ID] = account
	s.byEmail[normalizeEmail(account.Email)] = account.ID
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
