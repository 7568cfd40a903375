package filestorage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fellgate/pkg/platform/sentinel"
)

// InMemoryStore keeps file bytes in process. Dev wiring and tests only.
type InMemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{files: make(map[string][]byte)}
}

func (s *InMemoryStore) Save(_ context.Context, fileName string, content []byte) (StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	location := fmt.Sprintf("mem/%s/%s", uuid.NewString(), fileName)
	s.files[location] = append([]byte(nil), content...)
	return StoredFile{Location: location}, nil
}

func (s *InMemoryStore) Remove(_ context.Context, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[location]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.files, location)
	return nil
}

// Get returns stored bytes. Test helper.
func (s *InMemoryStore) Get(location string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[location]
	return content, ok
}
