package overrides

import (
	"context"
	"sync"

	"cloud.google.com/go/civil"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps overrides in process memory. Used for local runs and tests.
type MemoryStore struct {
	mutex     sync.RWMutex
	overrides map[civil.Date]ManualOverride
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		overrides: make(map[civil.Date]ManualOverride),
	}
}

func (s *MemoryStore) Get(_ context.Context, date civil.Date) (*ManualOverride, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	o, ok := s.overrides[date]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *MemoryStore) Set(_ context.Context, override ManualOverride) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.overrides[override.Date] = override
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, date civil.Date) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.overrides[date]; !ok {
		return ErrOverrideNotFound
	}
	delete(s.overrides, date)
	return nil
}

func (s *MemoryStore) List(_ context.Context, from, to civil.Date) ([]ManualOverride, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	list := make([]ManualOverride, 0)
	for date, o := range s.overrides {
		if inRange(date, from, to) {
			list = append(list, o)
		}
	}
	sortByDate(list)
	return list, nil
}
