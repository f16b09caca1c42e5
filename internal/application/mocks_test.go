package application_test

import (
	"context"
	"sync"

	"github.com/ericfisherdev/binvault/internal/domain/model"
)

// memoryStore is an in-memory driven.BinStore for service tests.
type memoryStore struct {
	mu        sync.Mutex
	name      string
	bins      []model.Bin
	listErr   error
	appendErr error
	appends   int
}

func newMemoryStore(name string) *memoryStore {
	return &memoryStore{name: name}
}

func (m *memoryStore) Name() string { return m.name }

func (m *memoryStore) List(_ context.Context) ([]model.Bin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]model.Bin(nil), m.bins...), nil
}

func (m *memoryStore) Append(_ context.Context, bin model.Bin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appends++
	if m.appendErr != nil {
		return m.appendErr
	}
	m.bins = append(m.bins, bin)
	return nil
}
