package store

import (
	"context"
	"sync"

	"github.com/serroba/shortlink/internal/shortener"
)

// MemoryStore is the in-memory shortener.Registry. Contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[shortener.Code]shortener.Record
}

// NewMemoryStore creates an empty registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[shortener.Code]shortener.Record),
	}
}

func (m *MemoryStore) Insert(_ context.Context, code shortener.Code, record shortener.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[code] = record

	return nil
}

func (m *MemoryStore) RemoveExpired(_ context.Context, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, code)

	return nil
}

func (m *MemoryStore) Get(_ context.Context, code shortener.Code) (shortener.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[code]
	if !ok {
		return shortener.Record{}, shortener.ErrNotFound
	}

	return record, nil
}

// Snapshot copies the current entries so callers can range without holding the lock.
func (m *MemoryStore) Snapshot(_ context.Context) ([]shortener.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]shortener.Entry, 0, len(m.records))
	for code, record := range m.records {
		entries = append(entries, shortener.Entry{Code: code, Record: record})
	}

	return entries, nil
}

func (m *MemoryStore) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records), nil
}

// Compile-time check.
var _ shortener.Registry = (*MemoryStore)(nil)
