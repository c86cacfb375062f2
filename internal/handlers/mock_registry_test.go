package handlers_test

import (
	"context"

	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
)

// failingRegistry wraps a MemoryStore and can be configured to return errors.
type failingRegistry struct {
	*store.MemoryStore
	getErr      error
	insertErr   error
	snapshotErr error
}

func (f *failingRegistry) Get(ctx context.Context, code shortener.Code) (shortener.Record, error) {
	if f.getErr != nil {
		return shortener.Record{}, f.getErr
	}

	return f.MemoryStore.Get(ctx, code)
}

func (f *failingRegistry) Insert(ctx context.Context, code shortener.Code, r shortener.Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}

	return f.MemoryStore.Insert(ctx, code, r)
}

func (f *failingRegistry) Snapshot(ctx context.Context) ([]shortener.Entry, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}

	return f.MemoryStore.Snapshot(ctx)
}
