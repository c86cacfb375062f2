package listing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/shortlink/internal/listing"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type failingReader struct{ store.MemoryStore }

func (f *failingReader) Snapshot(_ context.Context) ([]shortener.Entry, error) {
	return nil, errors.New("snapshot failed")
}

func TestLister_List(t *testing.T) {
	t.Run("empty registry reports the empty state", func(t *testing.T) {
		l := listing.NewLister(store.NewMemoryStore(), func() time.Time { return now })

		stats, err := l.List(context.Background())

		require.NoError(t, err)
		assert.True(t, stats.Empty)
		assert.Empty(t, stats.Items)
	})

	t.Run("computes remaining minutes and sorts by code", func(t *testing.T) {
		reg := store.NewMemoryStore()
		_ = reg.Insert(context.Background(), "zeta", shortener.Record{
			DestinationURL: "https://z.com",
			ExpiresAt:      now.Add(90 * time.Second),
		})
		_ = reg.Insert(context.Background(), "alpha", shortener.Record{
			DestinationURL: "https://a.com",
			ExpiresAt:      now.Add(30 * time.Minute),
		})
		_ = reg.Insert(context.Background(), "stale", shortener.Record{
			DestinationURL: "https://s.com",
			ExpiresAt:      now.Add(-time.Hour),
		})
		l := listing.NewLister(reg, func() time.Time { return now })

		stats, err := l.List(context.Background())

		require.NoError(t, err)
		assert.False(t, stats.Empty)
		require.Len(t, stats.Items, 3)
		assert.Equal(t, shortener.Code("alpha"), stats.Items[0].Code)
		assert.Equal(t, int64(30), stats.Items[0].RemainingMinutes)
		assert.Equal(t, shortener.Code("stale"), stats.Items[1].Code)
		assert.Equal(t, int64(0), stats.Items[1].RemainingMinutes)
		assert.Equal(t, int64(1), stats.Items[2].RemainingMinutes)
	})

	t.Run("listing never removes expired entries", func(t *testing.T) {
		reg := store.NewMemoryStore()
		_ = reg.Insert(context.Background(), "stale", shortener.Record{ExpiresAt: now.Add(-time.Hour)})
		l := listing.NewLister(reg, func() time.Time { return now })

		_, _ = l.List(context.Background())

		n, _ := reg.Len(context.Background())
		assert.Equal(t, 1, n)
	})

	t.Run("returns snapshot errors", func(t *testing.T) {
		l := listing.NewLister(&failingReader{}, nil)

		stats, err := l.List(context.Background())

		assert.Nil(t, stats)
		assert.Error(t, err)
	})
}
