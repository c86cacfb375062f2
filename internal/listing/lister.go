// Package listing renders the registry with a live expiry countdown.
package listing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/serroba/shortlink/internal/shortener"
)

// Item is one listed link.
type Item struct {
	Code             shortener.Code
	DestinationURL   string
	ExpiresAt        time.Time
	RemainingMinutes int64
}

// Stats is the listing at one instant. Empty is the explicit empty state.
type Stats struct {
	Items []Item
	Empty bool
	At    time.Time
}

// Lister reads registry snapshots; it never mutates.
type Lister struct {
	registry shortener.Reader
	now      shortener.Clock
}

func NewLister(registry shortener.Reader, now shortener.Clock) *Lister {
	if now == nil {
		now = time.Now
	}

	return &Lister{registry: registry, now: now}
}

// List returns every entry sorted by code, with remaining minutes computed against now.
// Expired entries that nobody visited yet are listed with zero minutes.
func (l *Lister) List(ctx context.Context) (*Stats, error) {
	entries, err := l.registry.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot registry: %w", err)
	}

	now := l.now()
	items := make([]Item, 0, len(entries))

	for _, e := range entries {
		items = append(items, Item{
			Code:             e.Code,
			DestinationURL:   e.Record.DestinationURL,
			ExpiresAt:        e.Record.ExpiresAt,
			RemainingMinutes: e.Record.RemainingMinutes(now),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })

	return &Stats{Items: items, Empty: len(items) == 0, At: now}, nil
}
