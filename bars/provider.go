// Package bars defines the read contract to the bar series collaborator
// and a per-run read-through cache over it.
package bars

import (
	"context"
	"fmt"
	"sync"

	"github.com/edgelab/outcomes/market"
)

// Provider supplies the ordered, gap-tolerant bar series for a
// (ticker, date) pair at the requested resolution in minutes.
type Provider interface {
	Bars(ctx context.Context, ticker, date string, resolution int) ([]market.Bar, error)
}

// Cache is a read-through bar cache scoped to a single batch run, so
// trades sharing a session don't refetch the same series. It is safe
// for concurrent use and never persisted across runs.
type Cache struct {
	src Provider

	mu sync.Mutex
	m  map[string][]market.Bar
}

func NewCache(src Provider) *Cache {
	return &Cache{src: src, m: make(map[string][]market.Bar)}
}

func (c *Cache) Bars(ctx context.Context, ticker, date string, resolution int) ([]market.Bar, error) {
	key := fmt.Sprintf("%s|%s|%d", ticker, date, resolution)

	c.mu.Lock()
	cached, ok := c.m[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	bars, err := c.src.Bars(ctx, ticker, date, resolution)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.m[key] = bars
	c.mu.Unlock()
	return bars, nil
}
