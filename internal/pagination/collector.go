// Package pagination walks paged remote listings.
//
// Collector gathers "enough" results for one screen from a listing whose
// pages may shrink to nothing after client side filtering, remembering
// where it stopped so the next screen continues from there. Drain reads
// every page of a finite listing such as a table of contents.
package pagination

import (
	"context"
	"fmt"
	"sync"
)

// Defaults used by listing providers.
const (
	DefaultMinResults = 11
	DefaultMaxPages   = 10
)

// PageFetcher loads one remote page. hadRaw reports whether the page held
// any items before they were mapped or filtered; false marks the end of the
// listing.
type PageFetcher[T any] func(ctx context.Context, page int) (items []T, hadRaw bool, err error)

// Collector is safe for concurrent use; collections are serialized.
type Collector[T any] struct {
	minResults int
	maxPages   int
	identity   func(T) string

	mu             sync.Mutex
	listing        string
	lastLoadedPage int
	seen           map[string]struct{}
}

// NewCollector creates a collector that stops once minResults items were
// gathered or maxPages pages were read. identity extracts the key used for
// de-duplication, typically the item URL.
func NewCollector[T any](minResults, maxPages int, identity func(T) string) *Collector[T] {
	if minResults < 1 {
		minResults = DefaultMinResults
	}
	if maxPages < 1 {
		maxPages = DefaultMaxPages
	}
	return &Collector[T]{
		minResults:     minResults,
		maxPages:       maxPages,
		identity:       identity,
		lastLoadedPage: 1,
		seen:           make(map[string]struct{}),
	}
}

// Collect fetches pages starting at the requested page, or at the cursor if
// the caller asks for a page that was already read. Items rejected by keep
// or already returned by an earlier call are dropped.
//
// A fetch error aborts the whole call: nothing is returned and neither the
// cursor nor the de-duplication set move, so the same pages are retried
// next time.
func (c *Collector[T]) Collect(ctx context.Context, page int, fetch PageFetcher[T], keep func(T) bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collect(ctx, page, fetch, keep)
}

// CollectListing is Collect for the listing identified by listing, usually
// its filter parameters. When listing differs from the previous call's the
// collector is reset first, so a new listing always starts at its own page 1.
func (c *Collector[T]) CollectListing(ctx context.Context, listing string, page int, fetch PageFetcher[T], keep func(T) bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if listing != c.listing {
		c.reset()
		c.listing = listing
	}
	return c.collect(ctx, page, fetch, keep)
}

func (c *Collector[T]) collect(ctx context.Context, page int, fetch PageFetcher[T], keep func(T) bool) ([]T, error) {
	current := page
	if page <= c.lastLoadedPage {
		current = c.lastLoadedPage
	}

	var (
		collected []T
		fetched   int
		last      = c.lastLoadedPage
		added     = make(map[string]struct{})
	)

	for len(collected) < c.minResults && fetched < c.maxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, hadRaw, err := fetch(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", current, err)
		}
		last = current

		if !hadRaw {
			break
		}

		for _, item := range items {
			if keep != nil && !keep(item) {
				continue
			}
			id := c.identity(item)
			if _, dup := c.seen[id]; dup {
				continue
			}
			if _, dup := added[id]; dup {
				continue
			}
			added[id] = struct{}{}
			collected = append(collected, item)
		}

		current++
		fetched++
	}

	for id := range added {
		c.seen[id] = struct{}{}
	}
	c.lastLoadedPage = last

	return collected, nil
}

// LastLoadedPage is the last remote page read by Collect.
func (c *Collector[T]) LastLoadedPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastLoadedPage
}

// Reset forgets every returned item and rewinds the cursor to page 1.
// Call it whenever the listing filters change.
func (c *Collector[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Collector[T]) reset() {
	c.lastLoadedPage = 1
	c.seen = make(map[string]struct{})
}
