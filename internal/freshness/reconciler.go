// Package freshness keeps chapter lists cached until the source reports a
// newer chapter.
//
// Re-crawling a long table of contents costs many requests. Before doing
// so the reconciler asks the source for a cheap signal (usually the date of
// the newest chapter) and serves the cached list while that signal is
// unchanged.
package freshness

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/lru"
)

// Probe returns the current freshness signal of a novel. An empty signal
// means the source could not tell.
type Probe func(ctx context.Context) (string, error)

// Crawl fetches the complete chapter list in source order.
type Crawl func(ctx context.Context) ([]entities.Chapter, error)

// Options configures a Reconciler.
type Options struct {
	// ListCapacity bounds the number of cached chapter lists. Default 20.
	ListCapacity int
	// SignalCapacity bounds the number of cached signals. Default 50.
	SignalCapacity int
	// NewestFirst reverses crawled lists so callers always see chapter one
	// first.
	NewestFirst bool
	// Name prefixes log lines.
	Name string
}

// Reconciler caches chapter lists per novel key. Different keys may be
// reconciled concurrently; the caches serialize their own access.
type Reconciler[K comparable] struct {
	chapters *lru.Cache[K, []entities.Chapter]
	signals  *lru.Cache[K, string]
	opts     Options
}

func NewReconciler[K comparable](opts Options) *Reconciler[K] {
	if opts.ListCapacity <= 0 {
		opts.ListCapacity = 20
	}
	if opts.SignalCapacity <= 0 {
		opts.SignalCapacity = 50
	}
	return &Reconciler[K]{
		chapters: lru.New[K, []entities.Chapter](opts.ListCapacity),
		signals:  lru.New[K, string](opts.SignalCapacity),
		opts:     opts,
	}
}

// Chapters returns the chapter list for key. The cached slice itself is
// returned when probe reports the signal stored with it; otherwise crawl
// runs and both caches are updated. A failing probe falls back to a crawl.
//
// Returned slices are shared with the cache and must not be modified.
func (r *Reconciler[K]) Chapters(ctx context.Context, key K, probe Probe, crawl Crawl) ([]entities.Chapter, error) {
	signal, err := probe(ctx)
	if err != nil {
		log.Printf("%s: freshness probe for %v failed, re-crawling: %v", r.name(), key, err)
		signal = ""
	}

	if signal != "" {
		stored, hasSignal := r.signals.Get(key)
		cached, hasList := r.chapters.Get(key)
		if hasSignal && hasList && stored == signal {
			return cached, nil
		}
	}

	chapters, err := crawl(ctx)
	if err != nil {
		return nil, fmt.Errorf("crawl chapters: %w", err)
	}
	if r.opts.NewestFirst {
		entities.ReverseChapters(chapters)
	}

	r.chapters.Put(key, chapters)
	if signal != "" {
		r.signals.Put(key, signal)
	} else {
		r.signals.Remove(key)
	}
	return chapters, nil
}

// cached reports the number of chapter lists currently held.
func (r *Reconciler[K]) cached() int {
	return r.chapters.Len()
}

func (r *Reconciler[K]) name() string {
	if r.opts.Name == "" {
		return "Chapter freshness"
	}
	return r.opts.Name
}
