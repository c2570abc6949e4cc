// Package catalog keeps a provider's complete remote catalog in memory and
// on disk so listing pages and searches never wait on a full download.
//
// # Loading
//
// The first EnsureLoaded call serves a fresh disk snapshot when there is
// one. Otherwise it downloads a small first page, persists it, and starts a
// background download of the whole catalog that replaces the partial copy
// once it arrives with more records.
//
//	store, err := catalog.NewStore(fetchNovels, catalog.Options{Name: "mvlempyr", Dir: "./data/catalogs"})
//	if err := store.EnsureLoaded(ctx); err != nil { ... }
//	records := store.Records()
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrlokans/novelshelf/internal/entities"
)

// ErrRefillInFlight is returned by Refresh while another full download of
// the same catalog is running.
var ErrRefillInFlight = errors.New("catalog refill already in progress")

// Fetcher downloads up to pageSize catalog records.
type Fetcher func(ctx context.Context, pageSize int) ([]entities.Record, error)

// Options configures a Store. Zero values take the defaults.
type Options struct {
	Name string
	Dir  string

	MaxAge        time.Duration // snapshot validity, default 24h
	FirstPageSize int           // default 200
	FullPageSize  int           // default 10000
	RefillTimeout time.Duration // background download deadline, default 5m

	Now func() time.Time
}

func (o *Options) applyDefaults() {
	if o.MaxAge <= 0 {
		o.MaxAge = 24 * time.Hour
	}
	if o.FirstPageSize <= 0 {
		o.FirstPageSize = 200
	}
	if o.FullPageSize <= 0 {
		o.FullPageSize = 10000
	}
	if o.RefillTimeout <= 0 {
		o.RefillTimeout = 5 * time.Minute
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Store owns one provider's catalog and its snapshot file.
type Store struct {
	opts  Options
	fetch Fetcher
	path  string

	// loadMu serializes foreground loads so concurrent first requests
	// download the catalog once.
	loadMu sync.Mutex

	mu      sync.RWMutex
	records []entities.Record
	loaded  bool

	refilling atomic.Bool
	refills   sync.WaitGroup
}

// NewStore creates the snapshot directory and returns an empty store.
func NewStore(fetch Fetcher, opts Options) (*Store, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("catalog name is required")
	}
	opts.applyDefaults()

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}

	return &Store{
		opts:  opts,
		fetch: fetch,
		path:  filepath.Join(opts.Dir, opts.Name+".json"),
	}, nil
}

// Name returns the catalog name.
func (s *Store) Name() string {
	return s.opts.Name
}

// SnapshotPath returns the file the catalog is persisted to.
func (s *Store) SnapshotPath() string {
	return s.path
}

// EnsureLoaded makes the catalog available in memory. It returns at once
// when it already is.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	if s.isLoaded() {
		return nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.isLoaded() {
		return nil
	}

	if s.loadSnapshot() {
		return nil
	}

	records, err := s.fetch(ctx, s.opts.FirstPageSize)
	if err != nil {
		return fmt.Errorf("fetch %s catalog: %w", s.opts.Name, err)
	}
	s.replace(records)
	s.persist(records)

	s.refillInBackground(len(records))
	return nil
}

// ForceFullLoad loads the complete catalog before returning: from a fresh
// snapshot when there is one, otherwise by downloading all of it. A running
// background refill is allowed to finish first.
func (s *Store) ForceFullLoad(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// Refills start under loadMu, so none can begin after this returns.
	s.Wait()

	if s.loadSnapshot() {
		return nil
	}

	records, err := s.fetch(ctx, s.opts.FullPageSize)
	if err != nil {
		return fmt.Errorf("fetch full %s catalog: %w", s.opts.Name, err)
	}
	s.replace(records)
	s.persist(records)
	return nil
}

// Refresh downloads the complete catalog and replaces the current copy
// unless the download came back empty. It shares the single refill slot
// with the background download and returns ErrRefillInFlight when that is
// taken.
func (s *Store) Refresh(ctx context.Context) (int, error) {
	if !s.refilling.CompareAndSwap(false, true) {
		return 0, ErrRefillInFlight
	}
	defer s.refilling.Store(false)

	records, err := s.fetch(ctx, s.opts.FullPageSize)
	if err != nil {
		return 0, fmt.Errorf("refresh %s catalog: %w", s.opts.Name, err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("refresh %s catalog: remote returned no records", s.opts.Name)
	}

	s.persist(records)
	s.replace(records)
	log.Printf("Catalog store %s: refreshed %d records", s.opts.Name, len(records))
	return len(records), nil
}

// Records returns the in-memory catalog. The slice is replaced, never
// modified, so callers may keep reading it.
func (s *Store) Records() []entities.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Find returns the first record satisfying match.
func (s *Store) Find(match func(entities.Record) bool) (entities.Record, bool) {
	for _, r := range s.Records() {
		if match(r) {
			return r, true
		}
	}
	return nil, false
}

// Wait blocks until a running background refill has finished.
func (s *Store) Wait() {
	s.refills.Wait()
}

// Status describes the store for health reporting.
type Status struct {
	Name              string     `json:"name"`
	Loaded            bool       `json:"loaded"`
	Records           int        `json:"records"`
	Refilling         bool       `json:"refilling"`
	SnapshotUpdatedAt *time.Time `json:"snapshot_updated_at,omitempty"`
	SnapshotFresh     bool       `json:"snapshot_fresh"`
}

func (s *Store) Status() Status {
	s.mu.RLock()
	st := Status{
		Name:      s.opts.Name,
		Loaded:    s.loaded,
		Records:   len(s.records),
		Refilling: s.refilling.Load(),
	}
	s.mu.RUnlock()

	if info, err := os.Stat(s.path); err == nil {
		mod := info.ModTime()
		st.SnapshotUpdatedAt = &mod
		st.SnapshotFresh = s.opts.Now().Sub(mod) < s.opts.MaxAge
	}
	return st
}

func (s *Store) isLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) replace(records []entities.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.loaded = true
}

// refillInBackground downloads the complete catalog without blocking the
// caller. At most one refill runs at a time; extra calls return at once.
func (s *Store) refillInBackground(partial int) {
	if !s.refilling.CompareAndSwap(false, true) {
		return
	}

	s.refills.Add(1)
	go func() {
		defer s.refills.Done()
		defer s.refilling.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.RefillTimeout)
		defer cancel()

		records, err := s.fetch(ctx, s.opts.FullPageSize)
		if err != nil {
			log.Printf("Catalog store %s: background refill failed: %v", s.opts.Name, err)
			return
		}
		if len(records) <= partial {
			log.Printf("Catalog store %s: background refill returned %d records, keeping %d", s.opts.Name, len(records), partial)
			return
		}

		// Persist first so a snapshot read never sees an older copy than
		// the one in memory.
		s.persist(records)
		s.replace(records)
		log.Printf("Catalog store %s: background refill loaded %d records", s.opts.Name, len(records))
	}()
}
