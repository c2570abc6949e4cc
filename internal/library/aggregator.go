package library

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/mrlokans/novelshelf/internal/entities"
)

// Options configures an Aggregator.
type Options struct {
	// LookupDownloads makes LookupStatus consider the Downloads section.
	// History is never considered.
	LookupDownloads bool
}

// Aggregator holds the current section view. Rebuild replaces it as a
// whole; readers never observe a partially built view.
type Aggregator struct {
	store Store
	opts  Options

	// rebuildMu serializes whole rebuilds so an older read never replaces
	// a newer view.
	rebuildMu sync.Mutex

	mu       sync.RWMutex
	sections map[string][]Book
	built    bool
}

func NewAggregator(store Store, opts Options) *Aggregator {
	return &Aggregator{
		store:    store,
		opts:     opts,
		sections: make(map[string][]Book),
	}
}

// Rebuild recomputes every section from the store. On error the previous
// view is kept.
func (a *Aggregator) Rebuild(ctx context.Context) error {
	a.rebuildMu.Lock()
	defer a.rebuildMu.Unlock()

	sections := make(map[string][]Book)
	for _, rt := range entities.ReadTypes {
		if rt != entities.ReadTypeNone {
			sections[rt.String()] = []Book{}
		}
	}

	stateKeys, err := a.store.GetKeys(ctx, entities.FolderBookmarkState+"/")
	if err != nil {
		return fmt.Errorf("list bookmark states: %w", err)
	}
	for _, stateKey := range stateKeys {
		rt, ok, err := a.readType(ctx, stateKey)
		if err != nil {
			return err
		}
		if !ok || rt == entities.ReadTypeNone {
			continue
		}

		bookKey := strings.Replace(stateKey, entities.FolderBookmarkState, entities.FolderBookmark, 1)
		book, ok, err := a.book(ctx, bookKey)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		sections[rt.String()] = append(sections[rt.String()], book)
	}

	if sections[SectionDownloads], err = a.folder(ctx, entities.FolderDownloads); err != nil {
		return err
	}
	if sections[SectionHistory], err = a.folder(ctx, entities.FolderHistory); err != nil {
		return err
	}

	a.mu.Lock()
	a.sections = sections
	a.built = true
	a.mu.Unlock()

	log.Printf("Library rebuilt: %d bookmark states, %d downloads, %d history",
		len(stateKeys), len(sections[SectionDownloads]), len(sections[SectionHistory]))
	return nil
}

// readType decodes a bookmark state entry. Entries that are missing, not a
// number or an unknown code report ok == false.
func (a *Aggregator) readType(ctx context.Context, key string) (entities.ReadType, bool, error) {
	raw, ok, err := a.store.GetValue(ctx, key)
	if err != nil {
		return entities.ReadTypeNone, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return entities.ReadTypeNone, false, nil
	}
	var code int
	if err := json.Unmarshal(raw, &code); err != nil {
		log.Printf("Library: skipping %s: %v", key, err)
		return entities.ReadTypeNone, false, nil
	}
	rt, ok := entities.ReadTypeFromPref(code)
	return rt, ok, nil
}

func (a *Aggregator) book(ctx context.Context, key string) (Book, bool, error) {
	raw, ok, err := a.store.GetValue(ctx, key)
	if err != nil {
		return Book{}, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return Book{}, false, nil
	}
	var book Book
	if err := json.Unmarshal(raw, &book); err != nil {
		log.Printf("Library: skipping %s: %v", key, err)
		return Book{}, false, nil
	}
	return book, true, nil
}

func (a *Aggregator) folder(ctx context.Context, folder string) ([]Book, error) {
	keys, err := a.store.GetKeys(ctx, folder+"/")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}
	books := make([]Book, 0, len(keys))
	for _, k := range keys {
		book, ok, err := a.book(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			books = append(books, book)
		}
	}
	return books, nil
}

// Built reports whether Rebuild has succeeded at least once.
func (a *Aggregator) Built() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.built
}

// Sections returns the current view. The slices are shared and must not be
// modified.
func (a *Aggregator) Sections() map[string][]Book {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string][]Book, len(a.sections))
	for name, books := range a.sections {
		out[name] = books
	}
	return out
}

// scanOrder lists the sections LookupStatus searches, in order.
func (a *Aggregator) scanOrder() []string {
	order := make([]string, 0, len(entities.ReadTypes)+1)
	for _, rt := range entities.ReadTypes {
		if rt != entities.ReadTypeNone {
			order = append(order, rt.String())
		}
	}
	if a.opts.LookupDownloads {
		order = append(order, SectionDownloads)
	}
	return order
}

// LookupStatus finds the first section holding a book named title, ignoring
// case, and returns its friendly label. ok is false when no section does.
func (a *Aggregator) LookupStatus(title string) (label string, ok bool) {
	fold := cases.Fold()
	want := fold.String(title)

	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, section := range a.scanOrder() {
		for _, book := range a.sections[section] {
			if fold.String(book.Name) == want {
				return FriendlyStatus(section), true
			}
		}
	}
	return "", false
}

// FriendlyStatus maps a section name to the label shown next to a title.
// Unknown names are returned unchanged.
func FriendlyStatus(section string) string {
	switch strings.ToUpper(section) {
	case "PLAN_TO_READ", "READING", "DOWNLOADS":
		return "Library"
	case "DROPPED":
		return "Dropped"
	case "COMPLETED":
		return "Completed"
	case "ON_HOLD":
		return "On Hold"
	case "HISTORY":
		return "History"
	default:
		return section
	}
}
