package providers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mrlokans/novelshelf/internal/catalog"
)

// Registry holds the configured providers by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any provider with the same name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToLower(p.Name())] = p
}

func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// All returns the providers ordered by name.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name()
	}
	return names
}

// Catalogs returns the catalog stores of catalog-backed providers, keyed by
// provider name.
func (r *Registry) Catalogs() map[string]*catalog.Store {
	out := make(map[string]*catalog.Store)
	for _, p := range r.All() {
		if cp, ok := p.(CatalogProvider); ok {
			out[p.Name()] = cp.Catalog()
		}
	}
	return out
}

// Catalog returns the catalog store of the named provider.
func (r *Registry) Catalog(name string) (*catalog.Store, error) {
	p, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	cp, ok := p.(CatalogProvider)
	if !ok {
		return nil, fmt.Errorf("provider %s has no catalog: %w", p.Name(), ErrNotFound)
	}
	return cp.Catalog(), nil
}
