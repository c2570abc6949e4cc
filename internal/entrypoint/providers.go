package entrypoint

import (
	"fmt"
	"sort"

	"github.com/mrlokans/novelshelf/internal/catalog"
	"github.com/mrlokans/novelshelf/internal/config"
	"github.com/mrlokans/novelshelf/internal/providers"
	"github.com/mrlokans/novelshelf/internal/providers/mvlempyr"
	"github.com/mrlokans/novelshelf/internal/providers/novelfire"
	"github.com/mrlokans/novelshelf/internal/providers/webnovel"
	"github.com/mrlokans/novelshelf/internal/scrape"
)

func scrapeOptions(cfg *config.Config) scrape.Options {
	return scrape.Options{
		Timeout:     cfg.Scrape.Timeout,
		MinInterval: cfg.Scrape.MinInterval,
		UserAgent:   cfg.Scrape.UserAgent,
	}
}

// NewMVLEmpyr builds the catalog-backed provider from configuration.
func NewMVLEmpyr(cfg *config.Config) (*mvlempyr.Provider, error) {
	return mvlempyr.New(mvlempyr.Options{
		Client:  scrape.NewClient(scrapeOptions(cfg)),
		DataDir: cfg.Catalog.DataDir,
		Catalog: catalog.Options{
			MaxAge:        cfg.Catalog.MaxAge,
			FirstPageSize: cfg.Catalog.FirstPageSize,
			FullPageSize:  cfg.Catalog.FullPageSize,
		},
		PageSize:            cfg.Listing.PageSize,
		ChapterListCapacity: cfg.Cache.ChapterLists,
		SignalCapacity:      cfg.Cache.Freshness,
		ChapterHTMLCapacity: cfg.Cache.ChapterHTML,
	})
}

// BuildRegistry creates every provider and registers it.
func BuildRegistry(cfg *config.Config) (*providers.Registry, error) {
	mvl, err := NewMVLEmpyr(cfg)
	if err != nil {
		return nil, err
	}

	fire := novelfire.New(novelfire.Options{
		Client:     scrape.NewClient(scrapeOptions(cfg)),
		MinResults: cfg.Listing.MinResults,
		MaxPages:   cfg.Listing.MaxPages,
	})

	web, err := webnovel.New(webnovel.Options{
		Client:              scrapeOptions(cfg),
		MinResults:          cfg.Listing.MinResults,
		MaxPages:            cfg.Listing.MaxPages,
		ChapterHTMLCapacity: cfg.Cache.ChapterHTML,
	})
	if err != nil {
		return nil, fmt.Errorf("create webnovel provider: %w", err)
	}

	return providers.NewRegistry(mvl, fire, web), nil
}

// catalogNames lists the providers that keep a catalog, sorted.
func catalogNames(registry *providers.Registry) []string {
	stores := registry.Catalogs()
	names := make([]string, 0, len(stores))
	for name := range stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
