package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/novelshelf/internal/catalog"
)

// CatalogResolver finds the catalog store of a provider by name.
type CatalogResolver interface {
	Catalog(name string) (*catalog.Store, error)
}

// RefreshCatalogTask downloads a provider's complete catalog and replaces
// its snapshot.
type RefreshCatalogTask struct {
	Provider string `json:"provider"`
}

// Config returns the queue configuration for catalog refreshes.
func (t RefreshCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_catalog",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshCatalogProcessor creates a processor function for RefreshCatalogTask.
func RefreshCatalogProcessor(resolver CatalogResolver) backlite.QueueProcessor[RefreshCatalogTask] {
	return func(ctx context.Context, task RefreshCatalogTask) error {
		if resolver == nil {
			return fmt.Errorf("catalog resolver not configured")
		}

		store, err := resolver.Catalog(task.Provider)
		if err != nil {
			return fmt.Errorf("resolve catalog %q: %w", task.Provider, err)
		}

		count, err := store.Refresh(ctx)
		if errors.Is(err, catalog.ErrRefillInFlight) {
			// the running download will write the same snapshot
			log.Printf("[TASK] Catalog %s already refilling, skipping refresh", task.Provider)
			return nil
		}
		if err != nil {
			return err
		}

		log.Printf("[TASK] Refreshed catalog %s with %d records", task.Provider, count)
		return nil
	}
}

// NewRefreshCatalogQueue creates a backlite queue for catalog refreshes.
func NewRefreshCatalogQueue(resolver CatalogResolver) backlite.Queue {
	return backlite.NewQueue(RefreshCatalogProcessor(resolver))
}
