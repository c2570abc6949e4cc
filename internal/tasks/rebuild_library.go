package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// LibraryRebuilder rebuilds the aggregated library view.
type LibraryRebuilder interface {
	Rebuild(ctx context.Context) error
}

// RebuildLibraryTask re-reads every library folder from the datastore.
type RebuildLibraryTask struct{}

// Config returns the queue configuration for library rebuilds.
func (t RebuildLibraryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "rebuild_library",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RebuildLibraryProcessor creates a processor function for RebuildLibraryTask.
func RebuildLibraryProcessor(rebuilder LibraryRebuilder) backlite.QueueProcessor[RebuildLibraryTask] {
	return func(ctx context.Context, task RebuildLibraryTask) error {
		if rebuilder == nil {
			return fmt.Errorf("library rebuilder not configured")
		}
		if err := rebuilder.Rebuild(ctx); err != nil {
			return fmt.Errorf("rebuild library: %w", err)
		}
		log.Printf("[TASK] Rebuilt library view")
		return nil
	}
}

// NewRebuildLibraryQueue creates a backlite queue for library rebuilds.
func NewRebuildLibraryQueue(rebuilder LibraryRebuilder) backlite.Queue {
	return backlite.NewQueue(RebuildLibraryProcessor(rebuilder))
}
