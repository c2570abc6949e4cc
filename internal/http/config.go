package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/novelshelf/internal/database"
	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/library"
	"github.com/mrlokans/novelshelf/internal/providers"
)

// LibraryView is the aggregated library the API reads and rebuilds.
type LibraryView interface {
	Rebuild(ctx context.Context) error
	Built() bool
	Sections() map[string][]library.Book
	LookupStatus(title string) (string, bool)
}

// BookRecorder writes books into the library folders.
type BookRecorder interface {
	SetBookmark(ctx context.Context, book library.Book, rt entities.ReadType) (library.Book, error)
	AddDownload(ctx context.Context, book library.Book) (library.Book, error)
	AddHistory(ctx context.Context, book library.Book) (library.Book, error)
}

// TaskQueue enqueues background tasks and reports their state.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Providers *providers.Registry

	// Library
	Library  LibraryView
	Recorder BookRecorder

	// Task queue client (optional)
	TaskClient TaskQueue

	// RequestTimeout bounds every provider call. Zero means no extra deadline.
	RequestTimeout time.Duration

	// Application info
	Version string
}
