package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/novelshelf/internal/database/kv"
	"github.com/mrlokans/novelshelf/internal/http"
	"github.com/mrlokans/novelshelf/internal/library"
	"github.com/mrlokans/novelshelf/internal/providers"
	"github.com/mrlokans/novelshelf/internal/providers/mvlempyr"
	"github.com/mrlokans/novelshelf/internal/providers/novelfire"
	"github.com/mrlokans/novelshelf/internal/providers/webnovel"
	"github.com/mrlokans/novelshelf/internal/scheduler"
	"github.com/mrlokans/novelshelf/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Library key/value store implementations
var _ library.Store = (*kv.Repository)(nil)
var _ library.Writer = (*kv.Repository)(nil)

// Library view used by the API and the rebuild queue
var _ http.LibraryView = (*library.Aggregator)(nil)
var _ http.BookRecorder = (*library.Recorder)(nil)
var _ tasks.LibraryRebuilder = (*library.Aggregator)(nil)

// =============================================================================
// Providers
// =============================================================================

var _ providers.CatalogProvider = (*mvlempyr.Provider)(nil)
var _ providers.Provider = (*novelfire.Provider)(nil)
var _ providers.Provider = (*webnovel.Provider)(nil)

// CatalogResolver implementations
var _ tasks.CatalogResolver = (*providers.Registry)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
