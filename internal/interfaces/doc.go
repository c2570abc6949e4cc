// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Provider Interfaces
//
//   - Provider: one remote novel source (internal/providers/provider.go)
//   - CatalogProvider: a provider backed by a local catalog snapshot
//
// ## Data Access Interfaces
//
//   - library.Store / library.Writer: key/value access to saved books
//     (internal/library), implemented by internal/database/kv
//   - LibraryView / BookRecorder: what the HTTP API needs from the library
//     (internal/http/config.go)
//
// ## Background Work Interfaces
//
//   - CatalogResolver: finds a provider's catalog for refresh tasks (internal/tasks)
//   - LibraryRebuilder: rebuilds the library view (internal/tasks)
//   - TaskQueue / Enqueuer: hands tasks to backlite (internal/http, internal/scheduler)
//
// # Adding a New Provider
//
//  1. Create a package under internal/providers/ and implement Provider.
//     Fetch pages through a scrape.Client so requests share the rate limit
//     and report failures as scrape.LoadError.
//
//  2. For sources that page through a remote listing, keep a
//     pagination.Collector and reset it in OnFilterChanged.
//
//  3. For sources that publish their whole catalog, hold a catalog.Store
//     and implement CatalogProvider. The refresh scheduler and the
//     refresh_catalog task pick it up automatically.
//
//  4. Register the provider in entrypoint.BuildRegistry and add a
//     compile-time check in checks.go.
package interfaces
