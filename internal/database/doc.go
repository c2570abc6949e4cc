// Package database provides the data access layer for the application.
//
// # Architecture
//
// The application persists a single table, "datastore", holding JSON
// documents by key. Keys are grouped into folders with a "<folder>/<id>"
// naming scheme, see the entities.Folder* constants.
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── kv/              # Key/value reads and writes
//
// # Usage
//
//	db, err := database.NewDatabase("./novelshelf.db")
//	store := kv.NewRepository(db.DB)
//
//	err = store.SetKey(ctx, "result_history/ab12", book)
//	keys, err := store.GetKeys(ctx, "result_history/")
//
// # Interface Implementations
//
//   - kv.Repository: implements library.Store and library.Writer
package database
