package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/novelshelf/internal/catalog"
	"github.com/mrlokans/novelshelf/internal/config"
	"github.com/mrlokans/novelshelf/internal/database"
	"github.com/mrlokans/novelshelf/internal/database/kv"
	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/library"
	"github.com/mrlokans/novelshelf/internal/providers"
)

type catalogOnlyProvider struct {
	providers.Provider
	store *catalog.Store
}

func (p *catalogOnlyProvider) Name() string            { return p.store.Name() }
func (p *catalogOnlyProvider) Catalog() *catalog.Store { return p.store }

func TestCatalogRefreshCommand(t *testing.T) {
	t.Run("parses flags", func(t *testing.T) {
		cmd := NewCatalogRefreshCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-provider", "other", "-data-dir", "/tmp/x"}))
		assert.Equal(t, "other", cmd.Provider)
		assert.Equal(t, "/tmp/x", cmd.DataDir)
	})

	t.Run("loads the full catalog and reports the count", func(t *testing.T) {
		dir := t.TempDir()
		var out bytes.Buffer

		cmd := NewCatalogRefreshCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-data-dir", dir}))
		cmd.out = &out
		cmd.registry = func(cfg *config.Config) (*providers.Registry, error) {
			store, err := catalog.NewStore(func(_ context.Context, pageSize int) ([]entities.Record, error) {
				assert.Equal(t, 10000, pageSize)
				return []entities.Record{{"name": entities.String("A")}, {"name": entities.String("B")}}, nil
			}, catalog.Options{Name: "mvlempyr", Dir: cfg.Catalog.DataDir})
			if err != nil {
				return nil, err
			}
			return providers.NewRegistry(&catalogOnlyProvider{store: store}), nil
		}

		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "Loaded 2 records")
		assert.FileExists(t, filepath.Join(dir, "mvlempyr.json"))
	})
}

func TestLibraryCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "novelshelf.db")
	db, err := database.NewDatabase(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)

	recorder := library.NewRecorder(kv.NewRepository(db.DB))
	_, err = recorder.SetBookmark(context.Background(), library.Book{Name: "Reverend Insanity", URL: "https://example.com/ri"}, entities.ReadTypeDropped)
	require.NoError(t, err)
	_, err = recorder.AddHistory(context.Background(), library.Book{Name: "Overgeared", URL: "https://example.com/og"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	t.Run("prints section sizes", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewLibraryCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath}))
		cmd.out = &out

		require.NoError(t, cmd.Run())
		assert.Regexp(t, `DROPPED\s+1`, out.String())
		assert.Regexp(t, `History\s+1`, out.String())
		assert.Regexp(t, `READING\s+0`, out.String())
	})

	t.Run("looks up a title", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewLibraryCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-title", "reverend insanity"}))
		cmd.out = &out

		require.NoError(t, cmd.Run())
		assert.Equal(t, "reverend insanity: Dropped\n", out.String())
	})

	t.Run("history titles are not in the library", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewLibraryCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-title", "Overgeared"}))
		cmd.out = &out

		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "not in library")
	})

	t.Run("fails on a missing database", func(t *testing.T) {
		cmd := NewLibraryCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-db", filepath.Join(t.TempDir(), "missing.db")}))
		cmd.out = &bytes.Buffer{}

		err := cmd.Run()
		require.Error(t, err)
		assert.True(t, os.IsNotExist(errors.Unwrap(err)))
	})
}
