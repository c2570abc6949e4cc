package providers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/novelshelf/internal/catalog"
	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/listing"
)

type stubProvider struct {
	name  string
	store *catalog.Store
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Info() Info   { return Info{Name: s.name} }
func (s *stubProvider) LoadMainPage(context.Context, MainPageRequest) (*entities.HeadMainPage, error) {
	return &entities.HeadMainPage{}, nil
}
func (s *stubProvider) Search(context.Context, string) ([]entities.SearchResult, error) {
	return nil, nil
}
func (s *stubProvider) Load(context.Context, string) (*entities.StreamResponse, error) {
	return nil, ErrNotFound
}
func (s *stubProvider) LoadHTML(context.Context, string) (string, error) { return "", ErrNotFound }
func (s *stubProvider) OnFilterChanged()                                 {}

type stubCatalogProvider struct{ stubProvider }

func (s *stubCatalogProvider) Catalog() *catalog.Store { return s.store }

func TestRegistry(t *testing.T) {
	store, err := catalog.NewStore(func(context.Context, int) ([]entities.Record, error) {
		return nil, nil
	}, catalog.Options{Name: "beta", Dir: filepath.Join(t.TempDir(), "snapshots")})
	require.NoError(t, err)

	alpha := &stubProvider{name: "alpha"}
	beta := &stubCatalogProvider{stubProvider{name: "beta", store: store}}
	registry := NewRegistry(beta, alpha)

	t.Run("resolves names case-insensitively", func(t *testing.T) {
		p, err := registry.Get(" ALPHA ")
		require.NoError(t, err)
		assert.Same(t, alpha, p)
	})

	t.Run("reports unknown providers", func(t *testing.T) {
		_, err := registry.Get("gamma")
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("lists providers ordered by name", func(t *testing.T) {
		assert.Equal(t, []string{"alpha", "beta"}, registry.Names())
	})

	t.Run("exposes catalog stores of catalog providers only", func(t *testing.T) {
		catalogs := registry.Catalogs()
		require.Len(t, catalogs, 1)
		assert.Same(t, store, catalogs["beta"])

		_, err := registry.Catalog("alpha")
		assert.Error(t, err)

		got, err := registry.Catalog("beta")
		require.NoError(t, err)
		assert.Same(t, store, got)
	})
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusOngoing, NormalizeStatus("Ongoing"))
	assert.Equal(t, StatusCompleted, NormalizeStatus(" completed "))
	assert.Equal(t, StatusPaused, NormalizeStatus("Hiatus"))
	assert.Equal(t, "", NormalizeStatus("whatever"))
}

func TestMainPageRequest_ListingKey(t *testing.T) {
	min100 := 100
	base := MainPageRequest{Page: 1, Category: "ongoing", OrderBy: "new", Tag: "action"}

	other := base
	other.Page = 4
	assert.Equal(t, base.ListingKey(), other.ListingKey(), "page is not part of the listing")

	other = base
	other.Tag = "romance"
	assert.NotEqual(t, base.ListingKey(), other.ListingKey())

	other = base
	other.Chapters = listing.ChapterRange{Min: &min100}
	assert.NotEqual(t, base.ListingKey(), other.ListingKey())
	assert.Equal(t, "ongoing|new|action|100-", other.ListingKey())
}
