package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/novelshelf/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "kv.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.KeyValue{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db)
}

func TestRepository_SetKey_New(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetKey(ctx, "result_history/a1", map[string]string{"name": "Alpha"}))

	raw, ok, err := repo.GetValue(ctx, "result_history/a1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Alpha"}`, string(raw))
}

func TestRepository_SetKey_Update(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetKey(ctx, "result_bookmarked_state/a1", 0))
	require.NoError(t, repo.SetKey(ctx, "result_bookmarked_state/a1", 3))

	raw, ok, err := repo.GetValue(ctx, "result_bookmarked_state/a1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "3", string(raw))
}

func TestRepository_GetValue_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	raw, ok, err := repo.GetValue(context.Background(), "nonexistent")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, raw)
}

func TestRepository_GetKeys(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for _, key := range []string{
		"result_bookmarked/b2",
		"result_bookmarked/a1",
		"result_bookmarked_state/a1",
		"result_bookmarkedXstate/z9",
		"downloads_data/c3",
	} {
		require.NoError(t, repo.SetKey(ctx, key, 1))
	}

	t.Run("returns keys under the folder in order", func(t *testing.T) {
		keys, err := repo.GetKeys(ctx, "result_bookmarked/")
		require.NoError(t, err)
		assert.Equal(t, []string{"result_bookmarked/a1", "result_bookmarked/b2"}, keys)
	})

	t.Run("treats underscores in the prefix literally", func(t *testing.T) {
		keys, err := repo.GetKeys(ctx, "result_bookmarked_state/")
		require.NoError(t, err)
		assert.Equal(t, []string{"result_bookmarked_state/a1"}, keys)
	})

	t.Run("returns nothing for an unknown folder", func(t *testing.T) {
		keys, err := repo.GetKeys(ctx, "result_history/")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestRepository_DeleteKey(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetKey(ctx, "to-delete", "value"))
	require.NoError(t, repo.DeleteKey(ctx, "to-delete"))

	_, ok, err := repo.GetValue(ctx, "to-delete")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, repo.DeleteKey(ctx, "never-existed"))
}
