package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/novelshelf/internal/catalog"
	"github.com/mrlokans/novelshelf/internal/config"
	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/tasks"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []backlite.Task
	err   error
}

func (q *recordingQueue) Enqueue(_ context.Context, task backlite.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.tasks = append(q.tasks, task)
	return "task-id", nil
}

type storeResolver map[string]*catalog.Store

func (r storeResolver) Catalog(name string) (*catalog.Store, error) {
	store, ok := r[name]
	if !ok {
		return nil, errors.New("unknown provider")
	}
	return store, nil
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 4 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("0 0 4 * * *"), "seconds field is not accepted")
	assert.Error(t, ValidateCronSchedule("daily"))
}

func TestNextRunTime(t *testing.T) {
	from := time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC)

	next, err := NextRunTime("0 4 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC), *next)

	_, err = NextRunTime("nope", from)
	assert.Error(t, err)
}

func TestCronDescription(t *testing.T) {
	assert.Equal(t, "Daily at 04:00", CronDescription("0 4 * * *"))
	assert.Equal(t, "Custom schedule: 5 5 * * *", CronDescription("5 5 * * *"))
}

func TestCatalogRefreshScheduler_Start(t *testing.T) {
	t.Run("does nothing when disabled", func(t *testing.T) {
		s := NewCatalogRefreshScheduler(config.CatalogRefresh{Enabled: false, Schedule: "0 4 * * *"}, []string{"mvlempyr"}, nil, nil)
		require.NoError(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRun())
	})

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		s := NewCatalogRefreshScheduler(config.CatalogRefresh{Enabled: true, Schedule: "bad"}, []string{"mvlempyr"}, nil, nil)
		assert.Error(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
	})

	t.Run("runs until stopped", func(t *testing.T) {
		s := NewCatalogRefreshScheduler(config.CatalogRefresh{Enabled: true, Schedule: "0 4 * * *"}, []string{"mvlempyr"}, nil, &recordingQueue{})
		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())
		require.NotNil(t, s.NextRun())
		assert.True(t, s.NextRun().After(time.Now()))

		s.Stop()
		assert.False(t, s.IsRunning())
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := NewCatalogRefreshScheduler(config.CatalogRefresh{Enabled: true, Schedule: "0 4 * * *"}, []string{"mvlempyr"}, nil, &recordingQueue{})
		require.NoError(t, s.Start(ctx))

		cancel()
		assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
	})
}

func TestCatalogRefreshScheduler_RunRefresh(t *testing.T) {
	t.Run("enqueues one task per provider", func(t *testing.T) {
		queue := &recordingQueue{}
		s := NewCatalogRefreshScheduler(config.CatalogRefresh{Enabled: true, Schedule: "0 4 * * *"}, []string{"mvlempyr", "other"}, nil, queue)

		s.runRefresh(context.Background())

		require.Len(t, queue.tasks, 2)
		assert.Equal(t, tasks.RefreshCatalogTask{Provider: "mvlempyr"}, queue.tasks[0])
		assert.Equal(t, tasks.RefreshCatalogTask{Provider: "other"}, queue.tasks[1])
		assert.False(t, s.IsRefreshing())
	})

	t.Run("keeps going when enqueueing fails", func(t *testing.T) {
		queue := &recordingQueue{err: errors.New("queue closed")}
		s := NewCatalogRefreshScheduler(config.CatalogRefresh{Enabled: true}, []string{"a", "b"}, nil, queue)

		assert.NotPanics(t, func() { s.runRefresh(context.Background()) })
		assert.Empty(t, queue.tasks)
	})

	t.Run("refreshes inline without a queue", func(t *testing.T) {
		store, err := catalog.NewStore(func(context.Context, int) ([]entities.Record, error) {
			return []entities.Record{{"name": entities.String("Novel")}}, nil
		}, catalog.Options{Name: "mvlempyr", Dir: t.TempDir()})
		require.NoError(t, err)

		s := NewCatalogRefreshScheduler(config.CatalogRefresh{Enabled: true}, []string{"mvlempyr", "missing"}, storeResolver{"mvlempyr": store}, nil)
		s.runRefresh(context.Background())

		assert.Len(t, store.Records(), 1)
	})
}
