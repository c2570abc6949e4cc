package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/novelshelf/internal/providers"
	"github.com/mrlokans/novelshelf/internal/tasks"
)

type fakeTaskQueue struct {
	mu       sync.Mutex
	enqueued []backlite.Task
	status   backlite.TaskStatus
	err      error
}

func (f *fakeTaskQueue) Enqueue(_ context.Context, task backlite.Task) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.enqueued = append(f.enqueued, task)
	return "task-1", nil
}

func (f *fakeTaskQueue) Status(context.Context, string) (backlite.TaskStatus, error) {
	return f.status, f.err
}

func setupTasksRouter(t *testing.T, queue *fakeTaskQueue) *gin.Engine {
	t.Helper()

	store := newTestCatalog(t, "shelfsource", 1)
	registry := providers.NewRegistry(
		&stubProvider{name: "plain"},
		&stubCatalogProvider{stubProvider: stubProvider{name: "shelfsource"}, store: store},
	)
	return NewRouter(RouterConfig{Providers: registry, TaskClient: queue})
}

func TestTasksController_ListTaskTypes(t *testing.T) {
	router := setupTasksRouter(t, &fakeTaskQueue{})

	w := doRequest(router, "GET", "/api/tasks/types", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		TaskTypes []TaskTypeInfo `json:"task_types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.TaskTypes, 2)
	assert.Equal(t, "refresh_catalog", resp.TaskTypes[0].Queue)
	assert.Equal(t, "rebuild_library", resp.TaskTypes[1].Queue)
}

func TestTasksController_RunTask(t *testing.T) {
	t.Run("enqueues a catalog refresh", func(t *testing.T) {
		queue := &fakeTaskQueue{}
		router := setupTasksRouter(t, queue)

		w := doRequest(router, "POST", "/api/tasks/refresh_catalog/run", `{"provider":"shelfsource"}`)

		require.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), "task-1")
		require.Len(t, queue.enqueued, 1)
		assert.Equal(t, tasks.RefreshCatalogTask{Provider: "shelfsource"}, queue.enqueued[0])
	})

	t.Run("takes the provider from the query", func(t *testing.T) {
		queue := &fakeTaskQueue{}
		w := doRequest(setupTasksRouter(t, queue), "POST", "/api/tasks/refresh_catalog/run?provider=shelfsource", "")

		require.Equal(t, http.StatusAccepted, w.Code)
		assert.Len(t, queue.enqueued, 1)
	})

	t.Run("enqueues a library rebuild", func(t *testing.T) {
		queue := &fakeTaskQueue{}
		w := doRequest(setupTasksRouter(t, queue), "POST", "/api/tasks/rebuild_library/run", "")

		require.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, queue.enqueued, 1)
		assert.Equal(t, tasks.RebuildLibraryTask{}, queue.enqueued[0])
	})

	t.Run("rejects refreshes of providers without a catalog", func(t *testing.T) {
		queue := &fakeTaskQueue{}
		router := setupTasksRouter(t, queue)

		assert.Equal(t, http.StatusNotFound, doRequest(router, "POST", "/api/tasks/refresh_catalog/run?provider=plain", "").Code)
		assert.Equal(t, http.StatusNotFound, doRequest(router, "POST", "/api/tasks/refresh_catalog/run?provider=ghost", "").Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(router, "POST", "/api/tasks/refresh_catalog/run", "").Code)
		assert.Empty(t, queue.enqueued)
	})

	t.Run("rejects unknown task types", func(t *testing.T) {
		w := doRequest(setupTasksRouter(t, &fakeTaskQueue{}), "POST", "/api/tasks/enrich_book/run", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reports queue failures", func(t *testing.T) {
		queue := &fakeTaskQueue{err: errors.New("queue closed")}
		w := doRequest(setupTasksRouter(t, queue), "POST", "/api/tasks/rebuild_library/run", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTasksController_GetTaskStatus(t *testing.T) {
	queue := &fakeTaskQueue{status: backlite.TaskStatusSuccess}

	w := doRequest(setupTasksRouter(t, queue), "GET", "/api/tasks/task-1", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"task-1","status":"success"}`, w.Body.String())
}

func TestTaskStatusToString(t *testing.T) {
	assert.Equal(t, "pending", taskStatusToString(backlite.TaskStatusPending))
	assert.Equal(t, "running", taskStatusToString(backlite.TaskStatusRunning))
	assert.Equal(t, "failure", taskStatusToString(backlite.TaskStatusFailure))
	assert.Equal(t, "not_found", taskStatusToString(backlite.TaskStatusNotFound))
}
