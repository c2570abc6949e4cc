package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/novelshelf/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	client   TaskQueue
	catalogs tasks.CatalogResolver
}

// NewTasksController creates a new TasksController. catalogs validates the
// provider of catalog refresh requests.
func NewTasksController(client TaskQueue, catalogs tasks.CatalogResolver) *TasksController {
	return &TasksController{client: client, catalogs: catalogs}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/tasks/types
// Returns the list of available task types that can be triggered.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "refresh_catalog",
			Description: "Download a provider's complete catalog and replace its snapshot",
			Queue:       tasks.RefreshCatalogTask{}.Config().Name,
		},
		{
			Type:        "rebuild_library",
			Description: "Rebuild the library sections from the datastore",
			Queue:       tasks.RebuildLibraryTask{}.Config().Name,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// Provider is required for refresh_catalog task
	Provider string `json:"provider,omitempty" form:"provider"`
}

// RunTask handles POST /api/tasks/:type/run
// Manually triggers a task of the specified type.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request: "+err.Error())
			return
		}
	}
	if req.Provider == "" {
		req.Provider = c.Query("provider")
	}

	var task backlite.Task
	switch taskType {
	case "refresh_catalog":
		if req.Provider == "" {
			respondBadRequest(c, "provider is required for refresh_catalog task")
			return
		}
		if tc.catalogs != nil {
			if _, err := tc.catalogs.Catalog(req.Provider); err != nil {
				respondProviderError(c, err, "resolve catalog")
				return
			}
		}
		task = tasks.RefreshCatalogTask{Provider: req.Provider}

	case "rebuild_library":
		task = tasks.RebuildLibraryTask{}

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	id, err := tc.client.Enqueue(c.Request.Context(), task)
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	respondAccepted(c, "task enqueued", gin.H{
		"task_id": id,
		"type":    taskType,
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
