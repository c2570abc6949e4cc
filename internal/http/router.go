package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Providers, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Provider endpoints
	if cfg.Providers != nil {
		providersController := NewProvidersController(cfg.Providers, cfg.RequestTimeout)
		router.GET("/api/providers", providersController.ListProviders)
		router.GET("/api/providers/:name/main", providersController.MainPage)
		router.GET("/api/providers/:name/search", providersController.Search)
		router.GET("/api/providers/:name/novel", providersController.Novel)
		router.GET("/api/providers/:name/chapter", providersController.Chapter)
		router.POST("/api/providers/:name/filter-changed", providersController.FilterChanged)
		router.GET("/api/filters/chapter-count", providersController.ChapterPresets)
	}

	// Library endpoints
	if cfg.Library != nil {
		libraryController := NewLibraryController(cfg.Library, cfg.Recorder)
		router.GET("/api/library", libraryController.GetLibrary)
		router.POST("/api/library/rebuild", libraryController.Rebuild)
		router.GET("/api/library/status", libraryController.Status)
		if cfg.Recorder != nil {
			router.POST("/api/library/bookmarks", libraryController.AddBookmark)
			router.POST("/api/library/history", libraryController.AddHistory)
			router.POST("/api/library/downloads", libraryController.AddDownload)
		}
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		var tasksController *TasksController
		if cfg.Providers != nil {
			tasksController = NewTasksController(cfg.TaskClient, cfg.Providers)
		} else {
			tasksController = NewTasksController(cfg.TaskClient, nil)
		}
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
