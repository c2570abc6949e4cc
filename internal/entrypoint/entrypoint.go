package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelshelf/internal/catalog"
	"github.com/mrlokans/novelshelf/internal/config"
	"github.com/mrlokans/novelshelf/internal/database"
	"github.com/mrlokans/novelshelf/internal/database/kv"
	http_controllers "github.com/mrlokans/novelshelf/internal/http"
	"github.com/mrlokans/novelshelf/internal/library"
	"github.com/mrlokans/novelshelf/internal/scheduler"
	"github.com/mrlokans/novelshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -9 can't be caught, so SIGINT and SIGTERM are enough
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting novelshelf v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	registry, err := BuildRegistry(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize providers: %v", err)
	}
	log.Printf("Providers registered: %v", registry.Names())

	store := kv.NewRepository(db.DB)
	aggregator := library.NewAggregator(store, library.Options{LookupDownloads: cfg.Library.LookupDownloads})
	recorder := library.NewRecorder(store)

	// An empty view is served until the first successful rebuild
	if err := aggregator.Rebuild(context.Background()); err != nil {
		log.Printf("WARNING: initial library rebuild failed: %v", err)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRefreshCatalogQueue(registry),
			tasks.NewRebuildLibraryQueue(aggregator),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Interfaces must stay nil when the queue is disabled
	var queue scheduler.Enqueuer
	var routerTasks http_controllers.TaskQueue
	if taskClient != nil {
		queue = taskClient
		routerTasks = taskClient
	}

	refreshScheduler := scheduler.NewCatalogRefreshScheduler(cfg.CatalogRefresh, catalogNames(registry), registry, queue)
	if err := refreshScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: catalog refresh scheduler not started: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Providers:      registry,
		Library:        aggregator,
		Recorder:       recorder,
		TaskClient:     routerTasks,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		refreshScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		waitForRefills(ctx, registry.Catalogs())
	}

	Serve(router, cfg, onShutdown)
}

// waitForRefills lets running background catalog downloads write their
// snapshots, giving up when ctx ends.
func waitForRefills(ctx context.Context, stores map[string]*catalog.Store) {
	done := make(chan struct{})
	go func() {
		for _, store := range stores {
			store.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("WARNING: shutdown before catalog refills finished: %v", ctx.Err())
	}
}
