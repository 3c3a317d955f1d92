package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/johnmaronga/bookflow/internal/auth"
	"github.com/johnmaronga/bookflow/internal/catalog"
	"github.com/johnmaronga/bookflow/internal/config"
	"github.com/johnmaronga/bookflow/internal/covers"
	"github.com/johnmaronga/bookflow/internal/database"
	"github.com/johnmaronga/bookflow/internal/database/books"
	"github.com/johnmaronga/bookflow/internal/database/progress"
	"github.com/johnmaronga/bookflow/internal/database/reviews"
	"github.com/johnmaronga/bookflow/internal/database/users"
	http_controllers "github.com/johnmaronga/bookflow/internal/http"
	"github.com/johnmaronga/bookflow/internal/library"
	"github.com/johnmaronga/bookflow/internal/notify"
	"github.com/johnmaronga/bookflow/internal/scheduler"
	"github.com/johnmaronga/bookflow/internal/session"
	"github.com/johnmaronga/bookflow/internal/tasks"
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
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown: wait for SIGINT/SIGTERM, then give in-flight
	// requests and background workers the configured timeout to drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting BookFlow v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Local DAOs share the change hub so writes wake live queries
	bookStore := books.NewRepository(db.DB, db.Changes())
	progressStore := progress.NewRepository(db.DB, db.Changes())
	reviewStore := reviews.NewRepository(db.DB, db.Changes())
	userStore := users.NewRepository(db.DB)

	// Remote catalog client
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)

	// Domain repository: local-first reads, write-through remote search
	libraryRepo := library.NewRepository(bookStore, progressStore, reviewStore, catalogClient, cfg.Catalog.MaxResults)

	// Session + auth
	sessionManager := session.NewManager(db)
	authService := auth.NewService(userStore, sessionManager)

	// Cover cache for locally caching book covers
	coverCacheDir := filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
	coverCache, err := covers.NewCache(coverCacheDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
		coverCache = nil
	} else {
		log.Printf("Cover cache initialized at %s", coverCacheDir)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var sched *scheduler.Scheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
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

		// Register task queues
		taskClient.Register(
			tasks.NewSyncBooksQueue(libraryRepo, db),
			tasks.NewReadingReminderQueue(libraryRepo, notify.NewLogNotifier()),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// Cron scheduler enqueues the periodic jobs
		sched = scheduler.New(taskClient, scheduler.Config{
			SyncEnabled:      cfg.Sync.Enabled,
			SyncSchedule:     cfg.Sync.Schedule,
			ReminderEnabled:  cfg.Reminder.Enabled,
			ReminderSchedule: cfg.Reminder.Schedule,
		})
		if err := sched.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Library:     libraryRepo,
		Database:    db,
		AuthService: authService,
		Scheduler:   sched,
		CoverCache:  coverCache,
		Version:     version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if sched != nil {
			sched.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// RunSync performs a one-shot trending sync and exits. Used by the
// "sync" CLI command; the HTTP server is not started.
func RunSync(cfg *config.Config) error {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	bookStore := books.NewRepository(db.DB, db.Changes())
	progressStore := progress.NewRepository(db.DB, db.Changes())
	reviewStore := reviews.NewRepository(db.DB, db.Changes())
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	libraryRepo := library.NewRepository(bookStore, progressStore, reviewStore, catalogClient, cfg.Catalog.MaxResults)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := libraryRepo.SyncBooks(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d books in %v\n", result.BooksSynced, result.Duration.Round(time.Millisecond))
	return nil
}
