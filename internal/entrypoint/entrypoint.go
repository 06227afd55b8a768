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

	"github.com/locallibrary/catalog/internal/audit"
	"github.com/locallibrary/catalog/internal/config"
	"github.com/locallibrary/catalog/internal/database"
	auditRepo "github.com/locallibrary/catalog/internal/database/audit"
	"github.com/locallibrary/catalog/internal/database/authors"
	"github.com/locallibrary/catalog/internal/database/books"
	"github.com/locallibrary/catalog/internal/database/genres"
	"github.com/locallibrary/catalog/internal/database/instances"
	http_controllers "github.com/locallibrary/catalog/internal/http"
	"github.com/locallibrary/catalog/internal/middleware"
	"github.com/locallibrary/catalog/internal/scheduler"
	"github.com/locallibrary/catalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT. SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after in-flight requests have drained.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting LocalLibrary v%s (%s)", version, cfg.App.Env)

	if cfg.App.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabase(cfg.Database.Path, database.WithLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))

	var sessions *middleware.SessionManager
	var csrfSecret []byte
	if cfg.Session.Enabled() {
		sqlDB, err := db.SQLDB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
		sessions, err = middleware.NewSessionManager(sqlDB, cfg.Session.Lifetime, cfg.Session.SecureCookies)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}
		csrfSecret = []byte(cfg.Session.Secret)
		log.Printf("Sessions and CSRF protection enabled")
	} else {
		log.Printf("WARNING: SESSION_SECRET is not set. Flash messages and CSRF protection are disabled.")
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// A nil *tasks.Client must not reach the scheduler as a non-nil interface.
	var cleanupQueue scheduler.CleanupEnqueuer
	if taskClient != nil {
		cleanupQueue = taskClient
	}
	cleanupScheduler := scheduler.NewAuditCleanupScheduler(
		cfg.Audit.CleanupSchedule,
		cfg.Audit.RetentionDays,
		cleanupQueue,
		auditService,
	)
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if err := cleanupScheduler.Start(schedCtx); err != nil {
		log.Printf("WARNING: audit cleanup scheduler not started: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Genres:          genres.NewRepository(db.DB),
		Authors:         authors.NewRepository(db.DB),
		Books:           books.NewRepository(db.DB),
		Instances:       instances.NewRepository(db.DB),
		Database:        db,
		Audit:           auditService,
		AuditCleanup:    cleanupScheduler,
		TemplatesPath:   cfg.UI.TemplatesPath,
		StaticPath:      cfg.UI.StaticPath,
		ShowErrorDetail: cfg.App.IsDevelopment(),
		CSRFSecret:      csrfSecret,
		SecureCookies:   cfg.Session.SecureCookies,
		Sessions:        sessions,
		Version:         version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
