// Package entrypoint assembles the application and runs the HTTP server.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/auth"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/config"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/books"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/diary"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/notes"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/quotes"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/exporters"
	http_controllers "github.com/Miguel-Lopes31/poetas-mortos/internal/http"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/metadata"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/scheduler"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/stats"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
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

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Poetas Mortos v%s", version)

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

	// Repositories
	booksRepo := books.NewRepository(db.DB)
	diaryRepo := diary.NewRepository(db.DB)
	notesRepo := notes.NewRepository(db.DB)
	quotesRepo := quotes.NewRepository(db.DB)

	// Derived statistics
	statsService := stats.NewService(booksRepo, diaryRepo)

	// Full-data exporter and optional snapshot scheduler
	exporter := exporters.NewJSONExporter(booksRepo, diaryRepo, notesRepo)

	var exportScheduler *scheduler.ExportScheduler
	if cfg.Export.Enabled {
		exportScheduler = scheduler.NewExportScheduler(db.DB, exporter, cfg.Export)
		if err := exportScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start export scheduler: %v", err)
		}
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

		openLibraryClient := metadata.NewOpenLibraryClient()
		taskClient.Register(
			tasks.NewRefreshCoverQueue(booksRepo, openLibraryClient),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Initialize authentication if enabled
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(db.DB, cfg.Auth)

		// Get underlying SQL DB for session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. POST /api/auth/setup to create the first account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:        db,
		BookStore:       booksRepo,
		DiaryStore:      diaryRepo,
		NoteStore:       notesRepo,
		QuoteStore:      quotesRepo,
		Stats:           statsService,
		Exporter:        exporter,
		ExportScheduler: exportScheduler,
		TaskClient:      taskClient,
		AuthService:     authService,
		SessionManager:  sessionManager,
		AuthMiddleware:  authMiddleware,
		AuthConfig:      cfg.Auth,
		CSRFSecret:      csrfSecret,
		SecureCookies:   cfg.Auth.SecureCookies,
		StaticPath:      cfg.UI.StaticPath,
		Version:         version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Graceful shutdown: stop background workers before the listener closes
	onShutdown := func(ctx context.Context) {
		if exportScheduler != nil {
			exportScheduler.Stop()
		}
		if taskClient != nil {
			if taskCtxCancel != nil {
				taskCtxCancel()
			}
			taskClient.Stop(ctx)
		}
	}

	Serve(router, cfg, onShutdown)
}
