// Package http wires the gin router and the API controllers.
package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Apply session middleware if enabled
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Register auth routes if auth is enabled
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig)
		authController.RegisterRoutes(router)
	}

	// Create controllers
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.BookStore, cfg.TaskClient)
	queueController := NewQueueController(cfg.BookStore)
	diaryController := NewDiaryController(cfg.DiaryStore)
	notesController := NewNotesController(cfg.NoteStore)
	statsController := NewStatsController(cfg.Stats)
	quotesController := NewQuotesController(cfg.QuoteStore)
	filtersController := NewFiltersController(cfg.BookStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Book catalog
	router.GET("/api/books", booksController.List)
	router.POST("/api/books", booksController.Create)
	router.GET("/api/books/current", booksController.Current)
	router.GET("/api/books/:id", booksController.Get)
	router.PUT("/api/books/:id", booksController.Update)
	router.DELETE("/api/books/:id", booksController.Delete)
	router.POST("/api/books/:id/priority", booksController.SetPriority)
	router.POST("/api/books/:id/refresh-cover", booksController.RefreshCover)
	router.GET("/api/books/:id/notes", notesController.ListByBook)

	// Reading queue
	router.GET("/api/queue", queueController.List)
	router.PUT("/api/queue/reorder", queueController.Reorder)

	// Reading diary
	router.GET("/api/diary", diaryController.List)
	router.POST("/api/diary", diaryController.Create)
	router.GET("/api/diary/:date", diaryController.GetByDate)
	router.PUT("/api/diary/:id", diaryController.Update)
	router.DELETE("/api/diary/:id", diaryController.Delete)

	// Notes
	router.GET("/api/notes", notesController.List)
	router.POST("/api/notes", notesController.Create)
	router.GET("/api/notes/:id", notesController.Get)
	router.PUT("/api/notes/:id", notesController.Update)
	router.DELETE("/api/notes/:id", notesController.Delete)

	// Statistics
	router.GET("/api/stats/overview", statsController.Overview)
	router.GET("/api/stats/pages", statsController.Pages)
	router.GET("/api/stats/spending", statsController.Spending)
	router.GET("/api/stats/reading-time", statsController.ReadingTime)
	router.GET("/api/stats/publishers", statsController.Publishers)

	// Daily quote
	router.GET("/api/quote", quotesController.Random)

	// Catalog filter values
	router.GET("/api/filters", filtersController.List)

	// Data export
	if cfg.Exporter != nil {
		exportController := NewExportController(cfg.Exporter, cfg.ExportScheduler)
		router.GET("/api/export", exportController.Download)
		router.GET("/api/export/status", exportController.Status)
		router.POST("/api/export/snapshot", exportController.RunSnapshot)
	}

	// Task status
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	// Static frontend
	if cfg.StaticPath != "" {
		registerStatic(router, cfg.StaticPath)
	}

	return router
}

// registerStatic serves the single-page frontend: assets under /static
// and index.html for every non-API path so client-side routing works.
func registerStatic(router *gin.Engine, staticPath string) {
	router.Static("/static", staticPath)

	index := filepath.Join(staticPath, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}

	router.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
			return
		}
		c.File(index)
	})
}
