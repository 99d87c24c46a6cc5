package http

import (
	"github.com/Miguel-Lopes31/poetas-mortos/internal/auth"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/config"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/exporters"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/scheduler"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/stats"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	BookStore  BookStore
	DiaryStore DiaryStore
	NoteStore  NoteStore
	QuoteStore QuoteStore
	Stats      *stats.Service

	// Data export
	Exporter        *exporters.JSONExporter
	ExportScheduler *scheduler.ExportScheduler

	// Task queue client (optional; covers are refreshed inline when nil)
	TaskClient *tasks.Client

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// UI paths
	StaticPath string

	// Application info
	Version string
}
