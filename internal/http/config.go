package http

import (
	"github.com/johnmaronga/bookflow/internal/auth"
	"github.com/johnmaronga/bookflow/internal/covers"
	"github.com/johnmaronga/bookflow/internal/database"
	"github.com/johnmaronga/bookflow/internal/library"
	"github.com/johnmaronga/bookflow/internal/scheduler"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Library  *library.Repository
	Database *database.Database

	// Authentication
	AuthService *auth.Service

	// Background jobs (optional)
	Scheduler *scheduler.Scheduler

	// Cover caching (optional)
	CoverCache *covers.Cache

	// Application info
	Version string
}
