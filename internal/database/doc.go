// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, settings KV
//	├── hub.go           # Change notifications backing live queries
//	├── books/           # Book CRUD, search and live queries
//	├── progress/        # Reading progress CRUD and live queries
//	├── reviews/         # Review CRUD and live queries
//	└── users/           # User management
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./bookflow.db")
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB, db.Changes())
//	progressRepo := progress.NewRepository(db.DB, db.Changes())
//
//	// Use repositories
//	book, err := booksRepo.GetBookByID("volume-id")
//	reading, err := progressRepo.GetCurrentlyReading()
//
// Read-one operations return (nil, nil) when no row matches; absence is
// not an error at this layer.
//
// # Live Queries
//
// Watch* methods return a channel that delivers the current result set
// immediately and a fresh snapshot after every relevant write. Watchers
// are cancelled through their context; each subscriber is notified
// independently via the change hub in hub.go.
package database
