package config

// Default locations and endpoints
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./bookflow.db"

	// DefaultCatalogBaseURL is the Google Books volumes API root
	DefaultCatalogBaseURL = "https://www.googleapis.com/books/v1"
)
