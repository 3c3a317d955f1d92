package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Create controllers
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Library)
	catalogController := NewCatalogController(cfg.Library)
	progressController := NewProgressController(cfg.Library)
	reviewsController := NewReviewsController(cfg.Library)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auth endpoints
	if cfg.AuthService != nil {
		authController := NewAuthController(cfg.AuthService)
		router.POST("/api/auth/signup", authController.SignUp)
		router.POST("/api/auth/signin", authController.SignIn)
		router.POST("/api/auth/signout", authController.SignOut)
		router.GET("/api/auth/me", authController.CurrentUser)
	}

	// Local library endpoints
	router.GET("/api/books", booksController.GetAllBooks)
	router.GET("/api/books/search", booksController.SearchBooks)
	router.GET("/api/books/stats", booksController.GetReadingStats)
	router.GET("/api/books/:id", booksController.GetBook)
	router.POST("/api/books", booksController.AddBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)

	// Book cover endpoint
	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.Library)
		router.GET("/api/books/:id/cover", coversController.GetCover)
	}

	// Remote catalog endpoints
	router.GET("/api/catalog/search", catalogController.Search)
	router.GET("/api/catalog/trending", catalogController.Trending)
	router.GET("/api/catalog/categories/:category", catalogController.ByCategory)
	router.GET("/api/catalog/authors", catalogController.ByAuthor)
	router.GET("/api/catalog/volumes/:id", catalogController.GetVolume)

	// Reading progress endpoints
	router.GET("/api/progress", progressController.GetAllProgress)
	router.GET("/api/progress/currently-reading", progressController.GetCurrentlyReading)
	router.GET("/api/progress/want-to-read", progressController.GetWantToRead)
	router.GET("/api/books/:id/progress", progressController.GetProgressForBook)
	router.PUT("/api/books/:id/progress", progressController.UpsertProgress)
	router.DELETE("/api/books/:id/progress", progressController.DeleteProgress)

	// Review endpoints
	router.GET("/api/reviews", reviewsController.GetAllReviews)
	router.GET("/api/books/:id/review", reviewsController.GetReviewForBook)
	router.PUT("/api/books/:id/review", reviewsController.UpsertReview)
	router.DELETE("/api/reviews/:id", reviewsController.DeleteReview)

	// Background sync endpoints
	if cfg.Scheduler != nil {
		syncController := NewSyncController(cfg.Scheduler, cfg.Database)
		router.POST("/api/sync/run", syncController.RunNow)
		router.GET("/api/sync/status", syncController.Status)
	}

	return router
}
