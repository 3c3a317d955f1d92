package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmaronga/bookflow/internal/auth"
	"github.com/johnmaronga/bookflow/internal/catalog"
	"github.com/johnmaronga/bookflow/internal/database"
	"github.com/johnmaronga/bookflow/internal/database/books"
	"github.com/johnmaronga/bookflow/internal/database/progress"
	"github.com/johnmaronga/bookflow/internal/database/reviews"
	"github.com/johnmaronga/bookflow/internal/database/users"
	"github.com/johnmaronga/bookflow/internal/entities"
	"github.com/johnmaronga/bookflow/internal/library"
	"github.com/johnmaronga/bookflow/internal/session"
)

func setupRouter(t *testing.T, catalogHandler http.HandlerFunc) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpDir, err := os.MkdirTemp("", "http_test")
	require.NoError(t, err)

	db, err := database.NewDatabase(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)

	catalogServer := httptest.NewServer(catalogHandler)

	bookStore := books.NewRepository(db.DB, db.Changes())
	progressStore := progress.NewRepository(db.DB, db.Changes())
	reviewStore := reviews.NewRepository(db.DB, db.Changes())
	catalogClient := catalog.NewClient(catalogServer.URL, 5*time.Second)
	lib := library.NewRepository(bookStore, progressStore, reviewStore, catalogClient, 20)

	authService := auth.NewService(users.NewRepository(db.DB), session.NewManager(db))

	router := NewRouter(RouterConfig{
		Library:     lib,
		Database:    db,
		AuthService: authService,
		Version:     "test",
	})

	cleanup := func() {
		catalogServer.Close()
		db.Close()
		os.RemoveAll(tmpDir)
	}
	return router, cleanup
}

func emptyCatalog(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, `{"items": []}`)
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, cleanup := setupRouter(t, emptyCatalog)
	defer cleanup()

	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Checks["database"])
}

func TestHealthReportsLastSync(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tmpDir, err := os.MkdirTemp("", "health_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	db, err := database.NewDatabase(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	router := gin.New()
	router.GET("/health", NewHealthController(db, "test").Status)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "never ran", health.Checks["trending_sync"])

	require.NoError(t, db.SetSetting(entities.SettingKeyTrendingSyncLastStatus, "success"))
	require.NoError(t, db.SetSetting(entities.SettingKeyTrendingSyncLastAt, "2026-09-01T03:00:00Z"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "success at 2026-09-01T03:00:00Z", health.Checks["trending_sync"])
}

func TestBooksCRUD(t *testing.T) {
	router, cleanup := setupRouter(t, emptyCatalog)
	defer cleanup()

	// Empty library
	w := doJSON(router, http.MethodGet, "/api/books", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count": 0`)

	// Add
	w = doJSON(router, http.MethodPost, "/api/books", map[string]any{
		"title": "Dune", "author": "Frank Herbert", "page_count": 412,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// Get by id
	w = doJSON(router, http.MethodGet, "/api/books/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dune")

	// Search local
	w = doJSON(router, http.MethodGet, "/api/books/search?q=dune", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count": 1`)

	// Delete
	w = doJSON(router, http.MethodDelete, "/api/books/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/books/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddBookRequiresTitle(t *testing.T) {
	router, cleanup := setupRouter(t, emptyCatalog)
	defer cleanup()

	w := doJSON(router, http.MethodPost, "/api/books", map[string]any{"author": "Nobody"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogSearchCachesLocally(t *testing.T) {
	router, cleanup := setupRouter(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": "vol-1", "volumeInfo": {"title": "Remote Book", "authors": ["Someone"]}}]}`)
	})
	defer cleanup()

	w := doJSON(router, http.MethodGet, "/api/catalog/search?q=remote", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Remote Book")

	// Cached: now visible in the local library
	w = doJSON(router, http.MethodGet, "/api/books/vol-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Remote Book")
}

func TestCatalogSearchUpstreamFailure(t *testing.T) {
	router, cleanup := setupRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer cleanup()

	w := doJSON(router, http.MethodGet, "/api/catalog/search?q=remote", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCatalogTrendingNotCached(t *testing.T) {
	router, cleanup := setupRouter(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": "trend-1", "volumeInfo": {"title": "Trending Book"}}]}`)
	})
	defer cleanup()

	w := doJSON(router, http.MethodGet, "/api/catalog/trending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Trending Book")

	w = doJSON(router, http.MethodGet, "/api/books/trend-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogVolumeDetails(t *testing.T) {
	router, cleanup := setupRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/volumes/vol-1" {
			fmt.Fprint(w, `{"id": "vol-1", "volumeInfo": {"title": "Remote Book"}}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	defer cleanup()

	w := doJSON(router, http.MethodGet, "/api/catalog/volumes/vol-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Remote Book")

	w = doJSON(router, http.MethodGet, "/api/catalog/volumes/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgressFlow(t *testing.T) {
	router, cleanup := setupRouter(t, emptyCatalog)
	defer cleanup()

	// Seed a book
	w := doJSON(router, http.MethodPost, "/api/books", map[string]any{
		"id": "dune", "title": "Dune", "page_count": 412,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// No progress yet
	w = doJSON(router, http.MethodGet, "/api/books/dune/progress", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Record mid-book progress; status is derived
	w = doJSON(router, http.MethodPut, "/api/books/dune/progress", map[string]any{
		"current_page": 100, "total_pages": 412,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CURRENTLY_READING")

	w = doJSON(router, http.MethodGet, "/api/progress/currently-reading", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count": 1`)

	// Finish the book; stats update
	w = doJSON(router, http.MethodPut, "/api/books/dune/progress", map[string]any{
		"current_page": 412, "total_pages": 412,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FINISHED")

	w = doJSON(router, http.MethodGet, "/api/books/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats library.ReadingStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.BooksRead)
	assert.Equal(t, 412, stats.PagesRead)
}

func TestProgressRejectsNegativePages(t *testing.T) {
	router, cleanup := setupRouter(t, emptyCatalog)
	defer cleanup()

	w := doJSON(router, http.MethodPut, "/api/books/x/progress", map[string]any{
		"current_page": -1, "total_pages": 10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewFlow(t *testing.T) {
	router, cleanup := setupRouter(t, emptyCatalog)
	defer cleanup()

	w := doJSON(router, http.MethodPost, "/api/books", map[string]any{"id": "dune", "title": "Dune"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Upsert review twice; the second replaces the first
	w = doJSON(router, http.MethodPut, "/api/books/dune/review", map[string]any{
		"rating": 3, "review_text": "Good",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPut, "/api/books/dune/review", map[string]any{
		"rating": 5, "review_text": "Great on reread",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/reviews", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count": 1`)
	assert.Contains(t, w.Body.String(), "Great on reread")

	// Rating bounds
	w = doJSON(router, http.MethodPut, "/api/books/dune/review", map[string]any{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthFlow(t *testing.T) {
	router, cleanup := setupRouter(t, emptyCatalog)
	defer cleanup()

	// Not signed in
	w := doJSON(router, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Sign up
	w = doJSON(router, http.MethodPost, "/api/auth/signup", map[string]any{
		"email": "reader@example.com", "password": "hunter22", "name": "Reader",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reader@example.com")
	assert.NotContains(t, w.Body.String(), "hunter22")

	// Duplicate signup
	w = doJSON(router, http.MethodPost, "/api/auth/signup", map[string]any{
		"email": "reader@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Sign out and back in
	w = doJSON(router, http.MethodPost, "/api/auth/signout", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/signin", map[string]any{
		"email": "reader@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/signin", map[string]any{
		"email": "reader@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
