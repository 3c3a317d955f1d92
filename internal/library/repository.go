// Package library is the domain-level repository consumed by the rest
// of the application. It unifies the local DAOs with the remote
// catalog client and owns the write-through caching policy: remote
// search results are persisted locally before being returned, local
// reads never touch the network.
package library

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/johnmaronga/bookflow/internal/entities"
)

// BookStore is the local book DAO surface the repository depends on.
type BookStore interface {
	GetAllBooks() ([]entities.Book, error)
	GetBookByID(id string) (*entities.Book, error)
	SearchBooks(query string) ([]entities.Book, error)
	UpsertBook(book *entities.Book) error
	UpsertBooks(books []entities.Book) error
	DeleteBook(id string) error
	WatchAllBooks(ctx context.Context) <-chan []entities.Book
	WatchBook(ctx context.Context, id string) <-chan *entities.Book
}

// ProgressStore is the local reading-progress DAO surface.
type ProgressStore interface {
	GetAllProgress() ([]entities.ReadingProgress, error)
	GetProgressByBookID(bookID string) (*entities.ReadingProgress, error)
	GetProgressByStatus(status entities.ReadingStatus) ([]entities.ReadingProgress, error)
	GetCurrentlyReading() ([]entities.ReadingProgress, error)
	GetWantToRead() ([]entities.ReadingProgress, error)
	CountCurrentlyReading() (int64, error)
	UpsertProgress(row *entities.ReadingProgress) error
	DeleteProgressByBookID(bookID string) error
	WatchAllProgress(ctx context.Context) <-chan []entities.ReadingProgress
	WatchCurrentlyReading(ctx context.Context) <-chan []entities.ReadingProgress
	WatchProgressByBookID(ctx context.Context, bookID string) <-chan *entities.ReadingProgress
}

// ReviewStore is the local review DAO surface.
type ReviewStore interface {
	GetAllReviews() ([]entities.Review, error)
	GetReviewByBookID(bookID string) (*entities.Review, error)
	GetReviewsByMinRating(minRating float64) ([]entities.Review, error)
	UpsertReview(row *entities.Review) error
	DeleteReviewByID(id string) error
	WatchAllReviews(ctx context.Context) <-chan []entities.Review
	WatchReviewByBookID(ctx context.Context, bookID string) <-chan *entities.Review
}

// CatalogClient is the remote catalog surface.
type CatalogClient interface {
	Search(ctx context.Context, query string, maxResults, startIndex int) ([]entities.Book, error)
	SearchByCategory(ctx context.Context, category string, maxResults int) ([]entities.Book, error)
	SearchByAuthor(ctx context.Context, author string, maxResults int) ([]entities.Book, error)
	GetTrending(ctx context.Context, maxResults int) ([]entities.Book, error)
	GetVolume(ctx context.Context, volumeID string) (*entities.Book, error)
}

// ReadingStats aggregates finished-book counters for the dashboard.
type ReadingStats struct {
	BooksRead int `json:"books_read"`
	PagesRead int `json:"pages_read"`
}

// SyncResult reports what a trending sync persisted.
type SyncResult struct {
	BooksSynced int           `json:"books_synced"`
	Duration    time.Duration `json:"duration"`
}

// Repository unifies local storage and the remote catalog.
type Repository struct {
	books    BookStore
	progress ProgressStore
	reviews  ReviewStore
	catalog  CatalogClient

	maxResults int
}

// NewRepository creates the domain repository. maxResults bounds every
// remote fetch; zero selects the API page-size cap.
func NewRepository(books BookStore, progress ProgressStore, reviews ReviewStore, catalog CatalogClient, maxResults int) *Repository {
	return &Repository{
		books:      books,
		progress:   progress,
		reviews:    reviews,
		catalog:    catalog,
		maxResults: maxResults,
	}
}

// Book operations (local-first: these never trigger network activity)

func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	return r.books.GetAllBooks()
}

func (r *Repository) GetBookByID(id string) (*entities.Book, error) {
	return r.books.GetBookByID(id)
}

func (r *Repository) WatchAllBooks(ctx context.Context) <-chan []entities.Book {
	return r.books.WatchAllBooks(ctx)
}

func (r *Repository) WatchBook(ctx context.Context, id string) <-chan *entities.Book {
	return r.books.WatchBook(ctx, id)
}

func (r *Repository) SearchBooksLocal(query string) ([]entities.Book, error) {
	return r.books.SearchBooks(query)
}

// AddBook stores a user-supplied book locally, generating an id when
// the caller did not provide one.
func (r *Repository) AddBook(book *entities.Book) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	return r.books.UpsertBook(book)
}

func (r *Repository) DeleteBook(id string) error {
	return r.books.DeleteBook(id)
}

// Remote operations

// SearchBooksRemote queries the catalog and caches every returned book
// locally before returning, so subsequent local reads can serve them.
// On failure nothing is persisted and local state is untouched.
func (r *Repository) SearchBooksRemote(ctx context.Context, query string) ([]entities.Book, error) {
	found, err := r.catalog.Search(ctx, query, r.maxResults, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}

	if err := r.books.UpsertBooks(found); err != nil {
		return nil, fmt.Errorf("failed to cache books: %w", err)
	}

	return found, nil
}

// GetTrendingBooks fetches the trending list for browsing. Results are
// deliberately NOT cached; only an explicit sync persists trending.
func (r *Repository) GetTrendingBooks(ctx context.Context) ([]entities.Book, error) {
	found, err := r.catalog.GetTrending(ctx, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending books: %w", err)
	}
	return found, nil
}

// GetBooksByCategory fetches a category listing without caching.
func (r *Repository) GetBooksByCategory(ctx context.Context, category string) ([]entities.Book, error) {
	found, err := r.catalog.SearchByCategory(ctx, category, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books by category: %w", err)
	}
	return found, nil
}

// GetVolumeDetails looks up a single catalog volume by id without
// caching it; (nil, nil) when the catalog has no such volume.
func (r *Repository) GetVolumeDetails(ctx context.Context, volumeID string) (*entities.Book, error) {
	book, err := r.catalog.GetVolume(ctx, volumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volume %s: %w", volumeID, err)
	}
	return book, nil
}

// GetBooksByAuthor fetches an author listing without caching.
func (r *Repository) GetBooksByAuthor(ctx context.Context, author string) ([]entities.Book, error) {
	found, err := r.catalog.SearchByAuthor(ctx, author, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books by author: %w", err)
	}
	return found, nil
}

// SyncBooks fetches the trending set and persists all of it locally,
// replacing rows with the same id. Idempotent; zero fetched books is
// still a success, only transport or parse failures are errors.
func (r *Repository) SyncBooks(ctx context.Context) (*SyncResult, error) {
	start := time.Now()

	found, err := r.catalog.GetTrending(ctx, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending books: %w", err)
	}

	if err := r.books.UpsertBooks(found); err != nil {
		return nil, fmt.Errorf("failed to cache trending books: %w", err)
	}

	result := &SyncResult{
		BooksSynced: len(found),
		Duration:    time.Since(start),
	}
	log.Printf("Trending sync: cached %d books in %v", result.BooksSynced, result.Duration.Round(time.Millisecond))
	return result, nil
}

// Reading progress operations

func (r *Repository) GetAllProgress() ([]entities.ReadingProgress, error) {
	return r.progress.GetAllProgress()
}

func (r *Repository) GetProgressByBookID(bookID string) (*entities.ReadingProgress, error) {
	return r.progress.GetProgressByBookID(bookID)
}

func (r *Repository) GetCurrentlyReading() ([]entities.ReadingProgress, error) {
	return r.progress.GetCurrentlyReading()
}

func (r *Repository) GetWantToRead() ([]entities.ReadingProgress, error) {
	return r.progress.GetWantToRead()
}

func (r *Repository) CountCurrentlyReading() (int64, error) {
	return r.progress.CountCurrentlyReading()
}

func (r *Repository) WatchAllProgress(ctx context.Context) <-chan []entities.ReadingProgress {
	return r.progress.WatchAllProgress(ctx)
}

func (r *Repository) WatchCurrentlyReading(ctx context.Context) <-chan []entities.ReadingProgress {
	return r.progress.WatchCurrentlyReading(ctx)
}

func (r *Repository) WatchProgressByBookID(ctx context.Context, bookID string) <-chan *entities.ReadingProgress {
	return r.progress.WatchProgressByBookID(ctx, bookID)
}

// UpsertProgress inserts or replaces the progress row for a book. One
// row per book: when a row already exists for the bookId its id is
// reused regardless of what the caller supplied. The reading status is
// derived from the page position (0 means want-to-read, at or past the
// last page means finished, anything else is currently-reading) unless
// the caller explicitly marked the book as abandoned.
func (r *Repository) UpsertProgress(row *entities.ReadingProgress) error {
	if row.BookID == "" {
		return fmt.Errorf("book id is required")
	}

	existing, err := r.progress.GetProgressByBookID(row.BookID)
	if err != nil {
		return err
	}
	if existing != nil {
		row.ID = existing.ID
		if row.StartDate == nil {
			row.StartDate = existing.StartDate
		}
		if row.FinishDate == nil {
			row.FinishDate = existing.FinishDate
		}
	} else if row.ID == "" {
		row.ID = uuid.NewString()
	}

	if row.Status != entities.StatusDidNotFinish {
		row.Status = deriveStatus(row.CurrentPage, row.TotalPages)
	}

	now := time.Now()
	switch row.Status {
	case entities.StatusCurrentlyReading:
		if row.StartDate == nil {
			row.StartDate = &now
		}
	case entities.StatusFinished:
		if row.FinishDate == nil {
			row.FinishDate = &now
		}
	}

	return r.progress.UpsertProgress(row)
}

func (r *Repository) DeleteProgress(bookID string) error {
	return r.progress.DeleteProgressByBookID(bookID)
}

// deriveStatus maps a page position to a reading status.
func deriveStatus(currentPage, totalPages int) entities.ReadingStatus {
	switch {
	case currentPage <= 0:
		return entities.StatusWantToRead
	case totalPages > 0 && currentPage >= totalPages:
		return entities.StatusFinished
	default:
		return entities.StatusCurrentlyReading
	}
}

// Review operations

func (r *Repository) GetAllReviews() ([]entities.Review, error) {
	return r.reviews.GetAllReviews()
}

func (r *Repository) GetReviewByBookID(bookID string) (*entities.Review, error) {
	return r.reviews.GetReviewByBookID(bookID)
}

func (r *Repository) GetReviewsByMinRating(minRating float64) ([]entities.Review, error) {
	return r.reviews.GetReviewsByMinRating(minRating)
}

func (r *Repository) WatchAllReviews(ctx context.Context) <-chan []entities.Review {
	return r.reviews.WatchAllReviews(ctx)
}

func (r *Repository) WatchReviewByBookID(ctx context.Context, bookID string) <-chan *entities.Review {
	return r.reviews.WatchReviewByBookID(ctx, bookID)
}

// UpsertReview inserts or replaces a book's review, reusing the
// existing row's id so a book never accumulates duplicate reviews.
func (r *Repository) UpsertReview(row *entities.Review) error {
	if row.BookID == "" {
		return fmt.Errorf("book id is required")
	}

	existing, err := r.reviews.GetReviewByBookID(row.BookID)
	if err != nil {
		return err
	}
	if existing != nil {
		row.ID = existing.ID
	} else if row.ID == "" {
		row.ID = uuid.NewString()
	}

	return r.reviews.UpsertReview(row)
}

func (r *Repository) DeleteReview(id string) error {
	return r.reviews.DeleteReviewByID(id)
}

// GetReadingStats recomputes finished-book counters from progress rows.
func (r *Repository) GetReadingStats() (*ReadingStats, error) {
	rows, err := r.progress.GetAllProgress()
	if err != nil {
		return nil, err
	}

	stats := &ReadingStats{}
	for _, row := range rows {
		if row.Status == entities.StatusFinished {
			stats.BooksRead++
			stats.PagesRead += row.TotalPages
		}
	}
	return stats, nil
}
