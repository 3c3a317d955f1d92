package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmaronga/bookflow/internal/entities"
)

// In-memory fakes for the store and catalog interfaces.

type fakeBookStore struct {
	books map[string]entities.Book
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{books: make(map[string]entities.Book)}
}

func (s *fakeBookStore) GetAllBooks() ([]entities.Book, error) {
	out := make([]entities.Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	return out, nil
}

func (s *fakeBookStore) GetBookByID(id string) (*entities.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s *fakeBookStore) SearchBooks(query string) ([]entities.Book, error) {
	return s.GetAllBooks()
}

func (s *fakeBookStore) UpsertBook(book *entities.Book) error {
	s.books[book.ID] = *book
	return nil
}

func (s *fakeBookStore) UpsertBooks(books []entities.Book) error {
	for i := range books {
		if err := s.UpsertBook(&books[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeBookStore) DeleteBook(id string) error {
	delete(s.books, id)
	return nil
}

func (s *fakeBookStore) WatchAllBooks(ctx context.Context) <-chan []entities.Book {
	ch := make(chan []entities.Book)
	close(ch)
	return ch
}

func (s *fakeBookStore) WatchBook(ctx context.Context, id string) <-chan *entities.Book {
	ch := make(chan *entities.Book)
	close(ch)
	return ch
}

type fakeProgressStore struct {
	rows map[string]entities.ReadingProgress // keyed by book id
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: make(map[string]entities.ReadingProgress)}
}

func (s *fakeProgressStore) GetAllProgress() ([]entities.ReadingProgress, error) {
	out := make([]entities.ReadingProgress, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

func (s *fakeProgressStore) GetProgressByBookID(bookID string) (*entities.ReadingProgress, error) {
	row, ok := s.rows[bookID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *fakeProgressStore) GetProgressByStatus(status entities.ReadingStatus) ([]entities.ReadingProgress, error) {
	var out []entities.ReadingProgress
	for _, row := range s.rows {
		if row.Status == status {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeProgressStore) GetCurrentlyReading() ([]entities.ReadingProgress, error) {
	return s.GetProgressByStatus(entities.StatusCurrentlyReading)
}

func (s *fakeProgressStore) GetWantToRead() ([]entities.ReadingProgress, error) {
	return s.GetProgressByStatus(entities.StatusWantToRead)
}

func (s *fakeProgressStore) CountCurrentlyReading() (int64, error) {
	rows, _ := s.GetCurrentlyReading()
	return int64(len(rows)), nil
}

func (s *fakeProgressStore) UpsertProgress(row *entities.ReadingProgress) error {
	s.rows[row.BookID] = *row
	return nil
}

func (s *fakeProgressStore) DeleteProgressByBookID(bookID string) error {
	delete(s.rows, bookID)
	return nil
}

func (s *fakeProgressStore) WatchAllProgress(ctx context.Context) <-chan []entities.ReadingProgress {
	ch := make(chan []entities.ReadingProgress)
	close(ch)
	return ch
}

func (s *fakeProgressStore) WatchCurrentlyReading(ctx context.Context) <-chan []entities.ReadingProgress {
	ch := make(chan []entities.ReadingProgress)
	close(ch)
	return ch
}

func (s *fakeProgressStore) WatchProgressByBookID(ctx context.Context, bookID string) <-chan *entities.ReadingProgress {
	ch := make(chan *entities.ReadingProgress)
	close(ch)
	return ch
}

type fakeReviewStore struct {
	rows map[string]entities.Review // keyed by book id
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{rows: make(map[string]entities.Review)}
}

func (s *fakeReviewStore) GetAllReviews() ([]entities.Review, error) {
	out := make([]entities.Review, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

func (s *fakeReviewStore) GetReviewByBookID(bookID string) (*entities.Review, error) {
	row, ok := s.rows[bookID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *fakeReviewStore) GetReviewsByMinRating(minRating float64) ([]entities.Review, error) {
	var out []entities.Review
	for _, row := range s.rows {
		if row.Rating >= minRating {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeReviewStore) UpsertReview(row *entities.Review) error {
	s.rows[row.BookID] = *row
	return nil
}

func (s *fakeReviewStore) DeleteReviewByID(id string) error {
	for bookID, row := range s.rows {
		if row.ID == id {
			delete(s.rows, bookID)
		}
	}
	return nil
}

func (s *fakeReviewStore) WatchAllReviews(ctx context.Context) <-chan []entities.Review {
	ch := make(chan []entities.Review)
	close(ch)
	return ch
}

func (s *fakeReviewStore) WatchReviewByBookID(ctx context.Context, bookID string) <-chan *entities.Review {
	ch := make(chan *entities.Review)
	close(ch)
	return ch
}

type fakeCatalog struct {
	results []entities.Book
	err     error
	calls   int
}

func (c *fakeCatalog) Search(ctx context.Context, query string, maxResults, startIndex int) ([]entities.Book, error) {
	c.calls++
	return c.results, c.err
}

func (c *fakeCatalog) SearchByCategory(ctx context.Context, category string, maxResults int) ([]entities.Book, error) {
	c.calls++
	return c.results, c.err
}

func (c *fakeCatalog) SearchByAuthor(ctx context.Context, author string, maxResults int) ([]entities.Book, error) {
	c.calls++
	return c.results, c.err
}

func (c *fakeCatalog) GetTrending(ctx context.Context, maxResults int) ([]entities.Book, error) {
	c.calls++
	return c.results, c.err
}

func (c *fakeCatalog) GetVolume(ctx context.Context, volumeID string) (*entities.Book, error) {
	c.calls++
	for _, b := range c.results {
		if b.ID == volumeID {
			return &b, nil
		}
	}
	return nil, nil
}

func newTestRepository(catalog *fakeCatalog) (*Repository, *fakeBookStore, *fakeProgressStore, *fakeReviewStore) {
	books := newFakeBookStore()
	progress := newFakeProgressStore()
	reviews := newFakeReviewStore()
	return NewRepository(books, progress, reviews, catalog, 20), books, progress, reviews
}

func TestSearchBooksRemoteCachesResults(t *testing.T) {
	catalog := &fakeCatalog{results: []entities.Book{
		{ID: "vol-1", Title: "Dune"},
		{ID: "vol-2", Title: "Hyperion"},
	}}
	repo, books, _, _ := newTestRepository(catalog)

	found, err := repo.SearchBooksRemote(context.Background(), "sci-fi")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// Results are now served locally
	cached, err := books.GetBookByID("vol-1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Dune", cached.Title)
}

func TestSearchBooksRemoteFailureLeavesLocalUntouched(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("network down")}
	repo, books, _, _ := newTestRepository(catalog)
	require.NoError(t, books.UpsertBook(&entities.Book{ID: "existing", Title: "Kept"}))

	_, err := repo.SearchBooksRemote(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch books")

	all, err := books.GetAllBooks()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Kept", all[0].Title)
}

func TestGetTrendingBooksDoesNotCache(t *testing.T) {
	catalog := &fakeCatalog{results: []entities.Book{{ID: "vol-1", Title: "Bestseller"}}}
	repo, books, _, _ := newTestRepository(catalog)

	found, err := repo.GetTrendingBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, found, 1)

	all, err := books.GetAllBooks()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetVolumeDetails(t *testing.T) {
	catalog := &fakeCatalog{results: []entities.Book{{ID: "vol-1", Title: "Dune"}}}
	repo, books, _, _ := newTestRepository(catalog)

	book, err := repo.GetVolumeDetails(context.Background(), "vol-1")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "Dune", book.Title)

	// Detail lookups are not cached
	all, err := books.GetAllBooks()
	require.NoError(t, err)
	assert.Empty(t, all)

	missing, err := repo.GetVolumeDetails(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSyncBooksCachesTrending(t *testing.T) {
	catalog := &fakeCatalog{results: []entities.Book{
		{ID: "vol-1", Title: "Bestseller One"},
		{ID: "vol-2", Title: "Bestseller Two"},
	}}
	repo, books, _, _ := newTestRepository(catalog)

	result, err := repo.SyncBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.BooksSynced)

	all, err := books.GetAllBooks()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Running again replaces, never duplicates
	result, err = repo.SyncBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.BooksSynced)

	all, err = books.GetAllBooks()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSyncBooksZeroResultsIsSuccess(t *testing.T) {
	catalog := &fakeCatalog{}
	repo, _, _, _ := newTestRepository(catalog)

	result, err := repo.SyncBooks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.BooksSynced)
}

func TestAddBookGeneratesID(t *testing.T) {
	repo, _, _, _ := newTestRepository(&fakeCatalog{})

	book := entities.Book{Title: "Manual Entry"}
	require.NoError(t, repo.AddBook(&book))
	assert.NotEmpty(t, book.ID)

	withID := entities.Book{ID: "custom", Title: "Another"}
	require.NoError(t, repo.AddBook(&withID))
	assert.Equal(t, "custom", withID.ID)
}

func TestUpsertProgressDerivesStatus(t *testing.T) {
	repo, _, progress, _ := newTestRepository(&fakeCatalog{})

	// Page zero means want-to-read
	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		BookID: "b", CurrentPage: 0, TotalPages: 100,
	}))
	row, _ := progress.GetProgressByBookID("b")
	assert.Equal(t, entities.StatusWantToRead, row.Status)
	assert.Nil(t, row.FinishDate)

	// Mid-book means currently reading; start date is stamped
	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		BookID: "b", CurrentPage: 50, TotalPages: 100,
	}))
	row, _ = progress.GetProgressByBookID("b")
	assert.Equal(t, entities.StatusCurrentlyReading, row.Status)
	require.NotNil(t, row.StartDate)
	startDate := *row.StartDate

	// Final page means finished; finish date is stamped, start kept
	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		BookID: "b", CurrentPage: 100, TotalPages: 100,
	}))
	row, _ = progress.GetProgressByBookID("b")
	assert.Equal(t, entities.StatusFinished, row.Status)
	require.NotNil(t, row.FinishDate)
	require.NotNil(t, row.StartDate)
	assert.Equal(t, startDate, *row.StartDate)
}

func TestUpsertProgressPreservesFinishDate(t *testing.T) {
	repo, _, progress, _ := newTestRepository(&fakeCatalog{})

	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		BookID: "b", CurrentPage: 100, TotalPages: 100,
	}))
	row, _ := progress.GetProgressByBookID("b")
	require.NotNil(t, row.FinishDate)
	finishDate := *row.FinishDate

	// Re-recording a finished book keeps the original finish date
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		BookID: "b", CurrentPage: 100, TotalPages: 100,
	}))
	row, _ = progress.GetProgressByBookID("b")
	require.NotNil(t, row.FinishDate)
	assert.Equal(t, finishDate, *row.FinishDate)
}

func TestUpsertProgressKeepsAbandonedStatus(t *testing.T) {
	repo, _, progress, _ := newTestRepository(&fakeCatalog{})

	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		BookID: "b", CurrentPage: 50, TotalPages: 100,
		Status: entities.StatusDidNotFinish,
	}))
	row, _ := progress.GetProgressByBookID("b")
	assert.Equal(t, entities.StatusDidNotFinish, row.Status)
}

func TestUpsertProgressReusesRowID(t *testing.T) {
	repo, _, progress, _ := newTestRepository(&fakeCatalog{})

	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		BookID: "b", CurrentPage: 10, TotalPages: 100,
	}))
	first, _ := progress.GetProgressByBookID("b")

	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		ID: "different-id", BookID: "b", CurrentPage: 20, TotalPages: 100,
	}))
	second, _ := progress.GetProgressByBookID("b")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 20, second.CurrentPage)
}

func TestUpsertProgressRequiresBookID(t *testing.T) {
	repo, _, _, _ := newTestRepository(&fakeCatalog{})
	err := repo.UpsertProgress(&entities.ReadingProgress{CurrentPage: 1})
	assert.Error(t, err)
}

func TestUpsertReviewReusesRowID(t *testing.T) {
	repo, _, _, reviews := newTestRepository(&fakeCatalog{})

	require.NoError(t, repo.UpsertReview(&entities.Review{BookID: "b", Rating: 3}))
	first, _ := reviews.GetReviewByBookID("b")
	require.NotEmpty(t, first.ID)

	require.NoError(t, repo.UpsertReview(&entities.Review{BookID: "b", Rating: 5}))
	second, _ := reviews.GetReviewByBookID("b")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5.0, second.Rating)

	all, _ := reviews.GetAllReviews()
	assert.Len(t, all, 1)
}

func TestGetReadingStats(t *testing.T) {
	repo, _, progress, _ := newTestRepository(&fakeCatalog{})

	require.NoError(t, progress.UpsertProgress(&entities.ReadingProgress{
		ID: "1", BookID: "a", Status: entities.StatusFinished, TotalPages: 200,
	}))
	require.NoError(t, progress.UpsertProgress(&entities.ReadingProgress{
		ID: "2", BookID: "b", Status: entities.StatusFinished, TotalPages: 350,
	}))
	require.NoError(t, progress.UpsertProgress(&entities.ReadingProgress{
		ID: "3", BookID: "c", Status: entities.StatusCurrentlyReading, CurrentPage: 50, TotalPages: 500,
	}))

	stats, err := repo.GetReadingStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.BooksRead)
	assert.Equal(t, 550, stats.PagesRead)
}

func TestReadTheWholeBookFlow(t *testing.T) {
	catalog := &fakeCatalog{results: []entities.Book{
		{ID: "dune", Title: "Dune", Author: "Frank Herbert", PageCount: 412},
	}}
	repo, _, _, _ := newTestRepository(catalog)

	// Find the book remotely; it lands in the local cache
	found, err := repo.SearchBooksRemote(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, found, 1)

	local, err := repo.GetBookByID("dune")
	require.NoError(t, err)
	require.NotNil(t, local)

	// Start reading
	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		BookID: "dune", CurrentPage: 100, TotalPages: 412,
	}))
	count, err := repo.CountCurrentlyReading()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Finish and review
	require.NoError(t, repo.UpsertProgress(&entities.ReadingProgress{
		BookID: "dune", CurrentPage: 412, TotalPages: 412,
	}))
	require.NoError(t, repo.UpsertReview(&entities.Review{
		BookID: "dune", Rating: 5, ReviewText: "A masterpiece.",
	}))

	stats, err := repo.GetReadingStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.BooksRead)
	assert.Equal(t, 412, stats.PagesRead)

	review, err := repo.GetReviewByBookID("dune")
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, 5.0, review.Rating)
}
