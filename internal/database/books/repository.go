// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db.DB, db.Changes())
//	book, err := repo.GetBookByID("zyTCAlFPjgYC")
package books

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnmaronga/bookflow/internal/database"
	"github.com/johnmaronga/bookflow/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db      *gorm.DB
	changes *database.Hub
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB, changes *database.Hub) *Repository {
	return &Repository{db: db, changes: changes}
}

// GetAllBooks returns every book, newest additions first.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("added_at DESC").Find(&books).Error
	return books, err
}

// GetBookByID returns the book with the given id, or nil when absent.
func (r *Repository) GetBookByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SearchBooks matches the query as a substring of title or author.
func (r *Repository) SearchBooks(query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern).
		Order("added_at DESC").
		Find(&books).Error
	return books, err
}

// UpsertBook inserts or fully replaces a book by id. The original
// AddedAt survives a replace: the insertion timestamp is set exactly
// once and never reset by later upserts of the same id.
func (r *Repository) UpsertBook(book *entities.Book) error {
	existing, err := r.GetBookByID(book.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		book.AddedAt = existing.AddedAt
	} else if book.AddedAt.IsZero() {
		book.AddedAt = time.Now()
	}

	err = r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(book).Error
	if err != nil {
		return err
	}
	r.changes.Notify(database.TableBooks)
	return nil
}

// UpsertBooks upserts a batch, typically a page of remote results.
func (r *Repository) UpsertBooks(books []entities.Book) error {
	for i := range books {
		if err := r.UpsertBook(&books[i]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBook removes a book by id. Progress and review rows for the
// book are removed by the foreign-key cascade.
func (r *Repository) DeleteBook(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&entities.Book{}).Error; err != nil {
		return err
	}
	r.changes.Notify(database.TableBooks)
	r.changes.Notify(database.TableReadingProgress)
	r.changes.Notify(database.TableReviews)
	return nil
}

// DeleteAllBooks wipes the books table. Destructive reset only.
func (r *Repository) DeleteAllBooks() error {
	if err := r.db.Where("1 = 1").Delete(&entities.Book{}).Error; err != nil {
		return err
	}
	r.changes.Notify(database.TableBooks)
	r.changes.Notify(database.TableReadingProgress)
	r.changes.Notify(database.TableReviews)
	return nil
}

// CountBooks returns the number of books in the local catalog.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// WatchAllBooks emits the current book list immediately and again
// after every write to the books table, until ctx is cancelled.
func (r *Repository) WatchAllBooks(ctx context.Context) <-chan []entities.Book {
	out := make(chan []entities.Book, 1)
	wake, cancel := r.changes.Subscribe(database.TableBooks)

	go func() {
		defer close(out)
		defer cancel()
		for {
			books, err := r.GetAllBooks()
			if err == nil {
				select {
				case out <- books:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-wake:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// WatchBook emits the book with the given id (nil when absent) on
// subscription and after every write to the books table.
func (r *Repository) WatchBook(ctx context.Context, id string) <-chan *entities.Book {
	out := make(chan *entities.Book, 1)
	wake, cancel := r.changes.Subscribe(database.TableBooks)

	go func() {
		defer close(out)
		defer cancel()
		for {
			book, err := r.GetBookByID(id)
			if err == nil {
				select {
				case out <- book:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-wake:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
