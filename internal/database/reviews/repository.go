// Package reviews provides database operations for book reviews.
package reviews

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnmaronga/bookflow/internal/database"
	"github.com/johnmaronga/bookflow/internal/entities"
)

// Repository handles all review database operations.
type Repository struct {
	db      *gorm.DB
	changes *database.Hub
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB, changes *database.Hub) *Repository {
	return &Repository{db: db, changes: changes}
}

// GetAllReviews returns every review, newest first.
func (r *Repository) GetAllReviews() ([]entities.Review, error) {
	var rows []entities.Review
	err := r.db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// GetReviewByBookID returns the review for a book, or nil when absent.
func (r *Repository) GetReviewByBookID(bookID string) (*entities.Review, error) {
	var row entities.Review
	err := r.db.Where("book_id = ?", bookID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetReviewByID returns a review by primary key, or nil when absent.
func (r *Repository) GetReviewByID(id string) (*entities.Review, error) {
	var row entities.Review
	err := r.db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetReviewsByMinRating returns reviews rated at or above the
// threshold, newest first.
func (r *Repository) GetReviewsByMinRating(minRating float64) ([]entities.Review, error) {
	var rows []entities.Review
	err := r.db.Where("rating >= ?", minRating).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// UpsertReview inserts or fully replaces a review by id. CreatedAt is
// set once on first insert and preserved on replace; UpdatedAt is
// refreshed on every write.
func (r *Repository) UpsertReview(row *entities.Review) error {
	existing, err := r.GetReviewByID(row.ID)
	if err != nil {
		return err
	}
	now := time.Now()
	if existing != nil {
		row.CreatedAt = existing.CreatedAt
	} else if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	err = r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
	if err != nil {
		return err
	}
	r.changes.Notify(database.TableReviews)
	return nil
}

// DeleteReviewByID removes a review by primary key.
func (r *Repository) DeleteReviewByID(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&entities.Review{}).Error; err != nil {
		return err
	}
	r.changes.Notify(database.TableReviews)
	return nil
}

// DeleteReviewsByBookID removes the review for a book.
func (r *Repository) DeleteReviewsByBookID(bookID string) error {
	if err := r.db.Where("book_id = ?", bookID).Delete(&entities.Review{}).Error; err != nil {
		return err
	}
	r.changes.Notify(database.TableReviews)
	return nil
}

// WatchAllReviews emits all reviews on subscription and after every
// write to the reviews table.
func (r *Repository) WatchAllReviews(ctx context.Context) <-chan []entities.Review {
	out := make(chan []entities.Review, 1)
	wake, cancel := r.changes.Subscribe(database.TableReviews)

	go func() {
		defer close(out)
		defer cancel()
		for {
			rows, err := r.GetAllReviews()
			if err == nil {
				select {
				case out <- rows:
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

// WatchReviewByBookID emits a single book's review (nil when absent)
// on subscription and after every relevant write.
func (r *Repository) WatchReviewByBookID(ctx context.Context, bookID string) <-chan *entities.Review {
	out := make(chan *entities.Review, 1)
	wake, cancel := r.changes.Subscribe(database.TableReviews)

	go func() {
		defer close(out)
		defer cancel()
		for {
			row, err := r.GetReviewByBookID(bookID)
			if err == nil {
				select {
				case out <- row:
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
