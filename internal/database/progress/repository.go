// Package progress provides database operations for reading progress.
package progress

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnmaronga/bookflow/internal/database"
	"github.com/johnmaronga/bookflow/internal/entities"
)

// Repository handles all reading-progress database operations.
type Repository struct {
	db      *gorm.DB
	changes *database.Hub
}

// NewRepository creates a new reading-progress repository.
func NewRepository(db *gorm.DB, changes *database.Hub) *Repository {
	return &Repository{db: db, changes: changes}
}

// GetAllProgress returns every progress row, most recently updated first.
func (r *Repository) GetAllProgress() ([]entities.ReadingProgress, error) {
	var rows []entities.ReadingProgress
	err := r.db.Order("last_updated DESC").Find(&rows).Error
	return rows, err
}

// GetProgressByBookID returns the progress row for a book, or nil when absent.
func (r *Repository) GetProgressByBookID(bookID string) (*entities.ReadingProgress, error) {
	var row entities.ReadingProgress
	err := r.db.Where("book_id = ?", bookID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetProgressByStatus returns rows with the given status, most recently
// updated first.
func (r *Repository) GetProgressByStatus(status entities.ReadingStatus) ([]entities.ReadingProgress, error) {
	var rows []entities.ReadingProgress
	err := r.db.Where("status = ?", status).Order("last_updated DESC").Find(&rows).Error
	return rows, err
}

// GetCurrentlyReading returns books in progress, most recently updated first.
func (r *Repository) GetCurrentlyReading() ([]entities.ReadingProgress, error) {
	return r.GetProgressByStatus(entities.StatusCurrentlyReading)
}

// GetWantToRead returns the want-to-read shelf.
func (r *Repository) GetWantToRead() ([]entities.ReadingProgress, error) {
	return r.GetProgressByStatus(entities.StatusWantToRead)
}

// CountCurrentlyReading returns how many books are in progress.
func (r *Repository) CountCurrentlyReading() (int64, error) {
	var count int64
	err := r.db.Model(&entities.ReadingProgress{}).
		Where("status = ?", entities.StatusCurrentlyReading).
		Count(&count).Error
	return count, err
}

// UpsertProgress inserts or fully replaces a progress row by id,
// refreshing LastUpdated. The second write for the same id wins.
func (r *Repository) UpsertProgress(row *entities.ReadingProgress) error {
	row.LastUpdated = time.Now()
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
	if err != nil {
		return err
	}
	r.changes.Notify(database.TableReadingProgress)
	return nil
}

// DeleteProgressByBookID removes the progress row for a book.
func (r *Repository) DeleteProgressByBookID(bookID string) error {
	if err := r.db.Where("book_id = ?", bookID).Delete(&entities.ReadingProgress{}).Error; err != nil {
		return err
	}
	r.changes.Notify(database.TableReadingProgress)
	return nil
}

// WatchAllProgress emits all progress rows on subscription and after
// every write to the reading_progress table.
func (r *Repository) WatchAllProgress(ctx context.Context) <-chan []entities.ReadingProgress {
	return r.watch(ctx, r.GetAllProgress)
}

// WatchCurrentlyReading emits the in-progress shelf on subscription
// and after every write to the reading_progress table.
func (r *Repository) WatchCurrentlyReading(ctx context.Context) <-chan []entities.ReadingProgress {
	return r.watch(ctx, r.GetCurrentlyReading)
}

// WatchProgressByBookID emits a single book's progress (nil when
// absent) on subscription and after every relevant write.
func (r *Repository) WatchProgressByBookID(ctx context.Context, bookID string) <-chan *entities.ReadingProgress {
	out := make(chan *entities.ReadingProgress, 1)
	wake, cancel := r.changes.Subscribe(database.TableReadingProgress)

	go func() {
		defer close(out)
		defer cancel()
		for {
			row, err := r.GetProgressByBookID(bookID)
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

func (r *Repository) watch(ctx context.Context, query func() ([]entities.ReadingProgress, error)) <-chan []entities.ReadingProgress {
	out := make(chan []entities.ReadingProgress, 1)
	wake, cancel := r.changes.Subscribe(database.TableReadingProgress)

	go func() {
		defer close(out)
		defer cancel()
		for {
			rows, err := query()
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
