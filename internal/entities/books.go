package entities

import (
	"time"
)

type ReadingStatus string

const (
	StatusWantToRead       ReadingStatus = "WANT_TO_READ"
	StatusCurrentlyReading ReadingStatus = "CURRENTLY_READING"
	StatusFinished         ReadingStatus = "FINISHED"
	StatusDidNotFinish     ReadingStatus = "DID_NOT_FINISH"
)

// Book is a catalog entry the user has added or that sync pulled in.
// The ID is the external catalog volume identifier when the book came
// from the catalog API, or a generated one for manually added books.
type Book struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Title         string    `gorm:"index;size:512" json:"title"`
	Author        string    `gorm:"index;size:256" json:"author"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	CoverImageURL string    `gorm:"size:2048" json:"cover_image_url,omitempty"`
	ISBN          string    `gorm:"index;size:20" json:"isbn,omitempty"`
	PublishedDate string    `gorm:"size:40" json:"published_date,omitempty"`
	PageCount     int       `json:"page_count,omitempty"`
	Categories    []string  `gorm:"serializer:json" json:"categories,omitempty"`
	AverageRating float64   `json:"average_rating,omitempty"`
	RatingsCount  int       `json:"ratings_count,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}

// ReadingProgress tracks a single book's position and status. At most
// one row exists per book: BookID carries a unique index and the
// library repository reuses the existing row's ID on upsert.
type ReadingProgress struct {
	ID          string        `gorm:"primaryKey;size:64" json:"id"`
	BookID      string        `gorm:"uniqueIndex;size:64" json:"book_id"`
	Book        Book          `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	CurrentPage int           `json:"current_page"`
	TotalPages  int           `json:"total_pages"`
	Status      ReadingStatus `gorm:"size:20" json:"status"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	FinishDate  *time.Time    `json:"finish_date,omitempty"`
	LastUpdated time.Time     `json:"last_updated"`
}

// Review holds the user's rating and optional text for a book.
// One review per book, enforced the same way as ReadingProgress.
type Review struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	BookID     string    `gorm:"uniqueIndex;size:64" json:"book_id"`
	Book       Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Rating     float64   `json:"rating"`
	ReviewText string    `gorm:"type:text" json:"review_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}

func (Review) TableName() string {
	return "reviews"
}
