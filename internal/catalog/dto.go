package catalog

import (
	"strings"

	"github.com/johnmaronga/bookflow/internal/entities"
)

// Catalog API response types (internal)

type volumesResponse struct {
	Kind       string       `json:"kind"`
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Description         string               `json:"description"`
	ImageLinks          *imageLinks          `json:"imageLinks"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	PublishedDate       string               `json:"publishedDate"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	AverageRating       float64              `json:"averageRating"`
	RatingsCount        int                  `json:"ratingsCount"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// toBook maps a wire volume to the domain book. Absent fields become
// zero values, never errors.
func (item volumeItem) toBook() entities.Book {
	info := item.VolumeInfo

	author := "Unknown Author"
	if len(info.Authors) > 0 {
		author = strings.Join(info.Authors, ", ")
	}

	var cover string
	if info.ImageLinks != nil && info.ImageLinks.Thumbnail != "" {
		// The API serves plain-http thumbnails; upgrade the scheme.
		cover = strings.Replace(info.ImageLinks.Thumbnail, "http://", "https://", 1)
	}

	return entities.Book{
		ID:            item.ID,
		Title:         info.Title,
		Author:        author,
		Description:   info.Description,
		CoverImageURL: cover,
		ISBN:          pickISBN(info.IndustryIdentifiers),
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
	}
}

// pickISBN returns the first identifier of type ISBN_13 or ISBN_10,
// in the order the API listed them.
func pickISBN(ids []industryIdentifier) string {
	for _, id := range ids {
		if id.Type == "ISBN_13" || id.Type == "ISBN_10" {
			return id.Identifier
		}
	}
	return ""
}
