package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johnmaronga/bookflow/internal/covers"
	"github.com/johnmaronga/bookflow/internal/library"
)

// CoversController serves locally cached cover images.
type CoversController struct {
	cache   *covers.Cache
	library *library.Repository
}

func NewCoversController(cache *covers.Cache, lib *library.Repository) *CoversController {
	return &CoversController{cache: cache, library: lib}
}

func (controller *CoversController) GetCover(c *gin.Context) {
	id := c.Param("id")

	book, err := controller.library.GetBookByID(id)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if book == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if book.CoverImageURL == "" {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book has no cover"})
		return
	}

	path, err := controller.cache.GetCover(book.ID, book.CoverImageURL)
	if err != nil {
		// Fall back to the upstream URL when the fetch fails
		c.Redirect(http.StatusTemporaryRedirect, book.CoverImageURL)
		return
	}

	c.File(path)
}
