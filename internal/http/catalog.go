package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johnmaronga/bookflow/internal/library"
)

// CatalogController serves the remote catalog surface. Search results
// are cached locally by the repository; the browse listings (trending,
// category, author) are pass-through.
type CatalogController struct {
	library *library.Repository
}

func NewCatalogController(lib *library.Repository) *CatalogController {
	return &CatalogController{library: lib}
}

func (controller *CatalogController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	books, err := controller.library.SearchBooksRemote(c.Request.Context(), query)
	if err != nil {
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *CatalogController) GetVolume(c *gin.Context) {
	book, err := controller.library.GetVolumeDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if book == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "volume not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *CatalogController) Trending(c *gin.Context) {
	books, err := controller.library.GetTrendingBooks(c.Request.Context())
	if err != nil {
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *CatalogController) ByCategory(c *gin.Context) {
	books, err := controller.library.GetBooksByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *CatalogController) ByAuthor(c *gin.Context) {
	author := c.Query("author")
	if author == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "author query parameter is required"})
		return
	}

	books, err := controller.library.GetBooksByAuthor(c.Request.Context(), author)
	if err != nil {
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}
