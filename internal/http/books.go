package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johnmaronga/bookflow/internal/entities"
	"github.com/johnmaronga/bookflow/internal/library"
)

type BooksController struct {
	library *library.Repository
}

func NewBooksController(lib *library.Repository) *BooksController {
	return &BooksController{library: lib}
}

func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.library.GetAllBooks()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	book, err := controller.library.GetBookByID(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if book == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// SearchBooks searches the local cache only; no network involved.
func (controller *BooksController) SearchBooks(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	books, err := controller.library.SearchBooksLocal(query)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) AddBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if book.Title == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if err := controller.library.AddBook(&book); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusCreated, book)
}

// DeleteBook removes a book and, via cascade, its progress and review.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	if err := controller.library.DeleteBook(c.Param("id")); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "book deleted"})
}

func (controller *BooksController) GetReadingStats(c *gin.Context) {
	stats, err := controller.library.GetReadingStats()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, stats)
}
