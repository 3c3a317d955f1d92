package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johnmaronga/bookflow/internal/entities"
	"github.com/johnmaronga/bookflow/internal/library"
)

type ProgressController struct {
	library *library.Repository
}

func NewProgressController(lib *library.Repository) *ProgressController {
	return &ProgressController{library: lib}
}

func (controller *ProgressController) GetAllProgress(c *gin.Context) {
	rows, err := controller.library.GetAllProgress()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"progress": rows, "count": len(rows)})
}

func (controller *ProgressController) GetCurrentlyReading(c *gin.Context) {
	rows, err := controller.library.GetCurrentlyReading()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"progress": rows, "count": len(rows)})
}

func (controller *ProgressController) GetWantToRead(c *gin.Context) {
	rows, err := controller.library.GetWantToRead()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"progress": rows, "count": len(rows)})
}

func (controller *ProgressController) GetProgressForBook(c *gin.Context) {
	row, err := controller.library.GetProgressByBookID(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if row == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "no progress for this book"})
		return
	}
	c.IndentedJSON(http.StatusOK, row)
}

type upsertProgressRequest struct {
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	Status      string `json:"status"`
}

// UpsertProgress records the page position for a book. The status is
// derived from the position unless the request marks the book as
// DID_NOT_FINISH.
func (controller *ProgressController) UpsertProgress(c *gin.Context) {
	var req upsertProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.CurrentPage < 0 || req.TotalPages < 0 {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "pages must not be negative"})
		return
	}

	row := entities.ReadingProgress{
		BookID:      c.Param("id"),
		CurrentPage: req.CurrentPage,
		TotalPages:  req.TotalPages,
		Status:      entities.ReadingStatus(req.Status),
	}
	if err := controller.library.UpsertProgress(&row); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, row)
}

func (controller *ProgressController) DeleteProgress(c *gin.Context) {
	if err := controller.library.DeleteProgress(c.Param("id")); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "progress deleted"})
}
