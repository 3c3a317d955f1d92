package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/johnmaronga/bookflow/internal/entities"
	"github.com/johnmaronga/bookflow/internal/library"
)

type ReviewsController struct {
	library *library.Repository
}

func NewReviewsController(lib *library.Repository) *ReviewsController {
	return &ReviewsController{library: lib}
}

func (controller *ReviewsController) GetAllReviews(c *gin.Context) {
	if raw := c.Query("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "min_rating must be a number"})
			return
		}
		rows, err := controller.library.GetReviewsByMinRating(minRating)
		if err != nil {
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.IndentedJSON(http.StatusOK, gin.H{"reviews": rows, "count": len(rows)})
		return
	}

	rows, err := controller.library.GetAllReviews()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"reviews": rows, "count": len(rows)})
}

func (controller *ReviewsController) GetReviewForBook(c *gin.Context) {
	row, err := controller.library.GetReviewByBookID(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if row == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "no review for this book"})
		return
	}
	c.IndentedJSON(http.StatusOK, row)
}

type upsertReviewRequest struct {
	Rating     float64 `json:"rating"`
	ReviewText string  `json:"review_text"`
}

func (controller *ReviewsController) UpsertReview(c *gin.Context) {
	var req upsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
		return
	}

	row := entities.Review{
		BookID:     c.Param("id"),
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := controller.library.UpsertReview(&row); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, row)
}

func (controller *ReviewsController) DeleteReview(c *gin.Context) {
	if err := controller.library.DeleteReview(c.Param("id")); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "review deleted"})
}
