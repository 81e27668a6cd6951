package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberle/threadboard-backend/internal/forum"
	"github.com/emberle/threadboard-backend/internal/models"
)

type ReviewHandler struct {
	reviews *forum.ReviewService
}

func NewReviewHandler(reviews *forum.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview creates a review
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateReviewRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.Create(userID, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetReviews pages reviews, newest first
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	reviews, total, err := h.reviews.List(pageFromQuery(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
	})
}
