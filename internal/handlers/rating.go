package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/services"
	"github.com/extraclasseshub/zonkehub-backend/pkg/errors"
)

type SubmitRatingInput struct {
	Value      int    `json:"value" binding:"required"`
	ReviewText string `json:"reviewText" binding:"max=2000"`
}

// SubmitRating creates or updates the caller's rating for a provider.
func SubmitRating(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	providerID := c.Param("id")

	// 1 rating write per 10 seconds per user
	allowed, err := database.CheckRateLimit("rating:"+userID, 1, 10*time.Second)
	if err == nil && !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "You're rating too fast. Please wait a moment."})
		return
	}

	var input SubmitRatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := services.SubmitRating(userID, providerID, input.Value, input.ReviewText)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

// GetMyRating returns the caller's rating for a provider, if any.
func GetMyRating(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	providerID := c.Param("id")

	rating, err := services.GetUserRating(userID, providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rating"})
		return
	}
	if rating == nil {
		c.JSON(http.StatusOK, gin.H{"rating": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

// ListProviderRatings returns all reviews for a provider, newest first.
func ListProviderRatings(c *gin.Context) {
	ratings, err := services.ListProviderRatings(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

// DeleteRating removes the caller's own rating.
func DeleteRating(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	ratingID := c.Param("id")

	removed, err := services.DeleteRating(ratingID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": removed})
}

// respondServiceError maps a service error onto the HTTP response, keeping
// the specific reason (invalid value, not owner, not found) visible to the
// caller.
func respondServiceError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
