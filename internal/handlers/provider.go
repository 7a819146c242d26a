package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/models"
	"github.com/extraclasseshub/zonkehub-backend/pkg/logger"
	"github.com/extraclasseshub/zonkehub-backend/pkg/utils"
)

const providerCacheTTL = 2 * time.Minute

type CreateProviderInput struct {
	BusinessName string `json:"businessName" binding:"required,max=120"`
	ServiceType  string `json:"serviceType" binding:"required,max=60"`
	Description  string `json:"description" binding:"max=2000"`
	Phone        string `json:"phone" binding:"max=20"`
	Suburb       string `json:"suburb" binding:"max=80"`
	City         string `json:"city" binding:"max=80"`
}

// CreateProvider registers a provider profile for the current user.
// One profile per user.
func CreateProvider(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input CreateProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Provider
	if err := database.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a provider profile"})
		return
	}

	provider := models.Provider{
		ID:           utils.GenerateID(),
		UserID:       userID,
		BusinessName: utils.SanitizeHTML(input.BusinessName),
		ServiceType:  utils.SanitizeHTML(input.ServiceType),
		Description:  utils.SanitizeHTML(input.Description),
		Phone:        input.Phone,
		Suburb:       utils.SanitizeHTML(input.Suburb),
		City:         utils.SanitizeHTML(input.City),
	}

	if err := database.DB.Create(&provider).Error; err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create provider profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create provider profile"})
		return
	}

	database.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", models.RoleProvider)

	c.JSON(http.StatusCreated, gin.H{"provider": provider})
}

// ListProviders returns the provider directory with optional text search on
// business name / service type and a city filter. No geo search.
func ListProviders(c *gin.Context) {
	query := database.DB.Model(&models.Provider{}).Preload("User")

	if q := c.Query("q"); q != "" {
		term := utils.SanitizeSearchQuery(q)
		query = query.Where("business_name ILIKE ? OR service_type ILIKE ?", term, term)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("city ILIKE ?", utils.SanitizeSearchQuery(city))
	}

	var providers []models.Provider
	if err := query.Order("average_rating desc, review_count desc").Limit(100).Find(&providers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch providers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// GetProvider returns one provider profile, including its rating aggregate.
// Served from the redis cache when possible; the rating service invalidates
// the key on every aggregate change.
func GetProvider(c *gin.Context) {
	providerID := c.Param("id")

	cacheKey := "provider:" + providerID
	var cached models.Provider
	if err := database.CacheGet(cacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{"provider": cached})
		return
	} else if !database.IsCacheMiss(err) {
		logger.Warn().Err(err).Str("provider_id", providerID).Msg("Provider cache read failed; falling through to database")
	}

	var provider models.Provider
	if err := database.DB.Preload("User").First(&provider, "id = ?", providerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}

	if err := database.CacheSet(cacheKey, provider, providerCacheTTL); err != nil {
		logger.Warn().Err(err).Str("provider_id", providerID).Msg("Failed to cache provider profile")
	}

	c.JSON(http.StatusOK, gin.H{"provider": provider})
}
