package services

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/extraclasseshub/zonkehub-backend/internal/config"
	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/models"
	"github.com/extraclasseshub/zonkehub-backend/pkg/errors"
	"github.com/extraclasseshub/zonkehub-backend/pkg/logger"
	"github.com/extraclasseshub/zonkehub-backend/pkg/utils"
)

// SubmitRating creates or updates the caller's rating for a provider.
// The (userID, providerID) pair is unique, so a resubmission updates the
// existing row in place. The provider's aggregate is recomputed inside the
// same transaction as the write.
func SubmitRating(userID, providerID string, value int, reviewText string) (*models.Rating, error) {
	if !models.ValidValue(value) {
		return nil, errors.BadRequest(fmt.Sprintf("Rating must be between %d and %d", models.MinRatingValue, models.MaxRatingValue))
	}
	reviewText = utils.StripHTML(reviewText)

	var rating models.Rating

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var provider models.Provider
		if err := tx.Select("id").First(&provider, "id = ?", providerID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NotFound("Provider not found")
			}
			return err
		}

		now := time.Now()
		fresh := models.Rating{
			ID:         utils.GenerateID(),
			UserID:     userID,
			ProviderID: providerID,
			Value:      value,
			ReviewText: reviewText,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		// Conflict-resolving upsert on the (user_id, provider_id) unique
		// index: a repeat submission refreshes value/review/updated_at and
		// keeps the original row and its createdAt.
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "provider_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":       value,
				"review_text": reviewText,
				"updated_at":  now,
			}),
		}).Create(&fresh).Error; err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}

		// Re-read the canonical row: on conflict the stored ID is the
		// original one, not the freshly generated one.
		if err := tx.Where("user_id = ? AND provider_id = ?", userID, providerID).First(&rating).Error; err != nil {
			return fmt.Errorf("reload rating: %w", err)
		}

		return recomputeProviderAggregate(tx, providerID)
	})
	if err != nil {
		return nil, err
	}

	invalidateProviderCache(providerID)
	return &rating, nil
}

// GetUserRating looks up the caller's rating for a provider. Returns
// (nil, nil) when the user has not rated the provider.
func GetUserRating(userID, providerID string) (*models.Rating, error) {
	var rating models.Rating
	err := database.DB.Where("user_id = ? AND provider_id = ?", userID, providerID).First(&rating).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ListProviderRatings returns all ratings for a provider, newest first.
func ListProviderRatings(providerID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := database.DB.Where("provider_id = ?", providerID).
		Order("created_at desc").
		Preload("User").
		Find(&ratings).Error
	return ratings, err
}

// DeleteRating removes a rating. Only the rating's owner may delete it.
// The provider aggregate is recomputed in the same transaction as the
// removal. Returns whether a row was removed.
func DeleteRating(ratingID, requesterID string) (bool, error) {
	removed := false
	providerID := ""

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		if err := tx.First(&rating, "id = ?", ratingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NotFound("Rating not found")
			}
			return err
		}

		if rating.UserID != requesterID {
			return errors.Forbidden("You can only delete your own rating")
		}

		result := tx.Delete(&models.Rating{}, "id = ?", ratingID)
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0

		providerID = rating.ProviderID
		return recomputeProviderAggregate(tx, rating.ProviderID)
	})
	if err != nil {
		return false, err
	}

	invalidateProviderCache(providerID)
	return removed, nil
}

// recomputeProviderAggregate derives averageRating / reviewCount /
// totalRatingPoints from the provider's current rating rows and writes them
// onto the provider record. Always a full recompute, never an incremental
// adjustment, so concurrent edits and deletes cannot drift the aggregate.
// Idempotent.
//
// Failure policy: in best-effort mode (the default) a failed recompute is
// logged and the triggering rating write commits with a stale aggregate;
// the next mutation repairs it. In strict mode the error propagates and
// rolls the whole transaction back.
func recomputeProviderAggregate(tx *gorm.DB, providerID string) error {
	err := doRecompute(tx, providerID)
	if err == nil {
		return nil
	}
	if config.StrictRecompute() {
		return fmt.Errorf("recompute aggregate for provider %s: %w", providerID, err)
	}
	logger.Error().
		Err(err).
		Str("provider_id", providerID).
		Msg("Rating aggregate recompute failed; aggregate is stale until next mutation")
	return nil
}

func doRecompute(tx *gorm.DB, providerID string) error {
	// Take the provider row lock before scanning. Concurrent mutations for
	// the same provider serialize here, and under read committed the scan
	// statements below run with a snapshot that includes whatever the
	// earlier holder committed, so neither transaction recomputes from a
	// stale rating set. A plain write acquires the lock on every backend;
	// SELECT FOR UPDATE would not parse on the sqlite test store.
	if err := tx.Model(&models.Provider{}).
		Where("id = ?", providerID).
		Update("rating_updated_at", time.Now()).Error; err != nil {
		return err
	}

	var stats struct {
		Count int64
		Total int64
	}
	err := tx.Model(&models.Rating{}).
		Select("COUNT(*) as count, COALESCE(SUM(value), 0) as total").
		Where("provider_id = ?", providerID).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	average := 0.0
	if stats.Count > 0 {
		average = math.Round(float64(stats.Total)/float64(stats.Count)*10) / 10
	}

	return tx.Model(&models.Provider{}).
		Where("id = ?", providerID).
		Updates(map[string]interface{}{
			"average_rating":      average,
			"review_count":        stats.Count,
			"total_rating_points": stats.Total,
		}).Error
}

func providerCacheKey(providerID string) string {
	return "provider:" + providerID
}

// invalidateProviderCache drops the cached provider profile after any
// aggregate change. Every rating mutation goes through here so the cache
// can never outlive a committed aggregate by more than the in-flight reads.
func invalidateProviderCache(providerID string) {
	database.CacheDelete(providerCacheKey(providerID))
}
