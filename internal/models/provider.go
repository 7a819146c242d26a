package models

import (
	"time"

	"gorm.io/gorm"
)

// Provider is a service-provider profile owned by a user.
//
// AverageRating, ReviewCount and TotalRatingPoints are denormalized from the
// Rating rows for this provider. They are a cache of a deterministic function
// of those rows and are written exclusively by the rating service's aggregate
// recompute, never by handlers.
type Provider struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"uniqueIndex" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	BusinessName string `gorm:"not null" json:"businessName"`
	ServiceType  string `gorm:"index" json:"serviceType"`
	Description  string `gorm:"type:text" json:"description"`
	Phone        string `json:"phone"`
	Suburb       string `json:"suburb"`
	City         string `json:"city"`

	// Derived rating aggregate (1 decimal place average)
	AverageRating     float64    `gorm:"type:decimal(2,1);default:0" json:"averageRating"`
	ReviewCount       int        `gorm:"default:0" json:"reviewCount"`
	TotalRatingPoints int        `gorm:"default:0" json:"totalRatingPoints"`
	RatingUpdatedAt   *time.Time `json:"ratingUpdatedAt"`
}
