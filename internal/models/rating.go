package models

import "time"

// Rating limits
const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// Rating is one user's rating of one provider. The (UserID, ProviderID)
// pair is unique: resubmitting updates the existing row in place.
type Rating struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID string `gorm:"uniqueIndex:idx_user_provider_rating;not null" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	ProviderID string   `gorm:"uniqueIndex:idx_user_provider_rating;index;not null" json:"providerId"`
	Provider   Provider `gorm:"foreignKey:ProviderID" json:"-"`

	Value      int    `gorm:"not null" json:"value"`
	ReviewText string `gorm:"type:text" json:"reviewText"`
}

// ValidValue reports whether v is inside the allowed star range.
func ValidValue(v int) bool {
	return v >= MinRatingValue && v <= MaxRatingValue
}
