package models

import "time"

// ConversationParticipant is one user's membership in a two-party
// conversation. The pair of rows (one per participant) is created lazily on
// first contact. HiddenSince is the user's conversation-level hide marker;
// it is independent of message deletion flags and is never cleared.
type ConversationParticipant struct {
	ConversationID string    `gorm:"primaryKey;type:text" json:"conversationId"`
	UserID         string    `gorm:"primaryKey;type:text" json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`

	OtherUserID string `gorm:"index;not null" json:"otherUserId"`
	OtherUser   User   `gorm:"foreignKey:OtherUserID" json:"otherUser,omitempty"`

	HiddenSince *time.Time `json:"hiddenSince,omitempty"`
}
