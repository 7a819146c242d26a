package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/models"
	"github.com/extraclasseshub/zonkehub-backend/pkg/errors"
	"github.com/extraclasseshub/zonkehub-backend/pkg/utils"
)

// ConversationID maps an unordered pair of user ids to one canonical
// conversation identifier: the lexicographically smaller id first. Pure,
// order-independent.
func ConversationID(userA, userB string) string {
	if strings.Compare(userA, userB) <= 0 {
		return userA + ":" + userB
	}
	return userB + ":" + userA
}

// EnsureParticipants idempotently creates both participant rows for the
// pair's canonical conversation. No-op for rows that already exist.
func EnsureParticipants(tx *gorm.DB, userA, userB string) error {
	convID := ConversationID(userA, userB)
	now := time.Now()
	rows := []models.ConversationParticipant{
		{ConversationID: convID, UserID: userA, OtherUserID: userB, CreatedAt: now},
		{ConversationID: convID, UserID: userB, OtherUserID: userA, CreatedAt: now},
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// SendMessage creates a message with all deletion flags clear and makes
// sure both participant rows exist, in one transaction.
func SendMessage(senderID, receiverID, content string, kind models.MessageKind, attachmentURL string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, errors.BadRequest("Cannot message yourself")
	}
	if strings.TrimSpace(content) == "" && attachmentURL == "" {
		return nil, errors.BadRequest("Message cannot be empty")
	}
	if kind == "" {
		kind = models.MessageKindText
	}

	msg := models.Message{
		ID:            utils.GenerateID(),
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Content:       content,
		Kind:          kind,
		AttachmentURL: attachmentURL,
		CreatedAt:     time.Now(),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var receiver models.User
		if err := tx.Select("id").First(&receiver, "id = ?", receiverID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NotFound("Recipient not found")
			}
			return err
		}

		if err := EnsureParticipants(tx, senderID, receiverID); err != nil {
			return fmt.Errorf("ensure participants: %w", err)
		}
		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

// ListMessagesForUser returns every message visible to the user across all
// counterparties, oldest first. A message is visible when it is not deleted
// for everyone and the user's own side flag is clear.
func ListMessagesForUser(userID string) ([]models.Message, error) {
	var msgs []models.Message
	err := database.DB.
		Where("deleted_for_all = ?", false).
		Where("(sender_id = ? AND deleted_for_sender = ?) OR (receiver_id = ? AND deleted_for_receiver = ?)",
			userID, false, userID, false).
		Order("created_at asc").
		Find(&msgs).Error
	return msgs, err
}

// ListConversation returns the shared message log between two users, oldest
// first. A message is included while at least one party can still see it,
// so this is intentionally broader than ListMessagesForUser: callers
// rendering for a specific viewer must still filter with Message.VisibleTo.
func ListConversation(userA, userB string) ([]models.Message, error) {
	var msgs []models.Message
	err := database.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Where("deleted_for_all = ?", false).
		Where("deleted_for_sender = ? OR deleted_for_receiver = ?", false, false).
		Order("created_at asc").
		Find(&msgs).Error
	return msgs, err
}

// MarkRead flags all not-yet-read messages from senderID to receiverID as
// read. Messages deleted for everyone are left untouched. Returns how many
// rows changed.
func MarkRead(senderID, receiverID string) (int64, error) {
	result := database.DB.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ? AND deleted_for_all = ?",
			senderID, receiverID, false, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteMessage applies a deletion flag to a message. Scope "all" is sender
// only; scope "self" flags the requesting party's own side. Flags are
// monotonic: re-deleting an already-deleted message is a no-op success,
// and no flag is ever cleared.
func DeleteMessage(messageID, actorID string, scope models.DeletionScope) (bool, error) {
	if !scope.Valid() {
		return false, errors.BadRequest("Scope must be 'self' or 'all'")
	}

	var msg models.Message
	if err := database.DB.First(&msg, "id = ?", messageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, errors.NotFound("Message not found")
		}
		return false, err
	}

	column := msg.DeletionColumn(actorID, scope)
	if column == "" {
		if scope == models.DeleteForAll {
			return false, errors.Forbidden("Only the sender can delete a message for everyone")
		}
		return false, errors.Forbidden("You are not a participant in this message")
	}

	if msg.DeletionApplied(actorID, scope) {
		return true, nil
	}

	err := database.DB.Model(&models.Message{}).
		Where("id = ?", messageID).
		Update(column, true).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// HideConversation stamps hiddenSince on the caller's participant row for
// the conversation with otherUserID. Message rows are untouched: hiding is
// a display-time filter, not a data deletion. Returns whether a participant
// row was matched.
func HideConversation(userID, otherUserID string) (bool, error) {
	result := database.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", ConversationID(userID, otherUserID), userID).
		Update("hidden_since", time.Now())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ConversationSummary is one entry in a user's conversation list.
type ConversationSummary struct {
	ConversationID string          `json:"conversationId"`
	OtherUser      models.User     `json:"otherUser"`
	LastMessage    *models.Message `json:"lastMessage"`
	UnreadCount    int64           `json:"unreadCount"`
}

// ListConversations returns the caller's conversation list: one entry per
// counterparty with the latest message the caller can see plus an unread
// count, newest first.
//
// Hidden conversations: hiddenSince is a watermark, not a tombstone. A
// conversation stays hidden while its latest visible message predates the
// stamp; a message arriving after it resurfaces the conversation (there is
// no explicit unhide).
func ListConversations(userID string) ([]ConversationSummary, error) {
	var participants []models.ConversationParticipant
	err := database.DB.Where("user_id = ?", userID).
		Preload("OtherUser").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(participants))
	for _, p := range participants {
		var last models.Message
		err := database.DB.
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				userID, p.OtherUserID, p.OtherUserID, userID).
			Where("deleted_for_all = ?", false).
			Where("(sender_id = ? AND deleted_for_sender = ?) OR (receiver_id = ? AND deleted_for_receiver = ?)",
				userID, false, userID, false).
			Order("created_at desc").
			First(&last).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}

		if p.HiddenSince != nil && !last.CreatedAt.After(*p.HiddenSince) {
			continue
		}

		var unread int64
		err = database.DB.Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id = ? AND is_read = ?", p.OtherUserID, userID, false).
			Where("deleted_for_all = ? AND deleted_for_receiver = ?", false, false).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, ConversationSummary{
			ConversationID: p.ConversationID,
			OtherUser:      p.OtherUser,
			LastMessage:    &last,
			UnreadCount:    unread,
		})
	}

	// Newest conversation first
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.CreatedAt.After(summaries[j].LastMessage.CreatedAt)
	})

	return summaries, nil
}

// UnreadCount returns the number of unread messages the user can still see.
func UnreadCount(userID string) (int64, error) {
	var count int64
	err := database.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Where("deleted_for_all = ? AND deleted_for_receiver = ?", false, false).
		Count(&count).Error
	return count, err
}
