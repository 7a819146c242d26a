package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/models"
	"github.com/extraclasseshub/zonkehub-backend/internal/services"
)

// GetConversations returns the caller's conversation list: one entry per
// counterparty with the latest visible message and unread count. Hidden
// conversations stay out until a newer message resurfaces them.
func GetConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	conversations, err := services.ListConversations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetMessages returns the two-party thread with another user (?userId=...).
// The shared log includes messages either party can still see; each entry
// carries a visible flag for the requesting user so the client renders only
// its own side.
func GetMessages(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	otherUserID := c.Query("userId")

	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	messages, err := services.ListConversation(currentUserID, otherUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	type threadMessage struct {
		models.Message
		Visible bool `json:"visible"`
	}

	out := make([]threadMessage, 0, len(messages))
	for i := range messages {
		out = append(out, threadMessage{
			Message: messages[i],
			Visible: messages[i].VisibleTo(currentUserID),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"conversationId": services.ConversationID(currentUserID, otherUserID),
		"messages":       out,
	})
}

// GetInbox returns every message visible to the caller across all
// counterparties, oldest first.
func GetInbox(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	messages, err := services.ListMessagesForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage handles sending a direct message
func SendMessage(c *gin.Context) {
	senderID := c.MustGet("userId").(string)

	// 1 message per 2 seconds per user
	allowed, err := database.CheckRateLimit("chat:"+senderID, 1, 2*time.Second)
	if err == nil && !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "You're sending messages too fast."})
		return
	}

	var req struct {
		ReceiverID    string             `json:"receiverId" binding:"required"`
		Content       string             `json:"content"`
		Kind          models.MessageKind `json:"kind"`
		AttachmentURL string             `json:"attachmentUrl"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	content := req.Content
	if req.Kind != models.MessageKindImage {
		sanitized, err := SanitizeMessageContent(req.Content)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content = sanitized
	}

	msg, err := services.SendMessage(senderID, req.ReceiverID, content, req.Kind, req.AttachmentURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// MarkRead marks messages from a sender as read
func MarkRead(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	senderID := c.Param("senderId")

	marked, err := services.MarkRead(senderID, currentUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"markedRead": marked})
}

// DeleteMessage applies a deletion flag to a message (?scope=self|all).
func DeleteMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	messageID := c.Param("id")

	scope := models.DeletionScope(c.DefaultQuery("scope", string(models.DeleteForSelf)))

	deleted, err := services.DeleteMessage(messageID, userID, scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// HideConversation hides the whole conversation with another user for the
// caller only. Message rows are untouched.
func HideConversation(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	otherUserID := c.Param("userId")

	hidden, err := services.HideConversation(userID, otherUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide conversation"})
		return
	}
	if !hidden {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hidden": true})
}

// GetConversationID returns the canonical conversation id for the caller
// and another user (?userId=...). The id is order-independent.
func GetConversationID(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	otherUserID := c.Query("userId")

	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversationId": services.ConversationID(userID, otherUserID),
	})
}

// GetUnreadCount returns the caller's total unread visible messages.
func GetUnreadCount(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	count, err := services.UnreadCount(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}
