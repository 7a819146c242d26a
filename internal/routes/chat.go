package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/extraclasseshub/zonkehub-backend/internal/handlers"
	"github.com/extraclasseshub/zonkehub-backend/internal/middleware"
)

func RegisterChatRoutes(r gin.IRouter) {
	chat := r.Group("/chat")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.GET("/conversations", handlers.GetConversations)
		chat.GET("/canonical-id", handlers.GetConversationID) // ?userId=...
		chat.GET("/messages", handlers.GetMessages)           // ?userId=...
		chat.GET("/inbox", handlers.GetInbox)
		chat.GET("/unread", handlers.GetUnreadCount)
		chat.POST("/messages", middleware.ChatRateLimit(), handlers.SendMessage)
		chat.POST("/read/:senderId", handlers.MarkRead)
		chat.DELETE("/messages/:id", handlers.DeleteMessage) // ?scope=self|all
		chat.POST("/conversations/:userId/hide", handlers.HideConversation)
	}
}
