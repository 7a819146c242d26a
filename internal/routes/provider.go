package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/extraclasseshub/zonkehub-backend/internal/handlers"
	"github.com/extraclasseshub/zonkehub-backend/internal/middleware"
)

func RegisterProviderRoutes(r gin.IRouter) {
	providers := r.Group("/providers")
	{
		// Public directory
		providers.GET("", handlers.ListProviders)
		providers.GET("/:id", handlers.GetProvider)
		providers.GET("/:id/ratings", handlers.ListProviderRatings)

		// Authenticated
		providers.POST("", middleware.AuthMiddleware(), handlers.CreateProvider)
		providers.POST("/:id/ratings", middleware.AuthMiddleware(), handlers.SubmitRating)
		providers.GET("/:id/ratings/me", middleware.AuthMiddleware(), handlers.GetMyRating)
	}

	// Rating deletion is addressed by rating id, not provider id
	r.DELETE("/ratings/:id", middleware.AuthMiddleware(), handlers.DeleteRating)
}
