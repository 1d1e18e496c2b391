package routes

import (
	"github.com/gin-gonic/gin"

	"uberfriends/internal/handlers"
)

// SetupAuthRoutes sets up the public signup and login routes.
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}
}
