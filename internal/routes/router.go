package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/internal/handlers"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/internal/middleware"
)

// SetupRoutes registers the public login route and the authenticated API.
func SetupRoutes(r *gin.Engine) {
	r.POST("/login", handlers.LoginHandler)

	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
