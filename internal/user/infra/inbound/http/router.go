package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registra las rutas HTTP del dominio de usuarios.
func RegisterUserRoutes(r *gin.Engine, handler *UserHandler) {
	users := r.Group("/users")
	{
		users.POST("", handler.CreateUser)
		users.GET("", handler.ListUsers)         // parámetros en la query string
		users.POST("/search", handler.ListUsers) // parámetros en el cuerpo JSON
		users.GET("/:id", handler.GetUser)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
