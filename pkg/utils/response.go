// en pkg/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
// Field, Value y Type solo se rellenan en errores de filtrado.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Value   any    `json:"value,omitempty"`
	Type    string `json:"type,omitempty"`
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	SendErrorResponse(c, statusCode, ErrorResponse{Message: message})
}

// SendErrorResponse envía un error con sus datos adicionales.
func SendErrorResponse(c *gin.Context, statusCode int, body ErrorResponse) {
	c.JSON(statusCode, gin.H{
		"error": body,
	})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}
