package http

import (
	"errors"
	"net/http"

	"github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/davicafu/hexapager/pkg/utils"
	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "an unexpected error occurred"

// TranslateError traduce un error a código HTTP y cuerpo de respuesta.
//   - fallos del motor de paginación: 412 con el mensaje y, si es un valor inválido, campo, valor y tipo
//   - petición mal formada: 400
//   - cualquier otro: 500 sin detalles internos
func TranslateError(err error) (int, utils.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrPagination):
		body := utils.ErrorResponse{Message: err.Error()}
		var conv *domain.ConversionError
		if errors.As(err, &conv) {
			body.Field = conv.Field
			body.Value = conv.Value
			body.Type = conv.TypeName
		}
		return http.StatusPreconditionFailed, body

	case errors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest, utils.ErrorResponse{Message: ErrMalformedRequest.Error()}
	}
	return http.StatusInternalServerError, utils.ErrorResponse{Message: internalErrorMessage}
}

// RespondError escribe el error traducido y aborta la cadena de handlers.
func RespondError(c *gin.Context, err error) {
	status, body := TranslateError(err)
	_ = c.Error(err)
	utils.SendErrorResponse(c, status, body)
	c.Abort()
}
