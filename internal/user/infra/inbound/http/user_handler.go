package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pagingHTTP "github.com/davicafu/hexapager/internal/pagination/infra/inbound/http"
	"github.com/davicafu/hexapager/internal/user/application"
	"github.com/davicafu/hexapager/internal/user/domain"
	"github.com/davicafu/hexapager/pkg/utils"
)

// UserHandler encapsula los endpoints HTTP relacionados con User
type UserHandler struct {
	service  *application.UserService
	defaults pagingHTTP.Defaults
}

// NewUserHandler crea un nuevo UserHandler
func NewUserHandler(service *application.UserService, defaults pagingHTTP.Defaults) *UserHandler {
	return &UserHandler{service: service, defaults: defaults}
}

type createUserRequest struct {
	Email     string         `json:"email" binding:"required,email"`
	Name      string         `json:"name" binding:"required"`
	BirthDate string         `json:"birthDate" binding:"required"` // ISO8601, ej: 2000-01-01
	Score     int            `json:"score"`
	Balance   float64        `json:"balance"`
	Address   domain.Address `json:"address"`
	Tags      []string       `json:"tags"`
}

// ---------------- Handlers ----------------

// CreateUser endpoint POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		utils.SendBadRequest(c, "invalid birthDate format, use YYYY-MM-DD")
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), application.CreateUserInput{
		Email:     req.Email,
		Name:      req.Name,
		BirthDate: birthDate,
		Score:     req.Score,
		Balance:   req.Balance,
		Address:   req.Address,
		Tags:      req.Tags,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidUser):
		utils.SendBadRequest(c, err.Error())
		return
	case errors.Is(err, domain.ErrUserAlreadyExists):
		utils.SendError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		pagingHTTP.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser endpoint GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid user id")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			utils.SendNotFound(c, "user not found")
			return
		}
		pagingHTTP.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers endpoint GET /users y POST /users/search.
// Devuelve la página con sus metadatos; los errores de filtrado responden 412.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params, err := pagingHTTP.ParseParameters(c, h.defaults)
	if err != nil {
		pagingHTTP.RespondError(c, err)
		return
	}

	result, err := h.service.ListUsers(c.Request.Context(), params)
	if err != nil {
		pagingHTTP.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
