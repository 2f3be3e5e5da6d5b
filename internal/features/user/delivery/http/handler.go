package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/your-org/miniapp-backend/internal/common/errors"
	"github.com/your-org/miniapp-backend/internal/features/user/service"
	"github.com/your-org/miniapp-backend/internal/http/middleware"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/me", h.getMe)
		users.GET("/:id", h.getUser)
	}
}

// fail attaches the error for the middleware to render and stops the chain.
func fail(c *gin.Context, appErr *apperrors.AppError) {
	c.Error(appErr)
	c.Abort()
}

// @Summary Get current user
// @Description Get or create the current user from the verified Telegram identity. Refreshes display fields when they changed.
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.UserResponse "User data"
// @Failure 401 {object} models.ErrorResponse "Authentication failed"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	identity, ok := middleware.AuthUser(c)
	if !ok {
		fail(c, apperrors.New(apperrors.ErrCodeUnauthorized, "authentication failed"))
		return
	}

	user, _, err := h.service.GetOrCreateUser(c.Request.Context(), identity)
	if err != nil {
		fail(c, apperrors.NewDatabaseError("get or create user", err).
			WithContext("user_id", strconv.FormatInt(identity.ID, 10)))
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Get user by ID
// @Description Get user information by Telegram user ID
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse "User data"
// @Failure 400 {object} models.ErrorResponse "Invalid user ID"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (h *UserHandler) getUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid user ID").
			WithContext("id", c.Param("id")))
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			fail(c, apperrors.NewUserNotFoundError(id))
			return
		}
		fail(c, apperrors.NewDatabaseError("get user", err))
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary List users
// @Description List users with limit/offset pagination
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Param limit query int false "Page size (max 200)" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.UserResponse "Users"
// @Failure 400 {object} models.ErrorResponse "Invalid pagination"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users [get]
func (h *UserHandler) listUsers(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil || limit <= 0 || limit > maxListLimit {
		fail(c, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid limit").
			WithContext("limit", c.Query("limit")))
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		fail(c, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid offset").
			WithContext("offset", c.Query("offset")))
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, apperrors.NewDatabaseError("list users", err))
		return
	}

	c.JSON(http.StatusOK, users)
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
