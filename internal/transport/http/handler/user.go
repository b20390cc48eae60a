package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/transport/http/middleware"
)

type userRepo interface {
	List(ctx context.Context) ([]*domain.User, error)
	UpdateName(ctx context.Context, id, userName string) (*domain.User, error)
}

type UserHandler struct {
	users  userRepo
	logger *slog.Logger
}

func NewUserHandler(users userRepo, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.With("component", "user_handler")}
}

// GET /users/me  (protected)
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(middleware.CurrentUser(c))})
}

type updateMeRequest struct {
	UserName string `json:"userName" binding:"required"`
}

// PATCH /users/me  (protected)
// Only the display name is writable here — password changes go through the
// reset flow, roles never change through the API.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	updated, err := h.users.UpdateName(c.Request.Context(), user.ID, req.UserName)
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "update me", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(updated)})
}

// GET /users  (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"results": len(out), "users": out})
}
