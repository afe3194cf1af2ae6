package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/gin-gonic/gin"
)

type userUsecaser interface {
	CreateUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, error)
}

type UserHandler struct {
	userUsecase userUsecaser
	logger      *slog.Logger
}

func NewUserHandler(userUsecase userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, logger: logger.With("component", "user_handler")}
}

type createUserRequest struct {
	Email    string      `json:"email"    binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Role     domain.Role `json:"role"     binding:"required"`
}

// POST /api/admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	user, err := h.userUsecase.CreateUser(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, h.logger, "create user", err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "user created", "user_id", user.ID, "role", user.Role)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": toUserResponse(user)})
}
