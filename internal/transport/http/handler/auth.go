package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/ErlanBelekov/groupsite-api/internal/identity"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Login(ctx context.Context, email, password string) (string, error)
	StartReset(ctx context.Context, email string) (string, error)
	CompleteReset(ctx context.Context, rawToken, newPassword string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

type AuthHandler struct {
	authUsecase      authUsecaser
	exposeResetToken bool
	logger           *slog.Logger
}

// NewAuthHandler builds the auth endpoints. exposeResetToken echoes the raw
// reset token in the forgot-password response and must stay off outside
// local development.
func NewAuthHandler(authUsecase authUsecaser, exposeResetToken bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase:      authUsecase,
		exposeResetToken: exposeResetToken,
		logger:           logger.With("component", "auth_handler"),
	}
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	accessToken, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "accessToken": accessToken})
}

// POST /api/auth/forgot-password
// Always returns the same 200 body so the response never reveals whether the
// email belongs to an account.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	raw, err := h.authUsecase.StartReset(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "start password reset", "error", err)
		raw = ""
	}

	resp := gin.H{"success": true, "message": msgResetRequested}
	if h.exposeResetToken && raw != "" {
		resp["token"] = raw
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	if err := h.authUsecase.CompleteReset(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, h.logger, "complete password reset", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgPasswordReset})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := identity.FromContext(c.Request.Context())
	if !ok {
		respondError(c, h.logger, "me", domain.ErrUnauthorized)
		return
	}

	user, err := h.authUsecase.CurrentUser(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, h.logger, "me", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
}
