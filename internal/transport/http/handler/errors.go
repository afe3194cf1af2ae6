package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer = "Internal server error"
	errInvalidBody    = "Invalid request body"

	msgResetRequested = "If this email exists, a reset link has been sent"
	msgPasswordReset  = "Password has been reset"
)

var statusByKind = map[domain.Kind]int{
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusConflict,
	domain.KindInternal:     http.StatusInternalServerError,
}

// respondError writes the JSON error envelope for err. Only *domain.Error
// messages reach the client; everything else is logged and reported as a
// generic 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	kind := domain.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(status, gin.H{"success": false, "message": errInternalServer})
		return
	}

	c.JSON(status, gin.H{"success": false, "message": publicMessage(err)})
}

func publicMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return errInternalServer
}

func respondBadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": errInvalidBody})
}
