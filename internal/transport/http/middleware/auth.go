package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/ErlanBelekov/groupsite-api/internal/identity"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized = "Unauthorized"
	errForbidden    = "Forbidden"
)

// TokenVerifier is implemented by *token.Issuer.
type TokenVerifier interface {
	Verify(signed string) (domain.Identity, error)
}

// Auth validates a Bearer JWT and attaches the caller's identity to the
// request context. Every failure aborts with the same 401 body.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		rawToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if rawToken == "" {
			abortUnauthorized(c)
			return
		}

		id, err := verifier.Verify(rawToken)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireRole runs after Auth and rejects callers whose role is not listed.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity.FromContext(c.Request.Context())
		if !ok {
			abortUnauthorized(c)
			return
		}
		if !slices.Contains(roles, id.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": errForbidden})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": errUnauthorized})
}
