package middleware

import (
	"github.com/ErlanBelekov/groupsite-api/internal/requestid"
	"github.com/gin-gonic/gin"
)

const headerRequestID = "X-Request-ID"

// RequestID injects a request ID into the context and response header.
// An incoming X-Request-ID is kept only if it is a well-formed UUID so
// arbitrary client text never lands in the logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if !requestid.Valid(id) {
			id = requestid.New()
		}

		ctx := requestid.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, id)
		c.Next()
	}
}
