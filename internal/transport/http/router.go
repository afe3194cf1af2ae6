package httptransport

import (
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/ErlanBelekov/groupsite-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/groupsite-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	verifier middleware.TokenVerifier,
	limiter *middleware.RateLimiter,
	trustedProxies []string,
) (*gin.Engine, error) {
	r := gin.New()

	// The rate limiter keys on ClientIP, so forwarding headers are honoured
	// only from the configured proxies.
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(verifier)

	// Public auth routes, throttled per client IP
	auth := r.Group("/api/auth")
	auth.POST("/login", limiter.Middleware(), authHandler.Login)
	auth.POST("/forgot-password", limiter.Middleware(), authHandler.ForgotPassword)
	auth.POST("/reset-password", limiter.Middleware(), authHandler.ResetPassword)
	auth.GET("/me", authMW, authHandler.Me)

	// Back office
	admin := r.Group("/api/admin", authMW, middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/users", userHandler.Create)

	return r, nil
}
