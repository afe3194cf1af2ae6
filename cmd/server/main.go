package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/groupsite-api/config"
	"github.com/ErlanBelekov/groupsite-api/internal/email"
	"github.com/ErlanBelekov/groupsite-api/internal/health"
	"github.com/ErlanBelekov/groupsite-api/internal/infrastructure/database"
	ctxlog "github.com/ErlanBelekov/groupsite-api/internal/log"
	"github.com/ErlanBelekov/groupsite-api/internal/metrics"
	"github.com/ErlanBelekov/groupsite-api/internal/password"
	"github.com/ErlanBelekov/groupsite-api/internal/token"
	httptransport "github.com/ErlanBelekov/groupsite-api/internal/transport/http"
	"github.com/ErlanBelekov/groupsite-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/groupsite-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/groupsite-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.ExposeResetToken {
		logger.Warn("EXPOSE_RESET_TOKEN is on; reset tokens are returned in API responses")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		stop()
		db.Close()
		log.Fatalf("migrate: %v", err)
	}

	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		stop()
		db.Close()
		log.Fatalf("password hasher: %v", err)
	}
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.AccessTokenTTL)

	// Users and auth
	userRepo := database.NewUserRepository(db)
	resetRepo := database.NewResetTokenRepository(db)
	resets := usecase.NewResetTokenManager(resetRepo, hasher, cfg.ResetTokenTTL)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authUsecase := usecase.NewAuthUsecase(userRepo, resets, hasher, issuer, sender, cfg.ResetLinkBase, logger)

	authHandler := handler.NewAuthHandler(authUsecase, cfg.ExposeResetToken, logger)
	userHandler := handler.NewUserHandler(authUsecase, logger)

	limiter := middleware.NewRateLimiter(cfg.AuthRatePerMin, cfg.AuthRateBurst)
	defer limiter.Stop()

	metrics.Register()
	checker := health.NewChecker(map[string]health.Pinger{"database": db}, logger, prometheus.DefaultRegisterer)

	router, err := httptransport.NewRouter(logger, authHandler, userHandler, issuer, limiter, cfg.TrustedProxies)
	if err != nil {
		stop()
		db.Close()
		log.Fatalf("router: %v", err)
	}

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	// Let queued reset emails finish before the process exits.
	authUsecase.Wait()
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
