package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "snow-board.com/snow-board/internal/configs"
	"snow-board.com/snow-board/internal/credentials"
	"snow-board.com/snow-board/internal/estimator"
	httpapi "snow-board.com/snow-board/internal/http"
	"snow-board.com/snow-board/internal/metrics"
	"snow-board.com/snow-board/internal/ratelimit"
	repository "snow-board.com/snow-board/internal/repositories"
	"snow-board.com/snow-board/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Migrates the database and starts the task board HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, database, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := config.Migrate(database); err != nil {
			return err
		}

		var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit, time.Minute)
		if addr := cfg.RedisAddr(); addr != "" {
			redisClient, err := config.NewRedisClient(addr)
			if err != nil {
				return err
			}
			defer redisClient.Close()

			limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RedisKeyPrefix, cfg.RateLimit, time.Minute)
			logger.Info("rate limiting via redis", zap.String("addr", addr))
		}

		var m *metrics.Metrics
		if cfg.MetricsEnabled {
			m = metrics.New()
		}

		var est estimator.Client
		if cfg.EstimateEndpoint != "" && cfg.EstimateAPIKey != "" {
			est = estimator.NewOpenAI(
				cfg.EstimateEndpoint,
				cfg.EstimateAPIKey,
				cfg.EstimateModel,
				time.Duration(cfg.EstimateTimeoutSeconds)*time.Second,
				logger,
			)
		} else {
			est = estimator.NewHeuristic()
		}

		hasher := credentials.NewBcryptHasher(cfg.PasswordHashCost)
		taskRepo := repository.NewTaskRepository(database, hasher)
		taskService := services.NewTaskService(taskRepo, hasher, logger, m)

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		handler := httpapi.NewHandler(taskService, est, m)
		httpapi.Register(e, handler, httpapi.RouteOptions{
			APIPrefix:    cfg.APIPrefix,
			SitePassword: cfg.SitePassword,
			Limiter:      limiter,
			Metrics:      m,
			Logger:       logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		startErr := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", zap.String("addr", cfg.AppURL()))
			if err := e.Start(cfg.AppURL()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				startErr <- err
			}
		}()

		var serveErr error
		select {
		case <-ctx.Done():
		case serveErr = <-startErr:
			logger.Error("HTTP server stopped", zap.Error(serveErr))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown", zap.Error(err))
		}

		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}

		if serveErr != nil {
			return fmt.Errorf("start http server: %w", serveErr)
		}
		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
