package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/config"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/content"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/handlers"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/logport"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/services"
	"github.com/NaveedAshraf1/admin-phone-secure/pkg/logger"
	"github.com/NaveedAshraf1/admin-phone-secure/router"
)

const version = "1.0.0"

// SetupServer initializes and returns a configured HTTP server along
// with a cleanup function that releases the log port and projector.
func SetupServer(cfg *config.Config) (*http.Server, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	port, err := openPort(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log port: %w", err)
	}

	classifier := content.NewClassifier(cfg.Channel.AttachmentHost)

	commandService := services.NewCommandService(port, cfg.Channel.ID)
	responseService := services.NewResponseService(port, cfg.Channel.ID)
	projector := services.NewProjector(port, cfg.Channel.ID, classifier)

	if err := projector.Start(); err != nil {
		_ = port.Close()
		return nil, nil, fmt.Errorf("failed to start projector: %w", err)
	}

	r := router.NewRouter(
		handlers.NewCommandHandler(commandService),
		handlers.NewAgentHandler(responseService),
		handlers.NewTimelineHandler(projector),
	)

	cleanup := func() {
		projector.Close()
		if err := port.Close(); err != nil {
			logger.Warn("Failed to close log port", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, cleanup, nil
}

func openPort(cfg *config.Config) (logport.Port, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		return logport.NewRedisPort(cfg.Store.RedisAddr, cfg.Store.RedisDB)
	default:
		return logport.NewSQLitePort(cfg.Store.DSN)
	}
}

// StartServer runs srv until SIGINT/SIGTERM, then shuts down gracefully.
func StartServer(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening",
			zap.String("addr", srv.Addr),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
