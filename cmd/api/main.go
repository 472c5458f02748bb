package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spendeeapp/spendee-go/pkg/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Cleanup()

	if err := deps.Scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	srv := newServer(deps)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
		if err := shutdownServer(context.Background(), srv); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
		}
	}

	logger.Info("server stopped")
}
