package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/catalog/internal/app"
	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	"github.com/allisson/catalog/internal/config"
)

// RunServer starts the API server, the metrics server, the event consumer and, when
// configured, the feature flags watcher and the memory cache janitor. It blocks until
// SIGINT/SIGTERM or until one of them fails, then stops everything within ShutdownTimeout.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	server, err := container.HTTPServer()
	if err != nil {
		closeContainer(context.Background(), container, logger)
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		closeContainer(context.Background(), container, logger)
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	consumer, err := container.EventConsumer()
	if err != nil {
		closeContainer(context.Background(), container, logger)
		return fmt.Errorf("failed to initialize event consumer: %w", err)
	}

	fileGate, err := container.FileGate()
	if err != nil {
		closeContainer(context.Background(), container, logger)
		return fmt.Errorf("failed to initialize feature flags: %w", err)
	}

	memoryCache, err := container.MemoryCache()
	if err != nil {
		closeContainer(context.Background(), container, logger)
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		err := consumer.Start(gctx)
		if errors.Is(err, catalogDomain.ErrSourceUnavailable) {
			// The API keeps serving without a broker.
			logger.Warn("event consumer disabled", slog.Any("error", err))
			return nil
		}
		return err
	})

	if fileGate != nil {
		g.Go(func() error {
			return fileGate.Watch(gctx)
		})
	}

	if memoryCache != nil {
		go memoryCache.Start()
	}

	// Servers block in ListenAndServe; stop them once the group context is done.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Any("reason", context.Cause(gctx)))

		if memoryCache != nil {
			memoryCache.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return container.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
