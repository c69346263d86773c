package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/config"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/handler"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/middleware"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/router"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/service"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/view"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the explorer web form",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "ytexplorer")
	handler.InitMetrics()

	redisSvc := service.NewRedisService(cfg.RedisURL, middleware.Logger)
	defer redisSvc.Close()

	var counter middleware.Counter
	if redisSvc.Enabled() {
		counter = redisSvc
	}
	limiter := middleware.NewSearchRateLimiter(cfg.SearchRateLimit, counter)
	defer limiter.Close()

	page, err := view.NewPage()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "YouTube Video Explorer",
		ServerHeader: "ytexplorer",
	})
	router.Setup(app, &router.Handlers{
		Explorer: handler.NewExplorerHandler(newExplorer(cfg, middleware.Logger), page),
		Health:   handler.NewHealthHandler(redisSvc.Client()),
	}, router.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SearchLimiter: limiter,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		middleware.Logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Environment).
			Msg("YouTube Video Explorer starting")
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		middleware.Logger.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	return g.Wait()
}
