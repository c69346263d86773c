package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/handler"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Explorer *handler.ExplorerHandler
	Health   *handler.HealthHandler
}

// Options configures the middleware stack.
type Options struct {
	CORSOrigins   string
	SearchLimiter *middleware.RateLimiter
}

// Setup configures the middleware stack and all routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// Form
	app.Get("/", h.Explorer.Form)

	// JSON API
	api := app.Group("/api", middleware.NewCORS(opts.CORSOrigins))

	// Every search spends upstream quota; form and API share one limiter.
	if opts.SearchLimiter != nil {
		limit := opts.SearchLimiter.Handler()
		app.Post("/search", limit, h.Explorer.Search)
		api.Post("/search", limit, h.Explorer.SearchAPI)
		return
	}
	app.Post("/search", h.Explorer.Search)
	api.Post("/search", h.Explorer.SearchAPI)
}
