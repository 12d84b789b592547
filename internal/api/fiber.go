// Package api builds the Fiber application serving the site, the REST API
// and GraphQL.
package api

import (
	"time"

	gqlschema "github.com/effiwise/effimappro/graphql"
	"github.com/effiwise/effimappro/internal/metrics"
	"github.com/effiwise/effimappro/restapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options tune the app for its environment
type Options struct {
	AllowOrigins string
	AccessLog    bool
}

// NewFiberApp creates and configures a Fiber app with site, REST and GraphQL routes
func NewFiberApp(deps restapi.Deps, opts Options) (*fiber.App, error) {
	// Initialize GraphQL schema
	schema, err := gqlschema.CreateSchema(deps.Activities)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:     "EffiMapPro API v1.0",
		BodyLimit:   10 * 1024 * 1024, // 10MB, territory imports
		ReadTimeout: 60 * time.Second,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	origins := opts.AllowOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		AllowMethods:     "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("graphql_op", "-")
		return c.Next()
	})
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} - ${latency} ${method} ${path} ${locals:graphql_op}\n",
		}))
	}
	app.Use(metrics.Middleware())

	// Health check and metrics endpoints
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Setup site, REST and GraphQL routes
	restapi.SetupRoutes(app, deps, schema)

	return app, nil
}
