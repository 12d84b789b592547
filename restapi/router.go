// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"time"

	"github.com/effiwise/effimappro/internal/site"
	"github.com/effiwise/effimappro/restapi/modules/activities"
	"github.com/effiwise/effimappro/restapi/modules/auth"
	"github.com/effiwise/effimappro/restapi/modules/branches"
	"github.com/effiwise/effimappro/restapi/modules/maps"
	"github.com/effiwise/effimappro/restapi/modules/representatives"
	"github.com/effiwise/effimappro/restapi/modules/session"
	sitehandlers "github.com/effiwise/effimappro/restapi/modules/site"
	"github.com/effiwise/effimappro/restapi/modules/territories"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// Deps are the services the routes are wired to
type Deps struct {
	Sessions         auth.Sessions
	Activities       activities.Recent
	Geocoder         maps.Geocoder
	Pages            *site.Pages
	Mailer           sitehandlers.ContactSender
	GitHub           auth.GitHubConfig
	ContactRateLimit int
	Logger           *zap.Logger
}

// SetupRoutes configures the site pages, all REST API routes and the GraphQL
// endpoint. CORS and the other global middleware live in internal/api.
func SetupRoutes(app *fiber.App, deps Deps, schema graphql.Schema) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Marketing site
	app.Get("/", sitehandlers.Home(deps.Pages))
	app.Get("/features", sitehandlers.Features(deps.Pages))
	app.Get("/pricing", sitehandlers.Pricing(deps.Pages))
	app.Get("/about", sitehandlers.About(deps.Pages))
	app.Get("/contact", sitehandlers.Contact(deps.Pages))
	app.Post("/contact", contactLimiter(deps.ContactRateLimit), sitehandlers.SubmitContact(deps.Pages, deps.Mailer, logger))

	// App shell
	app.Get("/app", auth.OptionalAuth, sitehandlers.App(deps.Pages, deps.Sessions))
	app.Get("/app/*", auth.OptionalAuth, sitehandlers.App(deps.Pages, deps.Sessions))

	// API Group /api/v1
	api := app.Group("/api/v1")

	// Public Routes
	api.Get("/pricing/plans", sitehandlers.ListPlans())
	api.Get("/pricing/quote", sitehandlers.Quote())

	// Auth Routes
	authGroup := api.Group("/auth")
	authGroup.Get("/github/login", auth.GitHubLogin(deps.GitHub))
	authGroup.Get("/github/callback", auth.GitHubCallback(deps.GitHub, deps.Sessions, logger))
	authGroup.Post("/logout", auth.OptionalAuth, auth.Logout(deps.Sessions))
	authGroup.Get("/me", auth.OptionalAuth, auth.Me())

	// Everything below needs a session
	private := api.Group("", auth.RequireAuth, session.Middleware(deps.Sessions))
	canWrite := auth.RequireWrite

	// GraphQL Route - mounted within the api group to inherit path prefixes
	private.Post("/graphql", GraphQLHandler(schema))

	sessionGroup := private.Group("/session")
	sessionGroup.Get("/", session.GetState())
	sessionGroup.Post("/refresh", session.Refresh())
	sessionGroup.Put("/panel", session.SetPanel())
	sessionGroup.Put("/tab", session.SetTab())
	sessionGroup.Delete("/error", session.ClearError())

	branchGroup := private.Group("/branches")
	branchGroup.Get("/", branches.ListBranches())
	branchGroup.Post("/", canWrite, branches.CreateBranch())
	branchGroup.Put("/:id", canWrite, branches.UpdateBranch())
	branchGroup.Delete("/:id", canWrite, branches.DeleteBranch())

	repGroup := private.Group("/representatives")
	repGroup.Get("/", representatives.ListRepresentatives())
	repGroup.Post("/", canWrite, representatives.CreateRepresentative())
	repGroup.Put("/:id", canWrite, representatives.UpdateRepresentative())
	repGroup.Delete("/:id", canWrite, representatives.DeleteRepresentative())

	territoryGroup := private.Group("/territories")
	territoryGroup.Get("/", territories.ListTerritories())
	territoryGroup.Get("/export", territories.ExportTerritories())
	territoryGroup.Get("/locate", territories.LocateTerritories())
	territoryGroup.Post("/import", canWrite, territories.ImportTerritories())
	territoryGroup.Post("/drawn", canWrite, territories.CreateDrawnTerritory())
	territoryGroup.Post("/", canWrite, territories.CreateTerritory())
	territoryGroup.Put("/:id", canWrite, territories.UpdateTerritory())
	territoryGroup.Delete("/:id", canWrite, territories.DeleteTerritory())

	private.Get("/activities/recent", activities.ListRecent(deps.Activities))
	private.Get("/map", maps.GetMap())
	private.Get("/geocode", maps.Geocode(deps.Geocoder))

	app.Use(sitehandlers.Fallback())

	logger.Info("API routes initialized successfully")
}

func contactLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		perMinute = 5
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many messages. Please try again in a minute.",
			})
		},
	})
}
