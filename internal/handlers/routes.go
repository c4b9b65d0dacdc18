package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/localnerve/usersdb/internal/config"
	"github.com/localnerve/usersdb/internal/logging"
	"github.com/localnerve/usersdb/internal/metrics"
	"github.com/localnerve/usersdb/internal/middleware"
	"github.com/localnerve/usersdb/internal/security"
	"github.com/localnerve/usersdb/internal/services"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by every route.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Log     *logging.Logger
	Hasher  security.PasswordHasher
	Metrics *metrics.EntityMetrics
}

// NewApp creates the Fiber app with the error handler and the request
// middleware every route runs behind. Routes are added by RegisterRoutes.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "usersdb",
		ErrorHandler:          ErrorHandler(deps.Log),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID(deps.Log))
	app.Use(middleware.RequestLogger(deps.Log))
	app.Use(recover.New())

	return app
}

// RegisterRoutes mounts /health, the /api resources and the 404 fallback.
// It must be called after any other middleware is added to app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	userHandler := &UserHandler{
		Service: &services.UserService{DB: deps.DB, Hasher: deps.Hasher, Metrics: deps.Metrics},
		Log:     deps.Log,
	}
	roleHandler := &RoleHandler{
		Service: &services.RoleService{DB: deps.DB, Metrics: deps.Metrics},
		Log:     deps.Log,
	}
	prefHandler := &PreferenceHandler{
		Service: &services.PreferenceService{DB: deps.DB, Metrics: deps.Metrics},
		Log:     deps.Log,
	}
	healthHandler := &HealthHandler{Config: deps.Config, DB: deps.DB, Log: deps.Log}

	app.Get("/health", healthHandler.Health)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	users := api.Group("/users")
	users.Get("/", userHandler.ListUsers)
	users.Post("/", userHandler.CreateUser)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)
	users.Get("/:id/preferences", prefHandler.GetUserPreference)
	users.Put("/:id/preferences", prefHandler.UpsertUserPreference)

	roles := api.Group("/roles")
	roles.Get("/", roleHandler.ListRoles)
	roles.Post("/", roleHandler.CreateRole)
	roles.Get("/:id", roleHandler.GetRole)
	roles.Put("/:id", roleHandler.UpdateRole)
	roles.Delete("/:id", roleHandler.DeleteRole)

	prefs := api.Group("/preferences")
	prefs.Get("/", prefHandler.ListPreferences)
	prefs.Post("/", prefHandler.CreatePreference)
	prefs.Get("/:id", prefHandler.GetPreference)
	prefs.Put("/:id", prefHandler.UpdatePreference)
	prefs.Delete("/:id", prefHandler.DeletePreference)

	// 404 handler
	app.Use(NotFoundHandler)
}
