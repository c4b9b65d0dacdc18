package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/usersdb/internal/config"
	"github.com/localnerve/usersdb/internal/database"
	"github.com/localnerve/usersdb/internal/handlers"
	"github.com/localnerve/usersdb/internal/logging"
	"github.com/localnerve/usersdb/internal/metrics"
	"github.com/localnerve/usersdb/internal/security"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/localnerve/usersdb/docs/api" // Swagger docs
)

// @title UsersDB API
// @version 1.0.0
// @description Users, roles and preferences service with multi-database support
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/usersdb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{
		ServiceName: "usersdb",
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	ctx := context.Background()

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Failed to run migrations", err)
	}

	deps := handlers.Deps{
		Config:  cfg,
		DB:      db,
		Log:     log,
		Hasher:  security.NewArgon2Hasher(cfg.Password),
		Metrics: metrics.NewEntityMetrics(prometheus.DefaultRegisterer),
	}

	app := handlers.NewApp(deps)
	app.Use(compress.New())

	// Prometheus metrics
	prom := fiberprometheus.New("usersdb")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	handlers.RegisterRoutes(app, deps)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info(ctx, "Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Info(ctx, fmt.Sprintf("Starting server on port %s (%s)", cfg.Port, cfg.AppEnv))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", err)
	}

	log.Info(ctx, "Server stopped")
}
