package services

import (
	"context"
	"fmt"

	"github.com/localnerve/usersdb/internal/config"
	"github.com/localnerve/usersdb/internal/logging"
	"github.com/localnerve/usersdb/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Server       string            `json:"server,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every check passed.
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log *logging.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	fail := func(msg string, err error) {
		result.Status = "unhealthy"
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("%s: %v", msg, err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; %s: %v", msg, err)
		}
		log.Error(ctx, "Health check failed - "+msg, err)
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		fail("Database connection error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		fail("Database ping failed", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DB.Type
		result.Details["database_name"] = cfg.DB.Database
	}

	// File databases have no server to reach
	if !cfg.DB.IsSQLite() {
		if err := utils.PingDatabase(serverScheme(cfg.DB.Type), cfg.DB.Host, cfg.DB.Port); err != nil {
			result.Server = "unreachable"
			result.Details["server_error"] = err.Error()
			fail("Database server ping failed", err)
		} else {
			result.Server = "ok"
			result.Details["server_address"] = cfg.DB.Host + ":" + cfg.DB.Port
		}
	}

	if result.Healthy() {
		log.Info(ctx, "Health check passed - all systems operational")
	}

	return result
}

func serverScheme(dbType string) string {
	if dbType == "mariadb" {
		return "mysql"
	}
	return dbType
}
