package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/usersdb/internal/config"
	"github.com/localnerve/usersdb/internal/logging"
	"github.com/localnerve/usersdb/internal/services"
	"github.com/localnerve/usersdb/internal/utils"
	"gorm.io/gorm"
)

// HealthHandler reports service health
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *logging.Logger
}

// Health handles GET /health
// @Summary Service health
// @Description Database ping, plus server reachability for networked databases
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.DB, h.Log)

	status := fiber.StatusOK
	if !result.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return utils.SuccessResponse(c, result, status)
}
