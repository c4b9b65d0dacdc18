package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/usersdb/internal/logging"
	"github.com/localnerve/usersdb/internal/services"
	"github.com/localnerve/usersdb/internal/utils"
	"github.com/localnerve/usersdb/internal/views"
)

// RoleHandler handles role routes
type RoleHandler struct {
	Service *services.RoleService
	Log     *logging.Logger
}

// RoleListResponse is the role listing
type RoleListResponse = utils.ListResponseStruct[*views.Role]

// ListRoles handles GET /api/roles
// @Summary List roles
// @Tags Roles
// @Produce json
// @Success 200 {object} RoleListResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.Service.List(c.UserContext())
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, RoleListResponse{Data: views.Roles(roles)}, fiber.StatusOK)
}

// GetRole handles GET /api/roles/:id
// @Summary Get a role
// @Tags Roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} views.Role
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roles/{id} [get]
func (h *RoleHandler) GetRole(c *fiber.Ctx) error {
	id, err := parseID(c, "Role")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	role, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewRole(role), fiber.StatusOK)
}

// CreateRole handles POST /api/roles
// @Summary Create a role
// @Tags Roles
// @Accept json
// @Produce json
// @Param body body object true "nom, description"
// @Success 201 {object} views.Role
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c *fiber.Ctx) error {
	fields, err := parseBody(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	role, err := h.Service.Create(c.UserContext(), fields)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewRole(role), fiber.StatusCreated)
}

// UpdateRole handles PUT /api/roles/:id
// @Summary Update a role
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param body body object true "Any of nom, description; null clears description"
// @Success 200 {object} views.Role
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := parseID(c, "Role")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	fields, err := parseBody(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	role, err := h.Service.Update(c.UserContext(), id, fields)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewRole(role), fiber.StatusOK)
}

// DeleteRole handles DELETE /api/roles/:id
// @Summary Delete a role
// @Description Delete a role and remove it from every user; users are kept
// @Tags Roles
// @Param id path int true "Role ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *fiber.Ctx) error {
	id, err := parseID(c, "Role")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.NoContentResponse(c)
}
