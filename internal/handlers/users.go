// users.go
//
// A users, roles and preferences data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of usersdb.
// usersdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// usersdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with usersdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/usersdb/internal/logging"
	"github.com/localnerve/usersdb/internal/services"
	"github.com/localnerve/usersdb/internal/utils"
	"github.com/localnerve/usersdb/internal/views"
)

// UserHandler handles user routes
type UserHandler struct {
	Service *services.UserService
	Log     *logging.Logger
}

// UserPageResponse is the paginated user listing
type UserPageResponse = utils.PageResponseStruct[*views.User, services.PageMeta]

// ListUsers handles GET /api/users
// @Summary List users
// @Description Get one page of users
// @Tags Users
// @Produce json
// @Param page query int false "Page number, from 1" default(1)
// @Param limit query int false "Page size, clamped to 1-50" default(10)
// @Param sort query string false "Sort field" default(id)
// @Param order query string false "ASC or DESC" default(DESC)
// @Success 200 {object} UserPageResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, err := h.Service.List(c.UserContext(), parseListParams(c))
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, UserPageResponse{
		Data: views.Users(page.Items),
		Meta: page.Meta,
	}, fiber.StatusOK)
}

// GetUser handles GET /api/users/:id
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} views.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "User")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	user, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewUser(user), fiber.StatusOK)
}

// CreateUser handles POST /api/users
// @Summary Create a user
// @Description Create a user; the password is hashed before it is stored
// @Tags Users
// @Accept json
// @Produce json
// @Param body body object true "email, nom, prenom, password, roles, userRoles"
// @Success 201 {object} views.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	fields, err := parseBody(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	user, err := h.Service.Create(c.UserContext(), fields)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewUser(user), fiber.StatusCreated)
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update a user
// @Description Apply the fields present in the body, then validate the whole user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body object true "Any of email, nom, prenom, password, roles, userRoles"
// @Success 200 {object} views.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "User")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	fields, err := parseBody(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	user, err := h.Service.Update(c.UserContext(), id, fields)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewUser(user), fiber.StatusOK)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete a user
// @Description Delete a user and its preference; its roles are kept
// @Tags Users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "User")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.NoContentResponse(c)
}
