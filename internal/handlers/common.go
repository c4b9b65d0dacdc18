// common.go
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
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/usersdb/internal/logging"
	"github.com/localnerve/usersdb/internal/services"
	"github.com/localnerve/usersdb/internal/types"
	"github.com/localnerve/usersdb/internal/utils"
)

// parseID resolves the :id path parameter. An id that cannot name a row is
// reported the same way as a missing row.
func parseID(c *fiber.Ctx, resource string) (uint64, error) {
	id, err := types.ParseID(c.Params("id"))
	if err != nil {
		return 0, types.NotFound(resource+" not found", "request.id")
	}
	return id, nil
}

// parseBody decodes the request body as a field map.
func parseBody(c *fiber.Ctx) (services.Fields, error) {
	return services.ParseFields(c.Body())
}

// parseListParams reads page, limit, sort and order from the query string.
func parseListParams(c *fiber.Ctx) services.ListParams {
	return services.ListParams{
		Page:  c.QueryInt("page", services.DefaultPage),
		Limit: c.QueryInt("limit", services.DefaultLimit),
		Sort:  c.Query("sort", services.DefaultSort),
		Order: c.Query("order", services.DefaultOrder),
	}
}

// writeError renders err. Internal failures are logged with their cause and
// answered with a generic message.
func writeError(c *fiber.Ctx, log *logging.Logger, err error) error {
	if apiErr, ok := types.AsAPIError(err); ok {
		if apiErr.Kind == types.KindInternal {
			log.Error(c.UserContext(), "request failed: "+apiErr.Type, apiErr.Unwrap())
		}
		return utils.APIErrorResponse(c, apiErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return utils.ErrorResponse(c, fiberErr.Message, fiberErr.Code, "request")
	}

	log.Error(c.UserContext(), "request failed", err)
	return utils.ErrorResponse(c, "Internal Server Error", fiber.StatusInternalServerError, "internal")
}

// ErrorHandler is the app-level handler for errors escaping the handlers.
func ErrorHandler(log *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, log, err)
	}
}

// NotFoundHandler answers every unmatched route.
func NotFoundHandler(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}
