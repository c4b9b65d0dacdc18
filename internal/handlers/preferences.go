package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/usersdb/internal/logging"
	"github.com/localnerve/usersdb/internal/services"
	"github.com/localnerve/usersdb/internal/utils"
	"github.com/localnerve/usersdb/internal/views"
)

// PreferenceHandler handles standalone and user nested preference routes
type PreferenceHandler struct {
	Service *services.PreferenceService
	Log     *logging.Logger
}

// PreferenceListResponse is the preference listing
type PreferenceListResponse = utils.ListResponseStruct[*views.Preference]

// ListPreferences handles GET /api/preferences
// @Summary List preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} PreferenceListResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /preferences [get]
func (h *PreferenceHandler) ListPreferences(c *fiber.Ctx) error {
	prefs, err := h.Service.List(c.UserContext())
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, PreferenceListResponse{Data: views.Preferences(prefs)}, fiber.StatusOK)
}

// GetPreference handles GET /api/preferences/:id
// @Summary Get a preference
// @Tags Preferences
// @Produce json
// @Param id path int true "Preference ID"
// @Success 200 {object} views.Preference
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /preferences/{id} [get]
func (h *PreferenceHandler) GetPreference(c *fiber.Ctx) error {
	id, err := parseID(c, "Preference")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	pref, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewPreference(pref), fiber.StatusOK)
}

// CreatePreference handles POST /api/preferences
// @Summary Create a preference
// @Description Create a preference for the user named by the user field
// @Tags Preferences
// @Accept json
// @Produce json
// @Param body body object true "user, langue, theme, notifications"
// @Success 201 {object} views.Preference
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /preferences [post]
func (h *PreferenceHandler) CreatePreference(c *fiber.Ctx) error {
	fields, err := parseBody(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	pref, err := h.Service.Create(c.UserContext(), fields)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewPreference(pref), fiber.StatusCreated)
}

// UpdatePreference handles PUT /api/preferences/:id
// @Summary Update a preference
// @Tags Preferences
// @Accept json
// @Produce json
// @Param id path int true "Preference ID"
// @Param body body object true "Any of langue, theme, notifications"
// @Success 200 {object} views.Preference
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /preferences/{id} [put]
func (h *PreferenceHandler) UpdatePreference(c *fiber.Ctx) error {
	id, err := parseID(c, "Preference")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	fields, err := parseBody(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	pref, err := h.Service.Update(c.UserContext(), id, fields)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewPreference(pref), fiber.StatusOK)
}

// DeletePreference handles DELETE /api/preferences/:id
// @Summary Delete a preference
// @Tags Preferences
// @Param id path int true "Preference ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /preferences/{id} [delete]
func (h *PreferenceHandler) DeletePreference(c *fiber.Ctx) error {
	id, err := parseID(c, "Preference")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.NoContentResponse(c)
}

// GetUserPreference handles GET /api/users/:id/preferences
// @Summary Get the preference of a user
// @Tags Preferences
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} views.Preference
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/preferences [get]
func (h *PreferenceHandler) GetUserPreference(c *fiber.Ctx) error {
	userID, err := parseID(c, "User")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	pref, err := h.Service.GetForUser(c.UserContext(), userID)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewPreference(pref), fiber.StatusOK)
}

// UpsertUserPreference handles PUT /api/users/:id/preferences
// @Summary Create or update the preference of a user
// @Description Link a preference with the defaults when the user has none, then apply the body
// @Tags Preferences
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body object true "Any of langue, theme, notifications"
// @Success 200 {object} views.Preference
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/preferences [put]
func (h *PreferenceHandler) UpsertUserPreference(c *fiber.Ctx) error {
	userID, err := parseID(c, "User")
	if err != nil {
		return writeError(c, h.Log, err)
	}

	fields, err := parseBody(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	pref, err := h.Service.UpsertForUser(c.UserContext(), userID, fields)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	return utils.SuccessResponse(c, views.NewPreference(pref), fiber.StatusOK)
}
