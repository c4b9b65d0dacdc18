package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/usersdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return APIErrorResponse(c, types.Invalid("role.validation", []types.Violation{
			{Path: "nom", Message: "too short"},
			{Path: "nom", Message: "bad pattern"},
		}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/invalid?x=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponseStruct
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Ok)
	assert.Equal(t, "/invalid?x=1", body.URL)
	assert.Equal(t, "role.validation", body.Type)
	assert.Equal(t, []string{"too short", "bad pattern"}, body.Errors["nom"])
}

func TestNoContentResponse(t *testing.T) {
	app := fiber.New()
	app.Delete("/thing", func(c *fiber.Ctx) error {
		return NoContentResponse(c)
	})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/thing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)
}
