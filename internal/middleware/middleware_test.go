package middleware_test

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/usersdb/internal/logging"
	"github.com/localnerve/usersdb/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.VersionMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("apiVersion").(string))
	})

	cases := map[string]string{
		"":      "1.0.0",
		"1.0":   "1.0.0",
		"2.1.0": "2.1.0",
	}
	for header, want := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("X-Api-Version", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.Header.Get("X-Api-Version"))
	}
}

func TestRequestIDGeneratedAndReused(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RequestID(logging.Nop()))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("requestId").(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(middleware.RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(middleware.RequestIDHeader))
}

func TestRequestLoggerRecordsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{ServiceName: "test", Level: "info", Output: &buf})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusTeapot).SendString("handled")
		},
	})
	app.Use(middleware.RequestID(log))
	app.Use(middleware.RequestLogger(log))
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.ErrBadGateway
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	line := buf.String()
	assert.Contains(t, line, `"status":418`)
	assert.Contains(t, line, `"request_id":"req-42"`)
	assert.Contains(t, line, `"path":"/boom"`)
}
