package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localnerve/usersdb/internal/logging"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-Id"

// RequestID reuses the caller's X-Request-Id or generates one, echoes it on the
// response and binds it to the request logger context.
func RequestID(log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Locals("requestId", id)
		c.SetUserContext(log.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

// RequestLogger logs one line per request once the handler chain has run.
// Errors are passed to the app error handler first so the logged status is final.
func RequestLogger(log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		log.Request(c.UserContext(), c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
		return nil
	}
}
