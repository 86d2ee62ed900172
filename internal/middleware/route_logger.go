package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RouteLogger writes one line per completed request. Server errors log at error,
// client errors at warn.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := statusOf(c, err)
		level := zerolog.InfoLevel
		if status >= fiber.StatusInternalServerError {
			level = zerolog.ErrorLevel
		} else if status >= fiber.StatusBadRequest {
			level = zerolog.WarnLevel
		}

		log.WithLevel(level).
			Str("trace_id", GetTraceID(c)).
			Str("route", c.Method()+" "+c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
		return err
	}
}

// statusOf is the status the error handler will send for err, or the response's
// status when the handler chain succeeded.
func statusOf(c *fiber.Ctx, err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case err != nil:
		return fiber.StatusInternalServerError
	}
	return c.Response().StatusCode()
}
