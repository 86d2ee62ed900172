package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pcns-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrorHandler returns the global error handler. Errors are returned in the standard
// envelope; server errors are logged and, with a Redis client, kept in the error log.
func ErrorHandler(rdb *redis.Client) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusOf(c, err)
		message := "Internal Server Error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("route", c.Method()+" "+c.Path()).Msg("request failed")
			RecordError(c, rdb, err)
		}
		return response.Error(c, message, code, nil)
	}
}

// RecordError pushes an entry onto the bounded Redis error log.
func RecordError(c *fiber.Ctx, rdb *redis.Client, err error) {
	if rdb == nil || err == nil {
		return
	}
	entry, _ := json.Marshal(map[string]interface{}{
		"time":    time.Now().UTC(),
		"path":    c.OriginalURL(),
		"method":  c.Method(),
		"traceId": GetTraceID(c),
		"message": err.Error(),
	})
	ctx := context.Background()
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, KeyErrorLog, entry)
	pipe.LTrim(ctx, KeyErrorLog, 0, ErrorLogSize-1)
	_, _ = pipe.Exec(ctx)
}
