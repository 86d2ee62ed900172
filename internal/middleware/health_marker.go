package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys for traffic counters. Shared with the health service and handlers.
const (
	KeyReqTotal  = "health:pcns:req_total"
	KeyReqErrors = "health:pcns:req_errors"
	KeyResTime   = "health:pcns:res_time_total"
	KeyResCount  = "health:pcns:res_count"
	KeyStartTime = "health:pcns:start_time"
	KeyLastReq   = "health:pcns:last_request"
	KeyErrorLog  = "health:pcns:error_log"
	KeyRouteHits = "health:pcns:route_hits"
)

// ErrorLogSize bounds the Redis error log.
const ErrorLogSize = 50

// Keys lists every counter key, for resets.
func Keys() []string {
	return []string{KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq, KeyErrorLog, KeyRouteHits}
}

// HealthMarker records API traffic in Redis. Only /api routes are counted.
// A nil client disables it.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil || !strings.HasPrefix(c.Path(), "/api/") {
			return c.Next()
		}

		start := time.Now()
		ctx := context.Background()
		lastReq, _ := json.Marshal(map[string]interface{}{
			"time":    start.UTC(),
			"ip":      c.IP(),
			"path":    c.OriginalURL(),
			"method":  c.Method(),
			"traceId": GetTraceID(c),
		})

		err := c.Next()

		status := statusOf(c, err)

		pipe := rdb.TxPipeline()
		pipe.Set(ctx, KeyLastReq, lastReq, 0)
		pipe.Incr(ctx, KeyReqTotal)
		pipe.Incr(ctx, KeyResCount)
		pipe.IncrByFloat(ctx, KeyResTime, float64(time.Since(start).Milliseconds()))
		pipe.HIncrBy(ctx, KeyRouteHits, c.Method()+" "+c.Route().Path, 1)
		if status >= fiber.StatusInternalServerError {
			pipe.Incr(ctx, KeyReqErrors)
		}
		_, _ = pipe.Exec(ctx)
		return err
	}
}
