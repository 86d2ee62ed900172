package health

import (
	"encoding/json"
	"time"

	healthsvc "pcns-backend/internal/application/health"
	"pcns-backend/internal/middleware"
	"pcns-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const serviceName = "pcns-api"

// Handlers serves the health and stats endpoints.
type Handlers struct {
	Service        *healthsvc.Service
	HealthAdminKey string
}

// Reset wipes the traffic counters and restarts the uptime clock. The caller must
// pass the admin key as ?key=.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if key := c.Query("key"); key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	rdb := h.Service.Rdb
	if rdb == nil {
		return response.Error(c, "Redis is not configured", fiber.StatusServiceUnavailable, nil)
	}

	ctx := c.UserContext()
	pipe := rdb.TxPipeline()
	pipe.Del(ctx, middleware.Keys()...)
	pipe.Set(ctx, middleware.KeyStartTime, time.Now().UnixMilli(), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON reports service health, answering 503 unless every dependency is up.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	r := h.Service.Collect(c.UserContext())
	status := fiber.StatusOK
	if r.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"service":      serviceName,
		"status":       r.Status,
		"runtime":      r.Runtime,
		"traffic":      r.Traffic,
		"dependencies": r.Dependencies,
		"records":      r.Records,
	})
}

// Errors lists the recorded server errors, newest first. Entries that are not
// valid JSON are skipped.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	out := []json.RawMessage{}
	rdb := h.Service.Rdb
	if rdb == nil {
		return c.JSON(out)
	}
	entries, err := rdb.LRange(c.UserContext(), middleware.KeyErrorLog, 0, middleware.ErrorLogSize-1).Result()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if json.Valid([]byte(e)) {
			out = append(out, json.RawMessage(e))
		}
	}
	return c.JSON(out)
}
