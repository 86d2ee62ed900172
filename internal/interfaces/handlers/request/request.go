// Package request holds the body and query parsing shared by the API handlers.
package request

import (
	"errors"
	"math"
	"strconv"

	"pcns-backend/internal/dataaccess"

	"github.com/gofiber/fiber/v2"
)

// DefaultTake is the page size when the caller gives none. MaxTake caps it.
const (
	DefaultTake = 25
	MaxTake     = 100
)

var ErrInvalidBody = errors.New("Invalid request body")

// Body parses a JSON object body. An empty body parses to an empty payload.
func Body(c *fiber.Ctx) (dataaccess.Data, error) {
	if len(c.Body()) == 0 {
		return dataaccess.Data{}, nil
	}
	var data dataaccess.Data
	if err := c.BodyParser(&data); err != nil || data == nil {
		return nil, ErrInvalidBody
	}
	return data, nil
}

// Page reads take and skip from the query string. A missing, malformed or
// non-positive take falls back to DefaultTake.
func Page(c *fiber.Ctx) (take, skip int) {
	take = c.QueryInt("take", DefaultTake)
	if take <= 0 {
		take = DefaultTake
	}
	take = min(take, MaxTake)
	skip = max(c.QueryInt("skip", 0), 0)
	return take, skip
}

// String pops a string field from data, returning "" when absent or not a string.
func String(data dataaccess.Data, field string) string {
	s, _ := data[field].(string)
	delete(data, field)
	return s
}

// Int reads a JSON number or numeric string field that fits a 32-bit integer column.
func Int(data dataaccess.Data, field string) (int, bool) {
	switch v := data[field].(type) {
	case float64:
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 32)
		return int(n), err == nil
	default:
		return 0, false
	}
}
