package request

import (
	"bytes"
	"math"
	"net/http/httptest"
	"testing"

	"pcns-backend/internal/dataaccess"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBody(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		data, err := Body(c)
		if err != nil {
			return c.Status(400).SendString(err.Error())
		}
		return c.JSON(data)
	})

	cases := map[string]int{
		`{"projectName":"Row Houses"}`: 200,
		``:                             200,
		`not json`:                     400,
		`[1,2]`:                        400,
		`null`:                         400,
	}
	for body, want := range cases {
		req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, body)
	}

	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{"a":1}`)))
	req.Header.Set("Content-Type", fiber.MIMETextPlain)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPage(t *testing.T) {
	app := fiber.New()
	var take, skip int
	app.Get("/", func(c *fiber.Ctx) error {
		take, skip = Page(c)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/?take=10&skip=20", nil))
	require.NoError(t, err)
	assert.Equal(t, 10, take)
	assert.Equal(t, 20, skip)

	_, err = app.Test(httptest.NewRequest("GET", "/?take=5000&skip=-3", nil))
	require.NoError(t, err)
	assert.Equal(t, MaxTake, take)
	assert.Equal(t, 0, skip)

	for _, q := range []string{"", "?take=abc", "?take=0", "?take=-4"} {
		_, err = app.Test(httptest.NewRequest("GET", "/"+q, nil))
		require.NoError(t, err)
		assert.Equal(t, DefaultTake, take, q)
	}
}

func TestStringAndInt(t *testing.T) {
	data := dataaccess.Data{"note": "hello", "atsClientId": float64(42), "bad": 1.5, "s": "7"}
	assert.Equal(t, "hello", String(data, "note"))
	assert.NotContains(t, data, "note")

	n, ok := Int(data, "atsClientId")
	assert.True(t, ok)
	assert.Equal(t, 42, n)
	_, ok = Int(data, "bad")
	assert.False(t, ok)
	n, ok = Int(data, "s")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	_, ok = Int(data, "missing")
	assert.False(t, ok)

	huge := dataaccess.Data{"n": 1e19, "neg": float64(math.MinInt32) - 1, "s": "99999999999", "max": float64(math.MaxInt32)}
	for _, f := range []string{"n", "neg", "s"} {
		_, ok = Int(huge, f)
		assert.False(t, ok, f)
	}
	n, ok = Int(huge, "max")
	assert.True(t, ok)
	assert.Equal(t, math.MaxInt32, n)
}
