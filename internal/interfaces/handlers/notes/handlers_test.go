package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pcns-backend/internal/application/activities"
	notesvc "pcns-backend/internal/application/notes"
	"pcns-backend/internal/infrastructure/database/dbtest"
	"pcns-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotesTest(t *testing.T) (*fiber.App, string) {
	chain, _ := dbtest.Chain(t)
	activityID, err := activities.Create(context.Background(), chain, activities.InitiativeHousing)
	require.NoError(t, err)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(nil)})
	(&Handlers{Service: &notesvc.Service{Data: chain}}).Register(app.Group("/api/v1/note"))
	return app, activityID
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestNoteHistoryLifecycle(t *testing.T) {
	app, activityID := setupNotesTest(t)

	code, out := do(t, app, http.MethodPost, "/api/v1/note", map[string]interface{}{
		"activityId": activityID,
		"title":      "Site visit",
		"note":       "Met proponent on site",
	})
	require.Equal(t, fiber.StatusCreated, code, out)
	history := out["data"].(map[string]interface{})
	id := history["noteHistoryId"].(string)
	require.Len(t, history["notes"], 1)

	code, out = do(t, app, http.MethodPost, "/api/v1/note/"+id+"/note", map[string]interface{}{"note": "Follow-up call"})
	require.Equal(t, fiber.StatusCreated, code, out)
	assert.Equal(t, "Follow-up call", out["data"].(map[string]interface{})["note"])

	code, out = do(t, app, http.MethodPut, "/api/v1/note/"+id, map[string]interface{}{"title": "Site visit (2)", "note": "Escalated"})
	require.Equal(t, fiber.StatusOK, code, out)
	assert.Equal(t, "Site visit (2)", out["data"].(map[string]interface{})["title"])
	assert.Len(t, out["data"].(map[string]interface{})["notes"], 3)

	code, out = do(t, app, http.MethodGet, "/api/v1/note?activityId="+activityID, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, out["data"], 1)

	code, _ = do(t, app, http.MethodDelete, "/api/v1/note/"+id, nil)
	assert.Equal(t, fiber.StatusOK, code)

	code, out = do(t, app, http.MethodGet, "/api/v1/note?activityId="+activityID, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, out["data"])

	code, _ = do(t, app, http.MethodPost, "/api/v1/note/"+id+"/note", map[string]interface{}{"note": "too late"})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestNoteHistory_BadRequests(t *testing.T) {
	app, activityID := setupNotesTest(t)

	code, _ := do(t, app, http.MethodGet, "/api/v1/note", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/api/v1/note", map[string]interface{}{"activityId": activityID, "title": "No note"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/api/v1/note", map[string]interface{}{"activityId": activityID, "title": "t", "note": "n", "type": "Gossip"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodDelete, "/api/v1/note/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}
