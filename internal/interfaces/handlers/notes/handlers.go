package notes

import (
	"errors"

	notesvc "pcns-backend/internal/application/notes"
	"pcns-backend/internal/interfaces/handlers/request"
	"pcns-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *notesvc.Service
}

func (h *Handlers) Register(r fiber.Router) {
	r.Post("/", h.CreateHistory)
	r.Get("/", h.ListHistory)
	r.Put("/:noteHistoryId", h.UpdateHistory)
	r.Post("/:noteHistoryId/note", h.AddNote)
	r.Delete("/:noteHistoryId", h.DeleteHistory)
}

// POST /api/v1/note with the history fields plus { note }
func (h *Handlers) CreateHistory(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	note := request.String(body, "note")
	history, err := h.Service.CreateHistory(c.Context(), body, note)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Note history created successfully", history, nil)
}

// GET /api/v1/note?activityId=
func (h *Handlers) ListHistory(c *fiber.Ctx) error {
	activityID := c.Query("activityId")
	if activityID == "" {
		return response.Error(c, "activityId is required", fiber.StatusBadRequest, nil)
	}
	histories, err := h.Service.ListHistory(c.Context(), activityID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Note histories fetched successfully", histories, nil)
}

// PUT /api/v1/note/:noteHistoryId with changed fields and an optional { note }
func (h *Handlers) UpdateHistory(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	note := request.String(body, "note")
	history, err := h.Service.UpdateHistory(c.Context(), c.Params("noteHistoryId"), body, note)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Note history updated successfully", history, nil)
}

// POST /api/v1/note/:noteHistoryId/note with { note }
func (h *Handlers) AddNote(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	note, err := h.Service.AddNote(c.Context(), c.Params("noteHistoryId"), request.String(body, "note"))
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Note added successfully", note, nil)
}

// DELETE /api/v1/note/:noteHistoryId
func (h *Handlers) DeleteHistory(c *fiber.Ctx) error {
	if err := h.Service.DeleteHistory(c.Context(), c.Params("noteHistoryId")); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Note history deleted successfully", nil, nil)
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, notesvc.ErrNotFound):
		return response.Error(c, notesvc.ErrNotFound.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, notesvc.ErrValidation):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return err
	}
}
