package permits

import (
	"errors"

	permitsvc "pcns-backend/internal/application/permits"
	"pcns-backend/internal/interfaces/handlers/request"
	"pcns-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *permitsvc.Service
}

func (h *Handlers) Register(r fiber.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Delete("/note/:permitNoteId", h.DeleteNote)
	r.Get("/:permitId", h.Get)
	r.Put("/:permitId", h.Update)
	r.Post("/:permitId/note", h.AddNote)
	r.Get("/:permitId/note", h.ListNotes)
}

// POST /api/v1/permit
func (h *Handlers) Create(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	permit, err := h.Service.Create(c.Context(), body)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Permit created successfully", permit, nil)
}

// GET /api/v1/permit?activityId=
func (h *Handlers) List(c *fiber.Ctx) error {
	activityID := c.Query("activityId")
	if activityID == "" {
		return response.Error(c, "activityId is required", fiber.StatusBadRequest, nil)
	}
	permits, err := h.Service.List(c.Context(), activityID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Permits fetched successfully", permits, nil)
}

// GET /api/v1/permit/:permitId
func (h *Handlers) Get(c *fiber.Ctx) error {
	permit, err := h.Service.Get(c.Context(), c.Params("permitId"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Permit fetched successfully", permit, nil)
}

// PUT /api/v1/permit/:permitId
func (h *Handlers) Update(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	permit, err := h.Service.Update(c.Context(), c.Params("permitId"), body)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Permit updated successfully", permit, nil)
}

// POST /api/v1/permit/:permitId/note with { note }
func (h *Handlers) AddNote(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	note, err := h.Service.AddNote(c.Context(), c.Params("permitId"), request.String(body, "note"))
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Permit note added successfully", note, nil)
}

// GET /api/v1/permit/:permitId/note
func (h *Handlers) ListNotes(c *fiber.Ctx) error {
	notes, err := h.Service.ListNotes(c.Context(), c.Params("permitId"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Permit notes fetched successfully", notes, nil)
}

// DELETE /api/v1/permit/note/:permitNoteId
func (h *Handlers) DeleteNote(c *fiber.Ctx) error {
	if err := h.Service.DeleteNote(c.Context(), c.Params("permitNoteId")); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Permit note deleted successfully", nil, nil)
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, permitsvc.ErrNotFound), errors.Is(err, permitsvc.ErrNoteNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, permitsvc.ErrValidation):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return err
	}
}
