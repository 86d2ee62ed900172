// Package projects serves both project variants. Each variant gets its own Handlers
// bound to a projects.Service for that variant.
package projects

import (
	"errors"

	projsvc "pcns-backend/internal/application/projects"
	"pcns-backend/internal/dataaccess"
	"pcns-backend/internal/interfaces/handlers/request"
	"pcns-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *projsvc.Service
}

// Register mounts the project routes on r. Paths take the variant's ID or projectId
// interchangeably, as they are the same value.
func (h *Handlers) Register(r fiber.Router) {
	r.Post("/", h.Create)
	r.Put("/draft", h.SaveDraft)
	r.Get("/", h.List)
	r.Get("/:projectId", h.Get)
	r.Put("/:projectId", h.Update)
	r.Post("/:projectId/ats", h.LinkATSClient)
	r.Delete("/:projectId", h.Delete)
}

func (h *Handlers) label() string {
	if h.Service.Variant == dataaccess.ElectrificationProject {
		return "Electrification project"
	}
	return "Housing project"
}

// POST /api/v1/{housing,electrification}/project
func (h *Handlers) Create(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	project, err := h.Service.Create(c.Context(), body)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, h.label()+" created successfully", project, nil)
}

// PUT /api/v1/{housing,electrification}/project/draft
func (h *Handlers) SaveDraft(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	project, err := h.Service.SaveDraft(c.Context(), body)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, h.label()+" draft saved", project, nil)
}

// GET /api/v1/{housing,electrification}/project?assignedUserId=&applicationStatus=&intakeStatus=&search=&take=&skip=
func (h *Handlers) List(c *fiber.Ctx) error {
	take, skip := request.Page(c)
	projects, total, err := h.Service.List(c.Context(), projsvc.ListFilter{
		AssignedUserID:    c.Query("assignedUserId"),
		ApplicationStatus: c.Query("applicationStatus"),
		IntakeStatus:      c.Query("intakeStatus"),
		Search:            c.Query("search"),
		Take:              take,
		Skip:              skip,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.List(c, h.label()+"s fetched successfully", projects, response.Page{Total: total, Take: take, Skip: skip})
}

// GET /api/v1/{housing,electrification}/project/:projectId
func (h *Handlers) Get(c *fiber.Ctx) error {
	project, err := h.Service.Get(c.Context(), c.Params("projectId"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, h.label()+" fetched successfully", project, nil)
}

// PUT /api/v1/{housing,electrification}/project/:projectId
func (h *Handlers) Update(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	project, err := h.Service.Update(c.Context(), c.Params("projectId"), body)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, h.label()+" updated successfully", project, nil)
}

// POST /api/v1/{housing,electrification}/project/:projectId/ats with { atsClientId, atsEnquiryId }
func (h *Handlers) LinkATSClient(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	clientID, ok := request.Int(body, "atsClientId")
	if !ok {
		return response.Error(c, "atsClientId must be a number", fiber.StatusBadRequest, nil)
	}
	project, err := h.Service.LinkATSClient(c.Context(), c.Params("projectId"), clientID, request.String(body, "atsEnquiryId"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, h.label()+" linked to ATS client", project, nil)
}

// DELETE /api/v1/{housing,electrification}/project/:projectId
func (h *Handlers) Delete(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.Context(), c.Params("projectId")); err != nil {
		return fail(c, err)
	}
	return response.Success(c, h.label()+" deleted successfully", nil, nil)
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, projsvc.ErrNotFound):
		return response.Error(c, projsvc.ErrNotFound.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, projsvc.ErrValidation):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return err
	}
}
