package enquiries

import (
	"errors"

	enqsvc "pcns-backend/internal/application/enquiries"
	"pcns-backend/internal/interfaces/handlers/request"
	"pcns-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *enqsvc.Service
}

// Register mounts the enquiry routes on r.
func (h *Handlers) Register(r fiber.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/:enquiryId", h.Get)
	r.Put("/:enquiryId", h.Update)
	r.Post("/:enquiryId/ats", h.LinkATSClient)
	r.Delete("/:enquiryId", h.Delete)
}

// POST /api/v1/enquiry
func (h *Handlers) Create(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	enquiry, err := h.Service.Create(c.Context(), body)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Enquiry created successfully", enquiry, nil)
}

// GET /api/v1/enquiry?assignedUserId=&status=&search=&take=&skip=
func (h *Handlers) List(c *fiber.Ctx) error {
	take, skip := request.Page(c)
	enquiries, total, err := h.Service.List(c.Context(), enqsvc.ListFilter{
		AssignedUserID: c.Query("assignedUserId"),
		Status:         c.Query("status"),
		Search:         c.Query("search"),
		Take:           take,
		Skip:           skip,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.List(c, "Enquiries fetched successfully", enquiries, response.Page{Total: total, Take: take, Skip: skip})
}

// GET /api/v1/enquiry/:enquiryId
func (h *Handlers) Get(c *fiber.Ctx) error {
	enquiry, err := h.Service.Get(c.Context(), c.Params("enquiryId"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Enquiry fetched successfully", enquiry, nil)
}

// PUT /api/v1/enquiry/:enquiryId
func (h *Handlers) Update(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	enquiry, err := h.Service.Update(c.Context(), c.Params("enquiryId"), body)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Enquiry updated successfully", enquiry, nil)
}

// POST /api/v1/enquiry/:enquiryId/ats with { atsClientId, atsEnquiryId }
func (h *Handlers) LinkATSClient(c *fiber.Ctx) error {
	body, err := request.Body(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	clientID, ok := request.Int(body, "atsClientId")
	if !ok {
		return response.Error(c, "atsClientId must be a number", fiber.StatusBadRequest, nil)
	}
	enquiry, err := h.Service.LinkATSClient(c.Context(), c.Params("enquiryId"), clientID, request.String(body, "atsEnquiryId"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Enquiry linked to ATS client", enquiry, nil)
}

// DELETE /api/v1/enquiry/:enquiryId
func (h *Handlers) Delete(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.Context(), c.Params("enquiryId")); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Enquiry deleted successfully", nil, nil)
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, enqsvc.ErrNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, enqsvc.ErrValidation):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return err
	}
}
