package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/export"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LeaseHandler struct {
	leaseService *services.LeaseService
}

func NewLeaseHandler(leaseService *services.LeaseService) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService}
}

func (h *LeaseHandler) List(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	leases, err := h.leaseService.List(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch leases")
	}
	return c.JSON(dto.LeaseListResponse{Leases: leases})
}

func (h *LeaseHandler) ByProperty(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid property id")
	}

	property, leases, err := h.leaseService.ByProperty(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err, "Failed to fetch property leases")
	}
	return c.JSON(dto.PropertyLeasesResponse{Property: property, Leases: leases})
}

func (h *LeaseHandler) Create(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateLeaseRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	lease, err := h.leaseService.Create(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err, "Failed to create lease")
	}
	return c.Status(fiber.StatusCreated).JSON(lease)
}

func (h *LeaseHandler) Update(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid lease id")
	}
	var req dto.UpdateLeaseRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	lease, err := h.leaseService.Update(c.UserContext(), p, id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update lease")
	}
	return c.JSON(lease)
}

func (h *LeaseHandler) Delete(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid lease id")
	}

	if err := h.leaseService.Delete(c.UserContext(), p, id); err != nil {
		return respondError(c, err, "Failed to delete lease")
	}
	return c.JSON(dto.MessageResponse{Message: "Lease deleted successfully"})
}

// Assign attaches the tenant in the body to the lease, or detaches the current
// tenant when tenantId is null or absent.
func (h *LeaseHandler) Assign(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid lease id")
	}
	var req dto.AssignLeaseRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	lease, err := h.leaseService.Assign(c.UserContext(), p, id, req.TenantID)
	if err != nil {
		return respondError(c, err, "Failed to assign tenant")
	}
	return c.JSON(lease)
}

func (h *LeaseHandler) Export(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	data, err := h.leaseService.RentRoll(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to export rent roll")
	}
	c.Attachment(export.FileName(time.Now()))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(data)
}
