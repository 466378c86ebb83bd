package handlers

import (
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// TenantHandler serves the landlord's view of tenants under /tenants and the
// tenant's own view under /tenant.
type TenantHandler struct {
	tenantService *services.TenantService
}

func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

func (h *TenantHandler) List(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	tenants, err := h.tenantService.List(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch tenants")
	}
	return c.JSON(dto.TenantListResponse{Tenants: tenants})
}

func (h *TenantHandler) Leased(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	tenants, err := h.tenantService.Leased(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch leased tenants")
	}
	return c.JSON(dto.LeasedTenantListResponse{Tenants: tenants})
}

func (h *TenantHandler) Stats(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.tenantService.Stats(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch tenant stats")
	}
	return c.JSON(stats)
}

func (h *TenantHandler) Search(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	tenants, err := h.tenantService.Search(c.UserContext(), p, c.Query("q"))
	if err != nil {
		return respondError(c, err, "Failed to search tenants")
	}
	return c.JSON(dto.TenantSearchResponse{Tenants: tenants})
}

func (h *TenantHandler) Detail(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid tenant id")
	}

	tenant, err := h.tenantService.Detail(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err, "Failed to fetch tenant")
	}
	return c.JSON(dto.TenantDetailResponse{Tenant: tenant})
}

func (h *TenantHandler) Details(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	details, err := h.tenantService.Details(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch tenant details")
	}
	return c.JSON(details)
}

func (h *TenantHandler) Unit(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	unit, err := h.tenantService.Unit(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch unit")
	}
	return c.JSON(dto.TenantUnitResponse{Unit: unit})
}

func (h *TenantHandler) Landlord(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	contact, err := h.tenantService.Landlord(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch landlord details")
	}
	return c.JSON(dto.LandlordContactResponse{LandlordDetails: contact})
}
