package handlers

import (
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
}

func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

func (h *PropertyHandler) List(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	properties, err := h.propertyService.List(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch properties")
	}
	return c.JSON(dto.PropertyListResponse{Properties: properties})
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreatePropertyRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	property, err := h.propertyService.Create(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err, "Failed to create property")
	}
	return c.Status(fiber.StatusCreated).JSON(property)
}

func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid property id")
	}

	property, err := h.propertyService.Get(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err, "Failed to fetch property")
	}
	return c.JSON(dto.PropertyResponse{Property: property})
}

func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid property id")
	}
	var req dto.UpdatePropertyRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	property, err := h.propertyService.Update(c.UserContext(), p, id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update property")
	}
	return c.JSON(property)
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid property id")
	}

	if err := h.propertyService.Delete(c.UserContext(), p, id); err != nil {
		return respondError(c, err, "Failed to delete property")
	}
	return c.JSON(dto.MessageResponse{Message: "Property deleted successfully"})
}
