package handlers

import (
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TicketHandler struct {
	ticketService *services.TicketService
}

func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

func (h *TicketHandler) Create(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ticket, err := h.ticketService.Create(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err, "Failed to create maintenance ticket")
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

func (h *TicketHandler) ListForTenant(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	tickets, err := h.ticketService.ListForTenant(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch tickets")
	}
	return c.JSON(dto.TicketListResponse{Tickets: tickets})
}

func (h *TicketHandler) ListForLandlord(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	tickets, err := h.ticketService.ListForLandlord(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to fetch tickets")
	}
	return c.JSON(dto.TicketListResponse{Tickets: tickets})
}

func (h *TicketHandler) Get(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid ticket id")
	}

	ticket, err := h.ticketService.Get(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err, "Failed to fetch ticket")
	}
	return c.JSON(dto.TicketResponse{Ticket: ticket})
}

func (h *TicketHandler) Respond(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid ticket id")
	}
	var req dto.RespondTicketRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ticket, err := h.ticketService.Respond(c.UserContext(), p, id, &req)
	if err != nil {
		return respondError(c, err, "Failed to respond to ticket")
	}
	return c.JSON(dto.TicketResponse{Ticket: ticket})
}
