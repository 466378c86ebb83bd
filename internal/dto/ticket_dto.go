package dto

import (
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/google/uuid"
)

// CreateTicketRequest raises a ticket. UnitID defaults to the unit of the
// tenant's active lease. PropertyID is accepted for client compatibility and
// ignored.
type CreateTicketRequest struct {
	UnitID             *uuid.UUID `json:"unitId"`
	PropertyID         *string    `json:"propertyId"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Priority           string     `json:"priority"`
	IsEmergency        bool       `json:"isEmergency"`
	AccessInstructions *string    `json:"accessInstructions"`
	PreferredContact   string     `json:"preferredContact"`
	AvailableDates     []string   `json:"availableDates"`
}

type RespondTicketRequest struct {
	Message string  `json:"message"`
	Status  *string `json:"status"`
}

type TicketResponse struct {
	Ticket *models.MaintenanceTicket `json:"ticket"`
}

type TicketListResponse struct {
	Tickets []models.MaintenanceTicket `json:"tickets"`
}
