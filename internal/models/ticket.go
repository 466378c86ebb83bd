package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TicketStatusNew        = "NEW"
	TicketStatusInProgress = "IN_PROGRESS"
	TicketStatusResolved   = "RESOLVED"
	TicketStatusClosed     = "CLOSED"
)

var TicketStatuses = []string{TicketStatusNew, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed}

const (
	PriorityRoutine   = "ROUTINE"
	PriorityUrgent    = "URGENT"
	PriorityEmergency = "EMERGENCY"
)

var TicketPriorities = []string{PriorityRoutine, PriorityUrgent, PriorityEmergency}

var ContactMethods = []string{"EMAIL", "PHONE", "SMS"}

type MaintenanceTicket struct {
	ID                 uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID           uuid.UUID                     `gorm:"type:uuid;not null;index" json:"tenantId"`
	UnitID             uuid.UUID                     `gorm:"type:uuid;not null;index" json:"unitId"`
	Title              string                        `gorm:"size:200;not null" json:"title"`
	Description        string                        `gorm:"type:text;not null" json:"description"`
	Priority           string                        `gorm:"size:20;not null;default:'ROUTINE';index" json:"priority"`
	Status             string                        `gorm:"size:20;not null;default:'NEW';index" json:"status"`
	IsEmergency        bool                          `gorm:"not null;default:false" json:"isEmergency"`
	AccessInstructions *string                       `gorm:"type:text" json:"accessInstructions"`
	PreferredContact   string                        `gorm:"size:20;not null" json:"preferredContact"`
	AvailableDates     datatypes.JSONSlice[time.Time] `json:"availableDates"`
	CreatedAt          time.Time                     `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time                     `json:"updatedAt"`

	Tenant    *Tenant          `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"tenant,omitempty"`
	Unit      *Unit            `gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE" json:"unit,omitempty"`
	Responses []TicketResponse `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"ticketResponses"`
}

func (t *MaintenanceTicket) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// TicketResponse is an append-only message on a ticket. Rows are never updated.
type TicketResponse struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TicketID   uuid.UUID `gorm:"type:uuid;not null;index:idx_ticket_responses_ticket_created,priority:1" json:"ticketId"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"authorId"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsLandlord bool      `gorm:"not null;default:false" json:"isLandlord"`
	CreatedAt  time.Time `gorm:"index:idx_ticket_responses_ticket_created,priority:2" json:"createdAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (r *TicketResponse) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func IsTicketStatus(s string) bool { return contains(TicketStatuses, s) }

func IsTicketPriority(s string) bool { return contains(TicketPriorities, s) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
