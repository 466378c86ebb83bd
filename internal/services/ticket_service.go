package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

func responsesByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// Create raises a ticket against a unit on the tenant's active lease. When
// no unit is given the active lease's unit is used.
func (s *TicketService) Create(ctx context.Context, p principal.Principal, req *dto.CreateTicketRequest) (*models.MaintenanceTicket, error) {
	tenant, err := tenantFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" {
		return nil, validationf("title is required")
	}
	if description == "" {
		return nil, validationf("description is required")
	}
	priority := strings.ToUpper(strings.TrimSpace(req.Priority))
	if priority == "" {
		priority = models.PriorityRoutine
	}
	if err := oneOf("priority", priority, models.TicketPriorities); err != nil {
		return nil, err
	}
	contact := strings.ToUpper(strings.TrimSpace(req.PreferredContact))
	if err := oneOf("preferredContact", contact, models.ContactMethods); err != nil {
		return nil, err
	}

	dates := make(datatypes.JSONSlice[time.Time], 0, len(req.AvailableDates))
	for i, raw := range req.AvailableDates {
		d, err := parseDate(fmt.Sprintf("availableDates[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	db := s.db.WithContext(ctx)
	var unitID uuid.UUID
	if req.UnitID == nil {
		lease, err := activeLease(ctx, s.db, tenant.ID)
		if err != nil {
			return nil, err
		}
		unitID = lease.UnitID
	} else {
		var count int64
		err := db.Model(&models.TenancyAgreement{}).
			Where("tenant_id = ? AND unit_id = ? AND status = ?", tenant.ID, *req.UnitID, models.LeaseStatusActive).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check lease: %w", err)
		}
		if count == 0 {
			return nil, ErrUnitNotLeased
		}
		unitID = *req.UnitID
	}

	ticket := models.MaintenanceTicket{
		TenantID:           tenant.ID,
		UnitID:             unitID,
		Title:              title,
		Description:        description,
		Priority:           priority,
		Status:             models.TicketStatusNew,
		IsEmergency:        req.IsEmergency || priority == models.PriorityEmergency,
		AccessInstructions: blankToNil(req.AccessInstructions),
		PreferredContact:   contact,
		AvailableDates:     dates,
	}
	if err := db.Create(&ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create maintenance ticket: %w", err)
	}
	metrics.TicketEventsTotal.WithLabelValues("created").Inc()

	return s.load(db, ticket.ID)
}

// ListForTenant returns the caller's tickets with responses, newest first.
func (s *TicketService) ListForTenant(ctx context.Context, p principal.Principal) ([]models.MaintenanceTicket, error) {
	tenant, err := tenantFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	tickets := []models.MaintenanceTicket{}
	err = s.db.WithContext(ctx).
		Where("tenant_id = ?", tenant.ID).
		Preload("Unit.Property").
		Preload("Responses", responsesByCreation).
		Preload("Responses.Author").
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance tickets: %w", err)
	}
	return tickets, nil
}

// ListForLandlord returns tickets on the caller's properties, newest first.
func (s *TicketService) ListForLandlord(ctx context.Context, p principal.Principal) ([]models.MaintenanceTicket, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	tickets := []models.MaintenanceTicket{}
	err = s.db.WithContext(ctx).
		Scopes(OnLandlordUnits(landlord.ID)).
		Preload("Tenant").
		Preload("Unit.Property").
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance tickets: %w", err)
	}
	return tickets, nil
}

// Get returns a ticket the caller is party to, with responses in creation
// order.
func (s *TicketService) Get(ctx context.Context, p principal.Principal, id uuid.UUID) (*models.MaintenanceTicket, error) {
	db := s.db.WithContext(ctx)
	if _, _, err := s.authorize(ctx, db, p, id); err != nil {
		return nil, err
	}
	return s.load(db, id)
}

// Respond appends a response and, when status is given, overwrites the ticket
// status, in one transaction. Any valid status may follow any other, whichever
// party sends it.
func (s *TicketService) Respond(ctx context.Context, p principal.Principal, id uuid.UUID, req *dto.RespondTicketRequest) (*models.MaintenanceTicket, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, validationf("message is required")
	}
	var status string
	if req.Status != nil {
		status = strings.ToUpper(strings.TrimSpace(*req.Status))
		if !models.IsTicketStatus(status) {
			return nil, validationf("status must be one of %s", strings.Join(models.TicketStatuses, ", "))
		}
	}

	statusChanged := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, isLandlord, err := s.authorize(ctx, tx, p, id)
		if err != nil {
			return err
		}

		response := models.TicketResponse{
			TicketID:   ticket.ID,
			AuthorID:   p.UserID,
			Message:    message,
			IsLandlord: isLandlord,
		}
		if err := tx.Create(&response).Error; err != nil {
			return fmt.Errorf("failed to create ticket response: %w", err)
		}

		if status != "" {
			if err := tx.Model(&models.MaintenanceTicket{}).Where("id = ?", ticket.ID).
				Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error; err != nil {
				return fmt.Errorf("failed to update ticket status: %w", err)
			}
			statusChanged = status != ticket.Status
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TicketEventsTotal.WithLabelValues("responded").Inc()
	if statusChanged {
		metrics.TicketEventsTotal.WithLabelValues("status_changed").Inc()
	}
	return s.load(s.db.WithContext(ctx), id)
}

// authorize loads the ticket when the caller is its tenant or owns its unit.
// Tickets the caller cannot see are reported as not found.
func (s *TicketService) authorize(ctx context.Context, db *gorm.DB, p principal.Principal, id uuid.UUID) (*models.MaintenanceTicket, bool, error) {
	q := db.Model(&models.MaintenanceTicket{})
	isLandlord := p.IsLandlord()
	switch {
	case isLandlord:
		landlord, err := landlordFor(ctx, db, p)
		if err != nil {
			return nil, false, err
		}
		q = q.Scopes(OnLandlordUnits(landlord.ID))
	case p.IsTenant():
		tenant, err := tenantFor(ctx, db, p)
		if err != nil {
			return nil, false, err
		}
		q = q.Where("tenant_id = ?", tenant.ID)
	default:
		return nil, false, ErrWrongRole
	}

	var ticket models.MaintenanceTicket
	if err := q.First(&ticket, "id = ?", id).Error; err != nil {
		return nil, false, notFound(err, ErrTicketNotFound, "ticket")
	}
	return &ticket, isLandlord, nil
}

func (s *TicketService) load(db *gorm.DB, id uuid.UUID) (*models.MaintenanceTicket, error) {
	var ticket models.MaintenanceTicket
	err := db.Preload("Tenant").
		Preload("Unit.Property").
		Preload("Responses", responsesByCreation).
		Preload("Responses.Author").
		First(&ticket, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrTicketNotFound, "ticket")
	}
	return &ticket, nil
}
