package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/export"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaseService struct {
	db *gorm.DB
}

func NewLeaseService(db *gorm.DB) *LeaseService {
	return &LeaseService{db: db}
}

// List returns every lease on the caller's properties with tenant, unit and
// property loaded.
func (s *LeaseService) List(ctx context.Context, p principal.Principal) ([]models.TenancyAgreement, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	leases := []models.TenancyAgreement{}
	err = s.db.WithContext(ctx).
		Scopes(OnLandlordUnits(landlord.ID)).
		Preload("Tenant").
		Preload("Unit.Property").
		Order("start_date DESC").
		Find(&leases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	return leases, nil
}

// ByProperty returns one property with its units and the leases on them.
func (s *LeaseService) ByProperty(ctx context.Context, p principal.Principal, propertyID uuid.UUID) (*models.Property, []models.TenancyAgreement, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, nil, err
	}

	db := s.db.WithContext(ctx)
	var property models.Property
	if err := db.Scopes(ForLandlord(landlord.ID)).Preload("Units", orderedUnits).First(&property, "id = ?", propertyID).Error; err != nil {
		return nil, nil, notFound(err, ErrPropertyNotFound, "property")
	}

	leases := []models.TenancyAgreement{}
	err = db.Where("unit_id IN (?)", db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Unit{}).Select("id").Where("property_id = ?", property.ID)).
		Preload("Tenant").
		Preload("Unit").
		Order("start_date DESC").
		Find(&leases).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list property leases: %w", err)
	}
	return &property, leases, nil
}

// Create adds an unassigned lease to one of the caller's units.
func (s *LeaseService) Create(ctx context.Context, p principal.Principal, req *dto.CreateLeaseRequest) (*models.TenancyAgreement, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	if req.UnitID == uuid.Nil {
		return nil, validationf("unitId is required")
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, validationf("endDate must be after startDate")
	}
	if req.MonthlyRent <= 0 {
		return nil, validationf("monthlyRent must be greater than zero")
	}
	if req.DepositAmount < 0 {
		return nil, validationf("depositAmount cannot be negative")
	}

	notice := models.DefaultNoticePeriodDays
	if req.NoticePeriodDays != nil {
		if *req.NoticePeriodDays < 0 {
			return nil, validationf("noticePeriodDays cannot be negative")
		}
		notice = *req.NoticePeriodDays
	}
	tenancyType := strings.ToUpper(strings.TrimSpace(req.TenancyType))
	if tenancyType == "" {
		tenancyType = models.TenancyTypeAST
	}
	if err := oneOf("tenancyType", tenancyType, tenancyTypes); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var unit models.Unit
	if err := db.Where("id IN (?)", ownedUnitIDs(db, landlord.ID)).First(&unit, "id = ?", req.UnitID).Error; err != nil {
		return nil, notFound(err, ErrUnitNotFound, "unit")
	}

	lease := models.TenancyAgreement{
		UnitID:               unit.ID,
		StartDate:            start,
		EndDate:              end,
		MonthlyRent:          req.MonthlyRent,
		DepositAmount:        req.DepositAmount,
		DepositProtectionRef: strings.TrimSpace(req.DepositProtectionRef),
		NoticePeriodDays:     notice,
		TenancyType:          tenancyType,
		Status:               models.LeaseStatusInactive,
		RenewalStatus:        models.RenewalPending,
	}
	if err := db.Create(&lease).Error; err != nil {
		return nil, fmt.Errorf("failed to create lease: %w", err)
	}

	lease.Unit = &unit
	return &lease, nil
}

var (
	tenancyTypes    = []string{models.TenancyTypeAST, models.TenancyTypeNonAST, models.TenancyTypeCompanyLet}
	renewalStatuses = []string{models.RenewalPending, models.RenewalRenewed, models.RenewalNotRenewing}
)

// Update changes the commercial terms of a lease. Tenant and status are only
// changed through Assign.
func (s *LeaseService) Update(ctx context.Context, p principal.Principal, id uuid.UUID, req *dto.UpdateLeaseRequest) (*models.TenancyAgreement, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	lease, err := s.owned(db, landlord.ID, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.StartDate != nil {
		if lease.StartDate, err = parseDate("startDate", *req.StartDate); err != nil {
			return nil, err
		}
		changes["start_date"] = lease.StartDate
	}
	if req.EndDate != nil {
		if lease.EndDate, err = parseDate("endDate", *req.EndDate); err != nil {
			return nil, err
		}
		changes["end_date"] = lease.EndDate
	}
	if !lease.EndDate.After(lease.StartDate) {
		return nil, validationf("endDate must be after startDate")
	}
	if req.MonthlyRent != nil {
		if *req.MonthlyRent <= 0 {
			return nil, validationf("monthlyRent must be greater than zero")
		}
		lease.MonthlyRent = *req.MonthlyRent
		changes["monthly_rent"] = lease.MonthlyRent
	}
	if req.DepositAmount != nil {
		if *req.DepositAmount < 0 {
			return nil, validationf("depositAmount cannot be negative")
		}
		lease.DepositAmount = *req.DepositAmount
		changes["deposit_amount"] = lease.DepositAmount
	}
	if req.DepositProtectionRef != nil {
		lease.DepositProtectionRef = strings.TrimSpace(*req.DepositProtectionRef)
		changes["deposit_protection_ref"] = lease.DepositProtectionRef
	}
	if req.NoticePeriodDays != nil {
		if *req.NoticePeriodDays < 0 {
			return nil, validationf("noticePeriodDays cannot be negative")
		}
		lease.NoticePeriodDays = *req.NoticePeriodDays
		changes["notice_period_days"] = lease.NoticePeriodDays
	}
	if req.TenancyType != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.TenancyType))
		if err := oneOf("tenancyType", v, tenancyTypes); err != nil {
			return nil, err
		}
		lease.TenancyType = v
		changes["tenancy_type"] = v
	}
	if req.RenewalStatus != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.RenewalStatus))
		if err := oneOf("renewalStatus", v, renewalStatuses); err != nil {
			return nil, err
		}
		lease.RenewalStatus = v
		changes["renewal_status"] = v
	}

	if len(changes) > 0 {
		if err := db.Model(&models.TenancyAgreement{}).Where("id = ?", lease.ID).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update lease: %w", err)
		}
	}
	return lease, nil
}

func (s *LeaseService) Delete(ctx context.Context, p principal.Principal, id uuid.UUID) error {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	lease, err := s.owned(db, landlord.ID, id)
	if err != nil {
		return err
	}
	if err := db.Delete(lease).Error; err != nil {
		return fmt.Errorf("failed to delete lease: %w", err)
	}
	return nil
}

// Assign attaches a tenant (status ACTIVE) or, with a nil tenantID, detaches
// the current one (status INACTIVE). Both columns change in one UPDATE. It
// does not check whether the tenant already holds another active lease.
func (s *LeaseService) Assign(ctx context.Context, p principal.Principal, id uuid.UUID, tenantID *uuid.UUID) (*models.TenancyAgreement, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	lease, err := s.owned(db, landlord.ID, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{
		"tenant_id": nil,
		"status":    models.LeaseStatusInactive,
	}
	action := "unassign"
	if tenantID != nil {
		var tenant models.Tenant
		if err := db.Select("id").First(&tenant, "id = ?", *tenantID).Error; err != nil {
			return nil, notFound(err, ErrTenantNotFound, "tenant")
		}
		changes["tenant_id"] = tenant.ID
		changes["status"] = models.LeaseStatusActive
		action = "assign"
	}

	if err := db.Model(&models.TenancyAgreement{}).Where("id = ?", lease.ID).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("failed to assign tenant to lease: %w", err)
	}
	metrics.LeaseAssignmentsTotal.WithLabelValues(action).Inc()

	var updated models.TenancyAgreement
	if err := db.Preload("Tenant").Preload("Unit").First(&updated, "id = ?", lease.ID).Error; err != nil {
		return nil, notFound(err, ErrLeaseNotFound, "lease")
	}
	return &updated, nil
}

// RentRoll renders every lease on the caller's properties as an XLSX workbook.
func (s *LeaseService) RentRoll(ctx context.Context, p principal.Principal) ([]byte, error) {
	leases, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	data, err := export.RentRoll(leases)
	if err != nil {
		return nil, fmt.Errorf("failed to build rent roll: %w", err)
	}
	return data, nil
}

func (s *LeaseService) owned(db *gorm.DB, landlordID, id uuid.UUID) (*models.TenancyAgreement, error) {
	var lease models.TenancyAgreement
	if err := db.Scopes(OnLandlordUnits(landlordID)).First(&lease, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrLeaseNotFound, "lease")
	}
	return &lease, nil
}
