package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ownedUnitIDs selects the ids of every unit on the landlord's properties.
func ownedUnitIDs(db *gorm.DB, landlordID uuid.UUID) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Unit{}).
		Select("units.id").
		Joins("JOIN properties ON properties.id = units.property_id").
		Where("properties.landlord_id = ?", landlordID)
}

// OnLandlordUnits returns a GORM scope that keeps rows whose unit_id is on one
// of the landlord's properties.
func OnLandlordUnits(landlordID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("unit_id IN (?)", ownedUnitIDs(db, landlordID))
	}
}

// ForLandlord returns a GORM scope that filters properties by owner.
func ForLandlord(landlordID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("landlord_id = ?", landlordID)
	}
}

func landlordFor(ctx context.Context, db *gorm.DB, p principal.Principal) (*models.Landlord, error) {
	if !p.IsLandlord() {
		return nil, ErrWrongRole
	}
	var landlord models.Landlord
	if err := db.WithContext(ctx).Where("user_id = ?", p.UserID).First(&landlord).Error; err != nil {
		return nil, notFound(err, ErrLandlordNotFound, "landlord")
	}
	return &landlord, nil
}

func tenantFor(ctx context.Context, db *gorm.DB, p principal.Principal) (*models.Tenant, error) {
	if !p.IsTenant() {
		return nil, ErrWrongRole
	}
	var tenant models.Tenant
	if err := db.WithContext(ctx).Preload("User").Where("user_id = ?", p.UserID).First(&tenant).Error; err != nil {
		return nil, notFound(err, ErrTenantNotFound, "tenant")
	}
	return &tenant, nil
}

// activeLease is the most recent ACTIVE agreement for the tenant, with its
// unit, property and landlord loaded.
func activeLease(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (*models.TenancyAgreement, error) {
	var lease models.TenancyAgreement
	err := db.WithContext(ctx).
		Preload("Unit.Property.Landlord.User").
		Where("tenant_id = ? AND status = ?", tenantID, models.LeaseStatusActive).
		Order("start_date DESC").
		First(&lease).Error
	if err != nil {
		return nil, notFound(err, ErrNoActiveLease, "active lease")
	}
	return &lease, nil
}

// notFound maps gorm.ErrRecordNotFound to nf and wraps anything else.
func notFound(err, nf error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nf
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationf("%s must be a date (YYYY-MM-DD)", field)
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func oneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if a == value {
			return nil
		}
	}
	return validationf("%s must be one of %s", field, strings.Join(allowed, ", "))
}

func strPtr(s string) *string { return &s }
