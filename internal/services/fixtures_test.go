package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:         email,
		Name:          "Test User",
		Password:      "x",
		Role:          role,
		Status:        models.UserStatusActive,
		EmailVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedLandlord(t *testing.T, db *gorm.DB, email string) (principal.Principal, *models.Landlord) {
	t.Helper()
	user := seedUser(t, db, email, models.RoleLandlord)
	landlord := &models.Landlord{UserID: user.ID, FirstName: "Lena", LastName: "Lord", Phone: "0100"}
	require.NoError(t, db.Create(landlord).Error)
	return principal.Principal{UserID: user.ID, Email: email, Role: models.RoleLandlord}, landlord
}

func seedTenant(t *testing.T, db *gorm.DB, email, first, last string, landlordID *uuid.UUID) (principal.Principal, *models.Tenant) {
	t.Helper()
	user := seedUser(t, db, email, models.RoleTenant)
	tenant := &models.Tenant{UserID: user.ID, LandlordID: landlordID, FirstName: first, LastName: last}
	require.NoError(t, db.Create(tenant).Error)
	return principal.Principal{UserID: user.ID, Email: email, Role: models.RoleTenant}, tenant
}

func seedProperty(t *testing.T, db *gorm.DB, landlordID uuid.UUID, units int) *models.Property {
	t.Helper()
	property := &models.Property{
		LandlordID:   landlordID,
		AddressLine1: "1 High Street",
		CityTown:     "Leeds",
		Postcode:     "LS1 1AA",
	}
	require.NoError(t, db.Omit("Units").Create(property).Error)
	for i := 0; i < units; i++ {
		unit := models.Unit{PropertyID: property.ID, Bedrooms: i + 1, BaseRentPcm: 500}
		require.NoError(t, db.Create(&unit).Error)
		property.Units = append(property.Units, unit)
	}
	return property
}

func seedLease(t *testing.T, db *gorm.DB, unitID uuid.UUID, tenantID *uuid.UUID, rent float64) *models.TenancyAgreement {
	t.Helper()
	status := models.LeaseStatusInactive
	if tenantID != nil {
		status = models.LeaseStatusActive
	}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lease := &models.TenancyAgreement{
		UnitID:           unitID,
		TenantID:         tenantID,
		StartDate:        start,
		EndDate:          start.AddDate(1, 0, 0),
		MonthlyRent:      rent,
		NoticePeriodDays: models.DefaultNoticePeriodDays,
		TenancyType:      models.TenancyTypeAST,
		Status:           status,
		RenewalStatus:    models.RenewalPending,
	}
	require.NoError(t, db.Create(lease).Error)
	return lease
}
