package dto

import (
	"time"

	"github.com/google/uuid"
)

// TenantSummary is one row of the landlord's tenant list.
type TenantSummary struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Status          string    `json:"status"`
	RentAmount      *float64  `json:"rentAmount"`
	PropertyAddress *string   `json:"propertyAddress"`
	UnitNumber      *string   `json:"unitNumber"`
}

type LeasedTenant struct {
	ID        uuid.UUID           `json:"id"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Email     string              `json:"email"`
	Phone     string              `json:"phone"`
	Leases    []LeasedTenantLease `json:"leases"`
}

type LeasedTenantLease struct {
	ID          uuid.UUID `json:"id"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Status      string    `json:"status"`
	MonthlyRent float64   `json:"monthlyRent"`
	UnitID      uuid.UUID `json:"unitId"`
	UnitNumber  *string   `json:"unitNumber"`
	PropertyID  uuid.UUID `json:"propertyId"`
	Address     string    `json:"address"`
}

type TenantStats struct {
	TotalTenants int     `json:"totalTenants"`
	ActiveLeases int     `json:"activeLeases"`
	TotalRent    float64 `json:"totalRent"`
}

type TenantSearchResult struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
}

type TenantDetail struct {
	ID                   uuid.UUID          `json:"id"`
	FirstName            string             `json:"firstName"`
	LastName             string             `json:"lastName"`
	Email                string             `json:"email"`
	Phone                string             `json:"phone"`
	DateOfBirth          *time.Time         `json:"dateOfBirth"`
	EmploymentStatus     string             `json:"employmentStatus"`
	AnnualIncome         *float64           `json:"annualIncome"`
	RightToRentCheckDate *time.Time         `json:"rightToRentCheckDate"`
	RightToRentExpiry    *time.Time         `json:"rightToRentExpiry"`
	ReferenceCheckStatus string             `json:"referenceCheckStatus"`
	Lease                *LeasedTenantLease `json:"lease"`
}

type TenantDetailResponse struct {
	Tenant *TenantDetail `json:"tenant"`
}

// TenantSelfDetails is what a tenant sees about their own tenancy.
type TenantSelfDetails struct {
	ID               uuid.UUID        `json:"id"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	DateOfBirth      *time.Time       `json:"dateOfBirth"`
	EmploymentStatus string           `json:"employmentStatus"`
	AnnualIncome     *float64         `json:"annualIncome"`
	Property         *TenancyProperty `json:"propertyDetails"`
	Landlord         *LandlordContact `json:"landlordDetails"`
}

type TenancyProperty struct {
	LeaseID        uuid.UUID `json:"leaseId"`
	UnitID         uuid.UUID `json:"unitId"`
	UnitNumber     *string   `json:"unitNumber"`
	Address        string    `json:"address"`
	RentAmount     float64   `json:"rentAmount"`
	LeaseStartDate time.Time `json:"leaseStartDate"`
	LeaseEndDate   time.Time `json:"leaseEndDate"`
}

type TenantUnit struct {
	ID              uuid.UUID `json:"id"`
	PropertyID      uuid.UUID `json:"propertyId"`
	UnitNumber      *string   `json:"unitNumber"`
	PropertyAddress string    `json:"propertyAddress"`
}

type LandlordContact struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	CompanyName     string  `json:"companyName,omitempty"`
	PropertyAddress string  `json:"propertyAddress,omitempty"`
	UnitNumber      *string `json:"unitNumber,omitempty"`
}

type TenantUnitResponse struct {
	Unit *TenantUnit `json:"unit"`
}

type LandlordContactResponse struct {
	LandlordDetails *LandlordContact `json:"landlordDetails"`
}

type TenantListResponse struct {
	Tenants []TenantSummary `json:"tenants"`
}

type LeasedTenantListResponse struct {
	Tenants []LeasedTenant `json:"tenants"`
}

type TenantSearchResponse struct {
	Tenants []TenantSearchResult `json:"tenants"`
}
