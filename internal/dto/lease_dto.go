package dto

import (
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/google/uuid"
)

type CreateLeaseRequest struct {
	UnitID               uuid.UUID `json:"unitId"`
	StartDate            string    `json:"startDate"`
	EndDate              string    `json:"endDate"`
	MonthlyRent          float64   `json:"monthlyRent"`
	DepositAmount        float64   `json:"depositAmount"`
	DepositProtectionRef string    `json:"depositProtectionRef"`
	NoticePeriodDays     *int      `json:"noticePeriodDays"`
	TenancyType          string    `json:"tenancyType"`
}

type UpdateLeaseRequest struct {
	StartDate            *string  `json:"startDate"`
	EndDate              *string  `json:"endDate"`
	MonthlyRent          *float64 `json:"monthlyRent"`
	DepositAmount        *float64 `json:"depositAmount"`
	DepositProtectionRef *string  `json:"depositProtectionRef"`
	NoticePeriodDays     *int     `json:"noticePeriodDays"`
	TenancyType          *string  `json:"tenancyType"`
	RenewalStatus        *string  `json:"renewalStatus"`
}

// AssignLeaseRequest attaches TenantID to the lease, or detaches the current
// tenant when TenantID is null or absent.
type AssignLeaseRequest struct {
	TenantID *uuid.UUID `json:"tenantId"`
}

type LeaseResponse struct {
	Lease *models.TenancyAgreement `json:"lease"`
}

type LeaseListResponse struct {
	Leases []models.TenancyAgreement `json:"leases"`
}

type PropertyLeasesResponse struct {
	Property *models.Property         `json:"property"`
	Leases   []models.TenancyAgreement `json:"leases"`
}
