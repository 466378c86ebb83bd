package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeaseStatusInactive   = "INACTIVE"
	LeaseStatusActive     = "ACTIVE"
	LeaseStatusExpired    = "EXPIRED"
	LeaseStatusTerminated = "TERMINATED"
)

const (
	TenancyTypeAST        = "AST"
	TenancyTypeNonAST     = "NON_AST"
	TenancyTypeCompanyLet = "COMPANY_LET"
)

const (
	RenewalPending     = "PENDING_RENEWAL"
	RenewalRenewed     = "RENEWED"
	RenewalNotRenewing = "NOT_RENEWING"
)

const DefaultNoticePeriodDays = 30

// TenancyAgreement is a lease on a single unit. Status is ACTIVE exactly when a
// tenant is attached; both columns are only ever written together by assignment.
type TenancyAgreement struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID               uuid.UUID  `gorm:"type:uuid;not null;index" json:"unitId"`
	TenantID             *uuid.UUID `gorm:"type:uuid;index" json:"tenantId"`
	StartDate            time.Time  `gorm:"not null" json:"startDate"`
	EndDate              time.Time  `gorm:"not null" json:"endDate"`
	MonthlyRent          float64    `gorm:"type:decimal(10,2);not null" json:"monthlyRent"`
	DepositAmount        float64    `gorm:"type:decimal(10,2);not null;default:0" json:"depositAmount"`
	DepositProtectionRef string     `gorm:"size:100" json:"depositProtectionRef"`
	NoticePeriodDays     int        `gorm:"not null;default:30" json:"noticePeriodDays"`
	TenancyType          string     `gorm:"size:20;not null;default:'AST'" json:"tenancyType"`
	Status               string     `gorm:"size:20;not null;default:'INACTIVE';index" json:"status"`
	RenewalStatus        string     `gorm:"size:20;not null;default:'PENDING_RENEWAL'" json:"renewalStatus"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`

	Unit   *Unit   `gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE" json:"unit,omitempty"`
	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:SET NULL" json:"tenant,omitempty"`
}

func (TenancyAgreement) TableName() string {
	return "tenancy_agreements"
}

func (a *TenancyAgreement) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (a *TenancyAgreement) IsActive() bool { return a.Status == LeaseStatusActive }
