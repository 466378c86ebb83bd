package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReferenceCheckPending = "PENDING"
	ReferenceCheckPassed  = "PASSED"
	ReferenceCheckFailed  = "FAILED"
)

type Tenant struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	LandlordID           *uuid.UUID `gorm:"type:uuid;index" json:"landlordId"`
	FirstName            string     `gorm:"size:100" json:"firstName"`
	LastName             string     `gorm:"size:100" json:"lastName"`
	Phone                string     `gorm:"size:50" json:"phone"`
	DateOfBirth          *time.Time `json:"dateOfBirth"`
	EmploymentStatus     string     `gorm:"size:50" json:"employmentStatus"`
	AnnualIncome         *float64   `gorm:"type:decimal(12,2)" json:"annualIncome"`
	RightToRentCheckDate *time.Time `json:"rightToRentCheckDate"`
	RightToRentExpiry    *time.Time `json:"rightToRentExpiry"`
	ReferenceCheckStatus string     `gorm:"size:20;not null;default:'PENDING'" json:"referenceCheckStatus"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`

	User              *User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Landlord          *Landlord          `gorm:"foreignKey:LandlordID;constraint:OnDelete:SET NULL" json:"-"`
	TenancyAgreements []TenancyAgreement `gorm:"foreignKey:TenantID;constraint:OnDelete:SET NULL" json:"tenancyAgreements,omitempty"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	if t.ReferenceCheckStatus == "" {
		t.ReferenceCheckStatus = ReferenceCheckPending
	}
	return nil
}

func (t *Tenant) FullName() string {
	return joinName(t.FirstName, t.LastName)
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
