package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleLandlord = "LANDLORD"
	RoleTenant   = "TENANT"
)

const (
	UserStatusPendingVerification = "PENDING_VERIFICATION"
	UserStatusActive              = "ACTIVE"
)

// User is the login identity. Exactly one of Landlord or Tenant is attached
// depending on Role.
type User struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name              string    `gorm:"size:255" json:"name"`
	Password          string    `gorm:"not null" json:"-"`
	Role              string    `gorm:"size:20;not null;index" json:"role"`
	Status            string    `gorm:"size:30;not null" json:"status"`
	EmailVerified     bool      `gorm:"not null;default:false" json:"emailVerified"`
	VerificationToken *string   `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Landlord *Landlord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"landlord,omitempty"`
	Tenant   *Tenant   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"tenant,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (u *User) IsLandlord() bool { return u.Role == RoleLandlord }

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
