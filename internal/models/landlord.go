package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Landlord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	FirstName   string    `gorm:"size:100" json:"firstName"`
	LastName    string    `gorm:"size:100" json:"lastName"`
	Phone       string    `gorm:"size:50" json:"phone"`
	CompanyName string    `gorm:"size:255" json:"companyName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Properties []Property `gorm:"foreignKey:LandlordID;constraint:OnDelete:CASCADE" json:"properties,omitempty"`
}

func (l *Landlord) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

func (l *Landlord) FullName() string {
	return joinName(l.FirstName, l.LastName)
}
