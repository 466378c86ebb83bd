package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var DocumentCategories = []string{
	"TENANCY_AGREEMENT", "INVENTORY", "GAS_SAFETY", "EPC", "EICR",
	"INSURANCE", "INVOICE", "IDENTITY", "OTHER",
}

// Document is metadata for a file held in blob storage.
type Document struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	URL         string     `gorm:"column:url;type:text;not null" json:"url"`
	StorageKey  string     `gorm:"size:512;not null" json:"-"`
	FileName    string     `gorm:"size:255;not null" json:"fileName"`
	FileType    string     `gorm:"size:100" json:"fileType"`
	FileSize    int64      `json:"fileSize"`
	Category    string     `gorm:"size:30;not null;index" json:"category"`
	Description *string    `gorm:"type:text" json:"description"`
	PropertyID  *uuid.UUID `gorm:"type:uuid;index" json:"propertyId"`
	UnitID      *uuid.UUID `gorm:"type:uuid;index" json:"unitId"`
	IsArchived  bool       `gorm:"not null;default:false" json:"isArchived"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Property *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:SET NULL" json:"-"`
	Unit     *Unit     `gorm:"foreignKey:UnitID;constraint:OnDelete:SET NULL" json:"-"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

func IsDocumentCategory(s string) bool { return contains(DocumentCategories, s) }
