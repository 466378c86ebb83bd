package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var PropertyTypes = []string{"DETACHED", "SEMI_DETACHED", "TERRACED", "FLAT", "BUNGALOW", "OTHER"}

var Tenures = []string{"FREEHOLD", "LEASEHOLD"}

var FurnishedStatuses = []string{"FURNISHED", "PART_FURNISHED", "UNFURNISHED"}

const FurnishedStatusUnfurnished = "UNFURNISHED"

type Property struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LandlordID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"landlordId"`
	AddressLine1   string     `gorm:"size:255;not null" json:"addressLine1"`
	AddressLine2   string     `gorm:"size:255" json:"addressLine2"`
	CityTown       string     `gorm:"size:100;not null" json:"cityTown"`
	County         string     `gorm:"size:100" json:"county"`
	Postcode       string     `gorm:"size:20;not null;index" json:"postcode"`
	PurchaseDate   *time.Time `json:"purchaseDate"`
	PropertyType   string     `gorm:"size:30" json:"propertyType"`
	Tenure         string     `gorm:"size:20" json:"tenure"`
	CouncilTaxBand string     `gorm:"size:5" json:"councilTaxBand"`
	EPCRating      string     `gorm:"column:epc_rating;size:5" json:"epcRating"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	Landlord *Landlord `gorm:"foreignKey:LandlordID;constraint:OnDelete:CASCADE" json:"landlord,omitempty"`
	Units    []Unit    `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"units"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// FullAddress joins the non-empty address parts with commas.
func (p *Property) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, s := range []string{p.AddressLine1, p.AddressLine2, p.CityTown, p.County, p.Postcode} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

type Unit struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID          uuid.UUID `gorm:"type:uuid;not null;index" json:"propertyId"`
	UnitNumber          *string   `gorm:"size:50" json:"unitNumber"`
	SquareMetres        *float64  `gorm:"type:decimal(8,2)" json:"squareMetres"`
	Bedrooms            int       `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms           int       `gorm:"not null;default:0" json:"bathrooms"`
	BaseRentPcm         float64   `gorm:"type:decimal(10,2);not null;default:0" json:"baseRentPcm"`
	FurnishedStatus     string    `gorm:"size:20;not null;default:'UNFURNISHED'" json:"furnishedStatus"`
	HMOLicense          *string   `gorm:"column:hmo_license;size:100" json:"hmoLicense"`
	CouncilTaxReference *string   `gorm:"size:100" json:"councilTaxReference"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	if u.FurnishedStatus == "" {
		u.FurnishedStatus = FurnishedStatusUnfurnished
	}
	return nil
}

func (u *Unit) Label() string {
	if u.UnitNumber == nil {
		return ""
	}
	return *u.UnitNumber
}
