package dto

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/google/uuid"
)

// UnitInput describes a unit inside a property create or update. An empty ID,
// or one carrying the client's "temp-" prefix, means the unit is new.
type UnitInput struct {
	ID                  string   `json:"id,omitempty"`
	UnitNumber          *string  `json:"unitNumber"`
	SquareMetres        *float64 `json:"squareMetres"`
	Bedrooms            int      `json:"bedrooms"`
	Bathrooms           int      `json:"bathrooms"`
	BaseRentPcm         float64  `json:"baseRentPcm"`
	FurnishedStatus     string   `json:"furnishedStatus"`
	HMOLicense          *string  `json:"hmoLicense"`
	CouncilTaxReference *string  `json:"councilTaxReference"`
}

func (u UnitInput) IsNew() bool {
	return u.ID == "" || strings.HasPrefix(u.ID, "temp-")
}

type CreatePropertyRequest struct {
	AddressLine1   string      `json:"addressLine1"`
	AddressLine2   string      `json:"addressLine2"`
	CityTown       string      `json:"cityTown"`
	County         string      `json:"county"`
	Postcode       string      `json:"postcode"`
	PurchaseDate   string      `json:"purchaseDate"`
	PropertyType   string      `json:"propertyType"`
	Tenure         string      `json:"tenure"`
	CouncilTaxBand string      `json:"councilTaxBand"`
	EPCRating      string      `json:"epcRating"`
	Units          []UnitInput `json:"units"`
}

// UpdatePropertyRequest leaves nil fields untouched. Units without an ID are
// created, units with an ID are updated, and DeletedUnitIDs are removed.
type UpdatePropertyRequest struct {
	AddressLine1   *string     `json:"addressLine1"`
	AddressLine2   *string     `json:"addressLine2"`
	CityTown       *string     `json:"cityTown"`
	County         *string     `json:"county"`
	Postcode       *string     `json:"postcode"`
	PurchaseDate   *string     `json:"purchaseDate"`
	PropertyType   *string     `json:"propertyType"`
	Tenure         *string     `json:"tenure"`
	CouncilTaxBand *string     `json:"councilTaxBand"`
	EPCRating      *string     `json:"epcRating"`
	Units          []UnitInput `json:"units"`
	DeletedUnitIDs []uuid.UUID `json:"deletedUnitIds"`
}

type PropertyResponse struct {
	Property *models.Property `json:"property"`
}

type PropertyListResponse struct {
	Properties []models.Property `json:"properties"`
}
