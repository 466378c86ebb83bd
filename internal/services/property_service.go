package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyService struct {
	db *gorm.DB
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{db: db}
}

func orderedUnits(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// List returns the caller's properties with units, newest first.
func (s *PropertyService) List(ctx context.Context, p principal.Principal) ([]models.Property, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	properties := []models.Property{}
	err = s.db.WithContext(ctx).
		Scopes(ForLandlord(landlord.ID)).
		Preload("Units", orderedUnits).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (s *PropertyService) Get(ctx context.Context, p principal.Principal, id uuid.UUID) (*models.Property, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}
	return s.load(s.db.WithContext(ctx), landlord.ID, id)
}

func (s *PropertyService) load(db *gorm.DB, landlordID, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := db.Scopes(ForLandlord(landlordID)).
		Preload("Units", orderedUnits).
		First(&property, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrPropertyNotFound, "property")
	}
	return &property, nil
}

// Create stores the property and its units together.
func (s *PropertyService) Create(ctx context.Context, p principal.Principal, req *dto.CreatePropertyRequest) (*models.Property, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	property := models.Property{LandlordID: landlord.ID}
	if err := applyPropertyFields(&property, propertyFields{
		AddressLine1:   &req.AddressLine1,
		AddressLine2:   &req.AddressLine2,
		CityTown:       &req.CityTown,
		County:         &req.County,
		Postcode:       &req.Postcode,
		PurchaseDate:   &req.PurchaseDate,
		PropertyType:   &req.PropertyType,
		Tenure:         &req.Tenure,
		CouncilTaxBand: &req.CouncilTaxBand,
		EPCRating:      &req.EPCRating,
	}); err != nil {
		return nil, err
	}

	units := make([]models.Unit, 0, len(req.Units))
	for i, in := range req.Units {
		var unit models.Unit
		if err := applyUnitInput(&unit, in, i); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&property).Error; err != nil {
			return fmt.Errorf("failed to create property: %w", err)
		}
		for i := range units {
			units[i].PropertyID = property.ID
		}
		if len(units) > 0 {
			if err := tx.Create(&units).Error; err != nil {
				return fmt.Errorf("failed to create units: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	property.Units = units
	return &property, nil
}

// Update patches property fields and reconciles units: DeletedUnitIDs are
// removed, units with an ID are updated, the rest are created.
func (s *PropertyService) Update(ctx context.Context, p principal.Principal, id uuid.UUID, req *dto.UpdatePropertyRequest) (*models.Property, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	var result *models.Property
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		property, err := s.load(tx, landlord.ID, id)
		if err != nil {
			return err
		}

		if err := applyPropertyFields(property, propertyFields{
			AddressLine1:   req.AddressLine1,
			AddressLine2:   req.AddressLine2,
			CityTown:       req.CityTown,
			County:         req.County,
			Postcode:       req.Postcode,
			PurchaseDate:   req.PurchaseDate,
			PropertyType:   req.PropertyType,
			Tenure:         req.Tenure,
			CouncilTaxBand: req.CouncilTaxBand,
			EPCRating:      req.EPCRating,
		}); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(property).Error; err != nil {
			return fmt.Errorf("failed to update property: %w", err)
		}

		deleted := make(map[uuid.UUID]bool, len(req.DeletedUnitIDs))
		for _, unitID := range req.DeletedUnitIDs {
			deleted[unitID] = true
		}
		if err := deleteUnits(tx, property.ID, req.DeletedUnitIDs); err != nil {
			return err
		}

		existing := make(map[uuid.UUID]*models.Unit, len(property.Units))
		for i := range property.Units {
			existing[property.Units[i].ID] = &property.Units[i]
		}

		for i, in := range req.Units {
			if in.IsNew() {
				unit := models.Unit{PropertyID: property.ID}
				if err := applyUnitInput(&unit, in, i); err != nil {
					return err
				}
				if err := tx.Create(&unit).Error; err != nil {
					return fmt.Errorf("failed to create unit: %w", err)
				}
				continue
			}

			unitID, err := uuid.Parse(in.ID)
			if err != nil {
				return validationf("units[%d].id is invalid", i)
			}
			if deleted[unitID] {
				continue
			}
			unit, ok := existing[unitID]
			if !ok {
				return ErrUnitNotFound
			}
			if err := applyUnitInput(unit, in, i); err != nil {
				return err
			}
			if err := tx.Omit(clause.Associations).Save(unit).Error; err != nil {
				return fmt.Errorf("failed to update unit: %w", err)
			}
		}

		result, err = s.load(tx, landlord.ID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the property, its units and everything that hangs off those
// units in one transaction. Documents keep their rows but lose the link.
func (s *PropertyService) Delete(ctx context.Context, p principal.Principal, id uuid.UUID) error {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.Scopes(ForLandlord(landlord.ID)).First(&property, "id = ?", id).Error; err != nil {
			return notFound(err, ErrPropertyNotFound, "property")
		}

		var unitIDs []uuid.UUID
		if err := tx.Model(&models.Unit{}).Where("property_id = ?", property.ID).Pluck("id", &unitIDs).Error; err != nil {
			return fmt.Errorf("failed to load units: %w", err)
		}
		if err := deleteUnits(tx, property.ID, unitIDs); err != nil {
			return err
		}

		if err := tx.Model(&models.Document{}).Where("property_id = ?", property.ID).
			Update("property_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink documents: %w", err)
		}
		if err := tx.Delete(&property).Error; err != nil {
			return fmt.Errorf("failed to delete property: %w", err)
		}
		return nil
	})
}

// deleteUnits removes units of one property with their tickets, responses and
// leases, and clears document links to them. IDs belonging to other
// properties are ignored.
func deleteUnits(tx *gorm.DB, propertyID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	var owned []uuid.UUID
	if err := tx.Model(&models.Unit{}).Where("property_id = ? AND id IN ?", propertyID, ids).Pluck("id", &owned).Error; err != nil {
		return fmt.Errorf("failed to load units: %w", err)
	}
	if len(owned) == 0 {
		return nil
	}

	ticketIDs := tx.Session(&gorm.Session{NewDB: true}).Model(&models.MaintenanceTicket{}).
		Select("id").Where("unit_id IN ?", owned)
	steps := []struct {
		what string
		run  func() error
	}{
		{"ticket responses", func() error {
			return tx.Where("ticket_id IN (?)", ticketIDs).Delete(&models.TicketResponse{}).Error
		}},
		{"tickets", func() error {
			return tx.Where("unit_id IN ?", owned).Delete(&models.MaintenanceTicket{}).Error
		}},
		{"leases", func() error {
			return tx.Where("unit_id IN ?", owned).Delete(&models.TenancyAgreement{}).Error
		}},
		{"document links", func() error {
			return tx.Model(&models.Document{}).Where("unit_id IN ?", owned).Update("unit_id", nil).Error
		}},
		{"units", func() error {
			return tx.Where("id IN ?", owned).Delete(&models.Unit{}).Error
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("failed to delete %s: %w", step.what, err)
		}
	}
	return nil
}

type propertyFields struct {
	AddressLine1, AddressLine2, CityTown, County, Postcode *string
	PurchaseDate                                        *string
	PropertyType, Tenure, CouncilTaxBand, EPCRating     *string
}

func applyPropertyFields(p *models.Property, f propertyFields) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.AddressLine1, f.AddressLine1)
	set(&p.AddressLine2, f.AddressLine2)
	set(&p.CityTown, f.CityTown)
	set(&p.County, f.County)
	set(&p.Postcode, f.Postcode)
	set(&p.CouncilTaxBand, f.CouncilTaxBand)
	set(&p.EPCRating, f.EPCRating)
	if f.PropertyType != nil {
		p.PropertyType = strings.ToUpper(strings.TrimSpace(*f.PropertyType))
	}
	if f.Tenure != nil {
		p.Tenure = strings.ToUpper(strings.TrimSpace(*f.Tenure))
	}

	if p.AddressLine1 == "" {
		return validationf("addressLine1 is required")
	}
	if p.CityTown == "" {
		return validationf("cityTown is required")
	}
	if p.Postcode == "" {
		return validationf("postcode is required")
	}
	if p.PropertyType != "" {
		if err := oneOf("propertyType", p.PropertyType, models.PropertyTypes); err != nil {
			return err
		}
	}
	if p.Tenure != "" {
		if err := oneOf("tenure", p.Tenure, models.Tenures); err != nil {
			return err
		}
	}
	if f.PurchaseDate != nil {
		d, err := parseOptionalDate("purchaseDate", *f.PurchaseDate)
		if err != nil {
			return err
		}
		p.PurchaseDate = d
	}
	return nil
}

func applyUnitInput(u *models.Unit, in dto.UnitInput, idx int) error {
	if in.Bedrooms < 0 || in.Bathrooms < 0 {
		return validationf("units[%d] bedrooms and bathrooms cannot be negative", idx)
	}
	if in.BaseRentPcm < 0 {
		return validationf("units[%d].baseRentPcm cannot be negative", idx)
	}
	if in.SquareMetres != nil && *in.SquareMetres < 0 {
		return validationf("units[%d].squareMetres cannot be negative", idx)
	}

	furnished := strings.ToUpper(strings.TrimSpace(in.FurnishedStatus))
	if furnished == "" {
		furnished = models.FurnishedStatusUnfurnished
	}
	if err := oneOf(fmt.Sprintf("units[%d].furnishedStatus", idx), furnished, models.FurnishedStatuses); err != nil {
		return err
	}

	u.UnitNumber = blankToNil(in.UnitNumber)
	u.SquareMetres = in.SquareMetres
	u.Bedrooms = in.Bedrooms
	u.Bathrooms = in.Bathrooms
	u.BaseRentPcm = in.BaseRentPcm
	u.FurnishedStatus = furnished
	u.HMOLicense = blankToNil(in.HMOLicense)
	u.CouncilTaxReference = blankToNil(in.CouncilTaxReference)
	return nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
