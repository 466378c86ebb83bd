package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const searchLimit = 5

type TenantService struct {
	db *gorm.DB
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

// tenantLeases loads every assigned lease on the landlord's units, most recent
// first, with tenant (and user), unit and property.
func (s *TenantService) tenantLeases(ctx context.Context, landlordID uuid.UUID) ([]models.TenancyAgreement, error) {
	var leases []models.TenancyAgreement
	err := s.db.WithContext(ctx).
		Scopes(OnLandlordUnits(landlordID)).
		Where("tenant_id IS NOT NULL").
		Preload("Tenant.User").
		Preload("Unit.Property").
		Order("start_date DESC").
		Find(&leases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant leases: %w", err)
	}
	return leases, nil
}

type tenantGroup struct {
	tenant *models.Tenant
	leases []models.TenancyAgreement
}

// groupByTenant keeps tenants in order of their most recent lease.
func groupByTenant(leases []models.TenancyAgreement) []*tenantGroup {
	var groups []*tenantGroup
	index := map[uuid.UUID]*tenantGroup{}
	for _, lease := range leases {
		if lease.Tenant == nil {
			continue
		}
		g, ok := index[lease.Tenant.ID]
		if !ok {
			g = &tenantGroup{tenant: lease.Tenant}
			index[lease.Tenant.ID] = g
			groups = append(groups, g)
		}
		g.leases = append(g.leases, lease)
	}
	return groups
}

// preferred is the active lease when there is one, else the most recent.
func (g *tenantGroup) preferred() *models.TenancyAgreement {
	for i := range g.leases {
		if g.leases[i].IsActive() {
			return &g.leases[i]
		}
	}
	return &g.leases[0]
}

// List summarises every tenant holding a lease on the caller's properties.
func (s *TenantService) List(ctx context.Context, p principal.Principal) ([]dto.TenantSummary, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}
	leases, err := s.tenantLeases(ctx, landlord.ID)
	if err != nil {
		return nil, err
	}

	out := []dto.TenantSummary{}
	for _, g := range groupByTenant(leases) {
		lease := g.preferred()
		rent := lease.MonthlyRent
		summary := dto.TenantSummary{
			ID:         g.tenant.ID,
			FirstName:  g.tenant.FirstName,
			LastName:   g.tenant.LastName,
			Phone:      g.tenant.Phone,
			Status:     lease.Status,
			RentAmount: &rent,
		}
		if g.tenant.User != nil {
			summary.Email = g.tenant.User.Email
		}
		if lease.Unit != nil {
			summary.UnitNumber = lease.Unit.UnitNumber
			if lease.Unit.Property != nil {
				summary.PropertyAddress = strPtr(lease.Unit.Property.FullAddress())
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

// Leased lists tenants with every one of their leases on the caller's
// properties.
func (s *TenantService) Leased(ctx context.Context, p principal.Principal) ([]dto.LeasedTenant, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}
	leases, err := s.tenantLeases(ctx, landlord.ID)
	if err != nil {
		return nil, err
	}

	out := []dto.LeasedTenant{}
	for _, g := range groupByTenant(leases) {
		t := dto.LeasedTenant{
			ID:        g.tenant.ID,
			FirstName: g.tenant.FirstName,
			LastName:  g.tenant.LastName,
			Phone:     g.tenant.Phone,
			Leases:    make([]dto.LeasedTenantLease, 0, len(g.leases)),
		}
		if g.tenant.User != nil {
			t.Email = g.tenant.User.Email
		}
		for i := range g.leases {
			t.Leases = append(t.Leases, leaseView(&g.leases[i]))
		}
		out = append(out, t)
	}
	return out, nil
}

// Stats counts distinct tenants and active leases on the caller's properties
// and sums their monthly rent, rounded to pence.
func (s *TenantService) Stats(ctx context.Context, p principal.Principal) (*dto.TenantStats, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	var active []models.TenancyAgreement
	err = s.db.WithContext(ctx).
		Scopes(OnLandlordUnits(landlord.ID)).
		Where("status = ?", models.LeaseStatusActive).
		Find(&active).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active leases: %w", err)
	}

	tenants := map[uuid.UUID]struct{}{}
	var total float64
	for _, lease := range active {
		if lease.TenantID != nil {
			tenants[*lease.TenantID] = struct{}{}
		}
		total += lease.MonthlyRent
	}

	return &dto.TenantStats{
		TotalTenants: len(tenants),
		ActiveLeases: len(active),
		TotalRent:    math.Round(total*100) / 100,
	}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches name or e-mail, case-insensitively, among tenants registered
// to the caller or holding a lease on the caller's properties.
func (s *TenantService) Search(ctx context.Context, p principal.Principal, q string) ([]dto.TenantSearchResult, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	results := []dto.TenantSearchResult{}
	q = strings.TrimSpace(q)
	if q == "" {
		return results, nil
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"

	db := s.db.WithContext(ctx)
	leasedTenantIDs := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.TenancyAgreement{}).
		Select("tenant_id").
		Where("tenant_id IS NOT NULL AND unit_id IN (?)", ownedUnitIDs(db, landlord.ID))

	err = db.Model(&models.Tenant{}).
		Select("tenants.id, tenants.first_name, tenants.last_name, users.email").
		Joins("JOIN users ON users.id = tenants.user_id").
		Where("(tenants.landlord_id = ? OR tenants.id IN (?))", landlord.ID, leasedTenantIDs).
		Where(`(LOWER(tenants.first_name) LIKE ? ESCAPE '\' OR LOWER(tenants.last_name) LIKE ? ESCAPE '\' OR LOWER(users.email) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern).
		Order("tenants.last_name, tenants.first_name").
		Limit(searchLimit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search tenants: %w", err)
	}
	return results, nil
}

// Detail returns a tenant the caller manages, with the active lease on the
// caller's properties if there is one.
func (s *TenantService) Detail(ctx context.Context, p principal.Principal, tenantID uuid.UUID) (*dto.TenantDetail, error) {
	landlord, err := landlordFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	leasedTenantIDs := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.TenancyAgreement{}).
		Select("tenant_id").
		Where("tenant_id IS NOT NULL AND unit_id IN (?)", ownedUnitIDs(db, landlord.ID))

	var tenant models.Tenant
	err = db.Preload("User").
		Where("id = ?", tenantID).
		Where("(landlord_id = ? OR id IN (?))", landlord.ID, leasedTenantIDs).
		First(&tenant).Error
	if err != nil {
		return nil, notFound(err, ErrTenantNotFound, "tenant")
	}

	detail := &dto.TenantDetail{
		ID:                   tenant.ID,
		FirstName:            tenant.FirstName,
		LastName:             tenant.LastName,
		Phone:                tenant.Phone,
		DateOfBirth:          tenant.DateOfBirth,
		EmploymentStatus:     tenant.EmploymentStatus,
		AnnualIncome:         tenant.AnnualIncome,
		RightToRentCheckDate: tenant.RightToRentCheckDate,
		RightToRentExpiry:    tenant.RightToRentExpiry,
		ReferenceCheckStatus: tenant.ReferenceCheckStatus,
	}
	if tenant.User != nil {
		detail.Email = tenant.User.Email
	}

	var lease models.TenancyAgreement
	err = db.Scopes(OnLandlordUnits(landlord.ID)).
		Preload("Unit.Property").
		Where("tenant_id = ? AND status = ?", tenant.ID, models.LeaseStatusActive).
		Order("start_date DESC").
		First(&lease).Error
	switch {
	case err == nil:
		view := leaseView(&lease)
		detail.Lease = &view
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load active lease: %w", err)
	}
	return detail, nil
}

// Details is the tenant's own view: profile, active lease and landlord.
func (s *TenantService) Details(ctx context.Context, p principal.Principal) (*dto.TenantSelfDetails, error) {
	tenant, err := tenantFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}
	lease, err := activeLease(ctx, s.db, tenant.ID)
	if err != nil {
		return nil, err
	}

	out := &dto.TenantSelfDetails{
		ID:               tenant.ID,
		FirstName:        tenant.FirstName,
		LastName:         tenant.LastName,
		Phone:            tenant.Phone,
		DateOfBirth:      tenant.DateOfBirth,
		EmploymentStatus: tenant.EmploymentStatus,
		AnnualIncome:     tenant.AnnualIncome,
		Property: &dto.TenancyProperty{
			LeaseID:        lease.ID,
			UnitID:         lease.UnitID,
			RentAmount:     lease.MonthlyRent,
			LeaseStartDate: lease.StartDate,
			LeaseEndDate:   lease.EndDate,
		},
		Landlord: landlordContact(lease),
	}
	if tenant.User != nil {
		out.Email = tenant.User.Email
	}
	if lease.Unit != nil {
		out.Property.UnitNumber = lease.Unit.UnitNumber
		if lease.Unit.Property != nil {
			out.Property.Address = lease.Unit.Property.FullAddress()
		}
	}
	return out, nil
}

// Unit returns the unit on the tenant's active lease.
func (s *TenantService) Unit(ctx context.Context, p principal.Principal) (*dto.TenantUnit, error) {
	tenant, err := tenantFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}
	lease, err := activeLease(ctx, s.db, tenant.ID)
	if err != nil {
		return nil, err
	}
	if lease.Unit == nil {
		return nil, ErrUnitNotFound
	}

	out := &dto.TenantUnit{
		ID:         lease.Unit.ID,
		PropertyID: lease.Unit.PropertyID,
		UnitNumber: lease.Unit.UnitNumber,
	}
	if lease.Unit.Property != nil {
		out.PropertyAddress = lease.Unit.Property.FullAddress()
	}
	return out, nil
}

// Landlord returns contact details for the landlord of the tenant's active
// lease.
func (s *TenantService) Landlord(ctx context.Context, p principal.Principal) (*dto.LandlordContact, error) {
	tenant, err := tenantFor(ctx, s.db, p)
	if err != nil {
		return nil, err
	}
	lease, err := activeLease(ctx, s.db, tenant.ID)
	if err != nil {
		return nil, err
	}
	contact := landlordContact(lease)
	if contact == nil {
		return nil, ErrLandlordNotFound
	}
	return contact, nil
}

func landlordContact(lease *models.TenancyAgreement) *dto.LandlordContact {
	if lease.Unit == nil || lease.Unit.Property == nil || lease.Unit.Property.Landlord == nil {
		return nil
	}
	landlord := lease.Unit.Property.Landlord
	contact := &dto.LandlordContact{
		Name:            landlord.FullName(),
		Phone:           landlord.Phone,
		CompanyName:     landlord.CompanyName,
		PropertyAddress: lease.Unit.Property.FullAddress(),
		UnitNumber:      lease.Unit.UnitNumber,
	}
	if landlord.User != nil {
		contact.Email = landlord.User.Email
		if contact.Name == "" {
			contact.Name = landlord.User.Name
		}
	}
	return contact
}

func leaseView(lease *models.TenancyAgreement) dto.LeasedTenantLease {
	view := dto.LeasedTenantLease{
		ID:          lease.ID,
		StartDate:   lease.StartDate,
		EndDate:     lease.EndDate,
		Status:      lease.Status,
		MonthlyRent: lease.MonthlyRent,
		UnitID:      lease.UnitID,
	}
	if lease.Unit != nil {
		view.UnitNumber = lease.Unit.UnitNumber
		view.PropertyID = lease.Unit.PropertyID
		if lease.Unit.Property != nil {
			view.Address = lease.Unit.Property.FullAddress()
		}
	}
	return view
}
