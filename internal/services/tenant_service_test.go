package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantStats(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTenantService(db)
	p, landlord := seedLandlord(t, db, "lena@example.com")
	_, other := seedLandlord(t, db, "otto@example.com")
	_, tom := seedTenant(t, db, "tom@example.com", "Tom", "Jones", &landlord.ID)
	_, ann := seedTenant(t, db, "ann@example.com", "Ann", "Smith", &landlord.ID)
	property := seedProperty(t, db, landlord.ID, 4)

	seedLease(t, db, property.Units[0].ID, &tom.ID, 900.25)
	seedLease(t, db, property.Units[1].ID, &tom.ID, 450.10)
	seedLease(t, db, property.Units[2].ID, &ann.ID, 700)
	seedLease(t, db, property.Units[3].ID, nil, 5000)
	seedLease(t, db, seedProperty(t, db, other.ID, 1).Units[0].ID, &ann.ID, 1234)

	stats, err := svc.Stats(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTenants)
	assert.Equal(t, 3, stats.ActiveLeases)
	assert.InDelta(t, 2050.35, stats.TotalRent, 0.001)
}

func TestTenantListAndLeased(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTenantService(db)
	ctx := context.Background()
	p, landlord := seedLandlord(t, db, "lena@example.com")
	_, tom := seedTenant(t, db, "tom@example.com", "Tom", "Jones", &landlord.ID)
	seedTenant(t, db, "idle@example.com", "Idle", "Person", &landlord.ID)
	property := seedProperty(t, db, landlord.ID, 2)
	seedLease(t, db, property.Units[0].ID, &tom.ID, 900)
	seedLease(t, db, property.Units[1].ID, &tom.ID, 600)

	list, err := svc.List(ctx, p)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tom.ID, list[0].ID)
	assert.Equal(t, "tom@example.com", list[0].Email)
	require.NotNil(t, list[0].PropertyAddress)
	assert.Contains(t, *list[0].PropertyAddress, "LS1 1AA")

	leased, err := svc.Leased(ctx, p)
	require.NoError(t, err)
	require.Len(t, leased, 1)
	assert.Len(t, leased[0].Leases, 2)
}

func TestTenantSearchIsScopedAndLimited(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTenantService(db)
	ctx := context.Background()
	p, landlord := seedLandlord(t, db, "lena@example.com")
	_, other := seedLandlord(t, db, "otto@example.com")

	for i := 0; i < 7; i++ {
		seedTenant(t, db, uuid.NewString()+"@example.com", "Sam", "Smith", &landlord.ID)
	}
	seedTenant(t, db, "stranger@example.com", "Sam", "Stranger", &other.ID)
	_, leased := seedTenant(t, db, "leased@example.com", "Pat", "Okafor", &other.ID)
	seedLease(t, db, seedProperty(t, db, landlord.ID, 1).Units[0].ID, &leased.ID, 800)

	results, err := svc.Search(ctx, p, "SAM")
	require.NoError(t, err)
	assert.Len(t, results, searchLimit)
	for _, r := range results {
		assert.Equal(t, "Smith", r.LastName)
	}

	results, err = svc.Search(ctx, p, "okafor")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "leased@example.com", results[0].Email)

	results, err = svc.Search(ctx, p, "stranger")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Search(ctx, p, "%")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Search(ctx, p, "  ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTenantDetailForLandlord(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTenantService(db)
	ctx := context.Background()
	p, landlord := seedLandlord(t, db, "lena@example.com")
	intruder, _ := seedLandlord(t, db, "otto@example.com")
	_, tom := seedTenant(t, db, "tom@example.com", "Tom", "Jones", &landlord.ID)
	lease := seedLease(t, db, seedProperty(t, db, landlord.ID, 1).Units[0].ID, &tom.ID, 900)

	detail, err := svc.Detail(ctx, p, tom.ID)
	require.NoError(t, err)
	assert.Equal(t, "tom@example.com", detail.Email)
	require.NotNil(t, detail.Lease)
	assert.Equal(t, lease.ID, detail.Lease.ID)

	_, err = svc.Detail(ctx, intruder, tom.ID)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestTenantSelfService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTenantService(db)
	ctx := context.Background()
	_, landlord := seedLandlord(t, db, "lena@example.com")
	tp, tom := seedTenant(t, db, "tom@example.com", "Tom", "Jones", &landlord.ID)

	_, err := svc.Details(ctx, tp)
	assert.ErrorIs(t, err, ErrNoActiveLease)

	property := seedProperty(t, db, landlord.ID, 1)
	lease := seedLease(t, db, property.Units[0].ID, &tom.ID, 900)

	details, err := svc.Details(ctx, tp)
	require.NoError(t, err)
	assert.Equal(t, "tom@example.com", details.Email)
	require.NotNil(t, details.Property)
	assert.Equal(t, lease.ID, details.Property.LeaseID)
	assert.Equal(t, 900.0, details.Property.RentAmount)
	require.NotNil(t, details.Landlord)
	assert.Equal(t, "lena@example.com", details.Landlord.Email)
	assert.Equal(t, "Lena Lord", details.Landlord.Name)

	unit, err := svc.Unit(ctx, tp)
	require.NoError(t, err)
	assert.Equal(t, property.Units[0].ID, unit.ID)
	assert.Equal(t, property.ID, unit.PropertyID)

	contact, err := svc.Landlord(ctx, tp)
	require.NoError(t, err)
	assert.Equal(t, "0100", contact.Phone)

	lp, _ := seedLandlord(t, db, "otto@example.com")
	_, err = svc.Unit(ctx, lp)
	assert.ErrorIs(t, err, ErrWrongRole)
}
