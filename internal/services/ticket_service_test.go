package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ticketFixture struct {
	db       *gorm.DB
	svc      *TicketService
	landlord principal.Principal
	tenant   principal.Principal
	unitID   uuid.UUID
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	db := testutil.NewDB(t)
	lp, landlord := seedLandlord(t, db, "lena@example.com")
	tp, tenant := seedTenant(t, db, "tom@example.com", "Tom", "Jones", &landlord.ID)
	unitID := seedProperty(t, db, landlord.ID, 1).Units[0].ID
	seedLease(t, db, unitID, &tenant.ID, 900)
	return &ticketFixture{db: db, svc: NewTicketService(db), landlord: lp, tenant: tp, unitID: unitID}
}

func (f *ticketFixture) raise(t *testing.T, title string) *models.MaintenanceTicket {
	t.Helper()
	ticket, err := f.svc.Create(context.Background(), f.tenant, &dto.CreateTicketRequest{
		Title:            title,
		Description:      "Water everywhere",
		Priority:         "urgent",
		PreferredContact: "phone",
	})
	require.NoError(t, err)
	return ticket
}

func TestCreateTicket(t *testing.T) {
	f := newTicketFixture(t)

	ticket, err := f.svc.Create(context.Background(), f.tenant, &dto.CreateTicketRequest{
		UnitID:             &f.unitID,
		Title:              "Boiler broken",
		Description:        "No hot water",
		Priority:           "EMERGENCY",
		PreferredContact:   "EMAIL",
		AccessInstructions: strPtr("Key with neighbour"),
		AvailableDates:     []string{"2025-03-01", "2025-03-02T09:30"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusNew, ticket.Status)
	assert.True(t, ticket.IsEmergency)
	assert.Equal(t, f.unitID, ticket.UnitID)
	require.Len(t, ticket.AvailableDates, 2)
	assert.Equal(t, 9, ticket.AvailableDates[1].Hour())
	require.NotNil(t, ticket.Tenant)
	require.NotNil(t, ticket.Unit)
	require.NotNil(t, ticket.Unit.Property)

	defaulted := f.raise(t, "Leak")
	assert.Equal(t, f.unitID, defaulted.UnitID)
	assert.Equal(t, models.PriorityUrgent, defaulted.Priority)
	assert.False(t, defaulted.IsEmergency)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	cases := map[string]dto.CreateTicketRequest{
		"missing title":   {Description: "d", PreferredContact: "EMAIL"},
		"bad priority":    {Title: "t", Description: "d", Priority: "SOON", PreferredContact: "EMAIL"},
		"bad contact":     {Title: "t", Description: "d", PreferredContact: "PIGEON"},
		"bad date":        {Title: "t", Description: "d", PreferredContact: "EMAIL", AvailableDates: []string{"tomorrow"}},
		"missing contact": {Title: "t", Description: "d"},
	}
	for name, req := range cases {
		req := req
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.tenant, &req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateTicketRequiresLeasedUnit(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	var landlord models.Landlord
	require.NoError(t, f.db.Where("user_id = ?", f.landlord.UserID).First(&landlord).Error)
	otherUnit := seedProperty(t, f.db, landlord.ID, 1).Units[0].ID

	_, err := f.svc.Create(ctx, f.tenant, &dto.CreateTicketRequest{
		UnitID: &otherUnit, Title: "t", Description: "d", PreferredContact: "EMAIL",
	})
	assert.ErrorIs(t, err, ErrUnitNotLeased)

	_, err = f.svc.Create(ctx, f.landlord, &dto.CreateTicketRequest{Title: "t", Description: "d", PreferredContact: "EMAIL"})
	assert.ErrorIs(t, err, ErrWrongRole)

	homeless, _ := seedTenant(t, f.db, "nolease@example.com", "No", "Lease", nil)
	_, err = f.svc.Create(ctx, homeless, &dto.CreateTicketRequest{Title: "t", Description: "d", PreferredContact: "EMAIL"})
	assert.ErrorIs(t, err, ErrNoActiveLease)
}

func TestTicketListsAreNewestFirst(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	older := f.raise(t, "Older")
	newer := f.raise(t, "Newer")
	require.NoError(t, f.db.Model(&models.MaintenanceTicket{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	tenantList, err := f.svc.ListForTenant(ctx, f.tenant)
	require.NoError(t, err)
	require.Len(t, tenantList, 2)
	assert.Equal(t, newer.ID, tenantList[0].ID)

	landlordList, err := f.svc.ListForLandlord(ctx, f.landlord)
	require.NoError(t, err)
	require.Len(t, landlordList, 2)
	assert.Equal(t, newer.ID, landlordList[0].ID)
	require.NotNil(t, landlordList[0].Tenant)

	stranger, _ := seedLandlord(t, f.db, "otto@example.com")
	none, err := f.svc.ListForLandlord(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRespondAppendsInOrderAndSetsStatus(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.raise(t, "Leak")

	_, err := f.svc.Respond(ctx, f.landlord, ticket.ID, &dto.RespondTicketRequest{
		Message: "Plumber booked", Status: strPtr("in_progress"),
	})
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, f.tenant, ticket.ID, &dto.RespondTicketRequest{Message: "Thanks"})
	require.NoError(t, err)
	got, err := f.svc.Respond(ctx, f.landlord, ticket.ID, &dto.RespondTicketRequest{
		Message: "Fixed", Status: strPtr(models.TicketStatusResolved),
	})
	require.NoError(t, err)

	assert.Equal(t, models.TicketStatusResolved, got.Status)
	require.Len(t, got.Responses, 3)
	assert.Equal(t, "Plumber booked", got.Responses[0].Message)
	assert.True(t, got.Responses[0].IsLandlord)
	assert.Equal(t, "Thanks", got.Responses[1].Message)
	assert.False(t, got.Responses[1].IsLandlord)
	assert.Equal(t, "Fixed", got.Responses[2].Message)
	require.NotNil(t, got.Responses[2].Author)
	assert.Equal(t, "lena@example.com", got.Responses[2].Author.Email)

	reopened, err := f.svc.Respond(ctx, f.landlord, ticket.ID, &dto.RespondTicketRequest{
		Message: "Reopening", Status: strPtr(models.TicketStatusNew),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusNew, reopened.Status)
}

func TestRespondRules(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.raise(t, "Leak")

	_, err := f.svc.Respond(ctx, f.landlord, ticket.ID, &dto.RespondTicketRequest{Message: "x", Status: strPtr("DONE")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Respond(ctx, f.landlord, ticket.ID, &dto.RespondTicketRequest{Message: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	closed, err := f.svc.Respond(ctx, f.tenant, ticket.ID, &dto.RespondTicketRequest{Message: "fixed it myself", Status: strPtr("closed")})
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusClosed, closed.Status)
	require.Len(t, closed.Responses, 1)
	assert.False(t, closed.Responses[0].IsLandlord)

	stranger, _ := seedLandlord(t, f.db, "otto@example.com")
	_, err = f.svc.Respond(ctx, stranger, ticket.ID, &dto.RespondTicketRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrTicketNotFound)

	var responses int64
	require.NoError(t, f.db.Model(&models.TicketResponse{}).Where("ticket_id = ?", ticket.ID).Count(&responses).Error)
	assert.EqualValues(t, 1, responses)

	var stored models.MaintenanceTicket
	require.NoError(t, f.db.First(&stored, "id = ?", ticket.ID).Error)
	assert.Equal(t, models.TicketStatusClosed, stored.Status)
}

func TestGetTicketChecksParty(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.raise(t, "Leak")

	got, err := f.svc.Get(ctx, f.tenant, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	_, err = f.svc.Get(ctx, f.landlord, ticket.ID)
	require.NoError(t, err)

	otherTenant, _ := seedTenant(t, f.db, "ann@example.com", "Ann", "Smith", nil)
	_, err = f.svc.Get(ctx, otherTenant, ticket.ID)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	_, err = f.svc.Get(ctx, f.tenant, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
