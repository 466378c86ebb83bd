package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentService(t *testing.T) (*DocumentService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "http://files.test")
	require.NoError(t, err)
	return NewDocumentService(testutil.NewDB(t), store), dir
}

func TestUploadReturnsPublicURL(t *testing.T) {
	svc, dir := newDocumentService(t)
	p, _ := seedLandlord(t, svc.db, "lena@example.com")

	url, err := svc.Upload(context.Background(), p, strings.NewReader("hello"), "photo 1.jpg", "image/jpeg", 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://files.test/uploads/"+p.UserID.String()+"/"))
	assert.True(t, strings.HasSuffix(url, "-photo_1.jpg"))

	key := strings.TrimPrefix(url, "http://files.test/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = svc.Upload(context.Background(), p, strings.NewReader(""), " ", "", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateDocumentLinksOwnedProperty(t *testing.T) {
	svc, _ := newDocumentService(t)
	ctx := context.Background()
	p, landlord := seedLandlord(t, svc.db, "lena@example.com")
	_, other := seedLandlord(t, svc.db, "otto@example.com")
	property := seedProperty(t, svc.db, landlord.ID, 1)
	empty := seedProperty(t, svc.db, landlord.ID, 0)
	foreign := seedProperty(t, svc.db, other.ID, 1)

	input := func() *dto.CreateDocumentInput {
		return &dto.CreateDocumentInput{Category: "gas_safety", FileName: "cert.pdf", FileType: "application/pdf", FileSize: 3}
	}

	in := input()
	in.PropertyID = &property.ID
	in.UnitID = &property.Units[0].ID
	doc, err := svc.Create(ctx, p, strings.NewReader("pdf"), in)
	require.NoError(t, err)
	assert.Equal(t, "GAS_SAFETY", doc.Category)
	assert.Equal(t, p.UserID, doc.UserID)
	assert.NotEmpty(t, doc.StorageKey)

	in = input()
	in.PropertyID = &empty.ID
	_, err = svc.Create(ctx, p, strings.NewReader("pdf"), in)
	require.NoError(t, err)

	in = input()
	in.PropertyID = &foreign.ID
	_, err = svc.Create(ctx, p, strings.NewReader("pdf"), in)
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	in = input()
	in.UnitID = &foreign.Units[0].ID
	_, err = svc.Create(ctx, p, strings.NewReader("pdf"), in)
	assert.ErrorIs(t, err, ErrUnitNotFound)

	in = input()
	in.PropertyID = &empty.ID
	in.UnitID = &property.Units[0].ID
	_, err = svc.Create(ctx, p, strings.NewReader("pdf"), in)
	assert.ErrorIs(t, err, ErrValidation)

	in = input()
	in.Category = "RECEIPT"
	_, err = svc.Create(ctx, p, strings.NewReader("pdf"), in)
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, svc.db.Model(&models.Document{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestTenantDocumentLinksFollowActiveLease(t *testing.T) {
	svc, _ := newDocumentService(t)
	ctx := context.Background()
	_, landlord := seedLandlord(t, svc.db, "lena@example.com")
	tp, tenant := seedTenant(t, svc.db, "tom@example.com", "Tom", "Jones", &landlord.ID)
	leased := seedProperty(t, svc.db, landlord.ID, 1)
	notLeased := seedProperty(t, svc.db, landlord.ID, 1)
	seedLease(t, svc.db, leased.Units[0].ID, &tenant.ID, 900)

	_, err := svc.Create(ctx, tp, strings.NewReader("id"), &dto.CreateDocumentInput{
		Category: "IDENTITY", FileName: "passport.png", PropertyID: &leased.ID,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tp, strings.NewReader("id"), &dto.CreateDocumentInput{
		Category: "IDENTITY", FileName: "passport.png", UnitID: &notLeased.Units[0].ID,
	})
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestListArchiveDeleteDocuments(t *testing.T) {
	svc, dir := newDocumentService(t)
	ctx := context.Background()
	p, landlord := seedLandlord(t, svc.db, "lena@example.com")
	other, _ := seedLandlord(t, svc.db, "otto@example.com")
	property := seedProperty(t, svc.db, landlord.ID, 1)

	linked, err := svc.Create(ctx, p, strings.NewReader("a"), &dto.CreateDocumentInput{
		Category: "EPC", FileName: "epc.pdf", PropertyID: &property.ID,
	})
	require.NoError(t, err)
	loose, err := svc.Create(ctx, p, strings.NewReader("b"), &dto.CreateDocumentInput{
		Category: "OTHER", FileName: "notes.txt",
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, p, dto.DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(ctx, p, dto.DocumentFilter{PropertyID: &property.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, linked.ID, filtered[0].ID)

	theirs, err := svc.List(ctx, other, dto.DocumentFilter{})
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = svc.Archive(ctx, other, loose.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	archived, err := svc.Archive(ctx, p, loose.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)

	active, err := svc.List(ctx, p, dto.DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, active, 1)
	yes := true
	onlyArchived, err := svc.List(ctx, p, dto.DocumentFilter{Archived: &yes})
	require.NoError(t, err)
	require.Len(t, onlyArchived, 1)
	assert.Equal(t, loose.ID, onlyArchived[0].ID)

	assert.ErrorIs(t, svc.Delete(ctx, other, linked.ID), ErrDocumentNotFound)
	require.NoError(t, svc.Delete(ctx, p, linked.ID))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(linked.StorageKey)))
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, svc.Delete(ctx, p, linked.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p, uuid.New()), ErrDocumentNotFound)
}
