package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	uploadPrefix   = "uploads"
	documentPrefix = "documents"
)

type DocumentService struct {
	db    *gorm.DB
	store storage.BlobStore
	now   func() time.Time
}

func NewDocumentService(db *gorm.DB, store storage.BlobStore) *DocumentService {
	return &DocumentService{db: db, store: store, now: time.Now}
}

// Upload stores a raw file for the caller and returns its public URL.
func (s *DocumentService) Upload(ctx context.Context, p principal.Principal, body io.Reader, fileName, contentType string, size int64) (string, error) {
	if strings.TrimSpace(fileName) == "" {
		return "", validationf("file is required")
	}
	key := storage.ObjectKey(uploadPrefix, p.UserID, fileName, s.now())
	url, err := s.store.Put(ctx, key, body, size, contentType)
	metrics.DocumentUploadsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return url, nil
}

// Create validates the metadata, uploads the file and records the document.
// The blob is removed again when the row cannot be written.
func (s *DocumentService) Create(ctx context.Context, p principal.Principal, body io.Reader, in *dto.CreateDocumentInput) (*models.Document, error) {
	if strings.TrimSpace(in.FileName) == "" {
		return nil, validationf("file is required")
	}
	category := strings.ToUpper(strings.TrimSpace(in.Category))
	if category == "" {
		return nil, validationf("category is required")
	}
	if err := oneOf("category", category, models.DocumentCategories); err != nil {
		return nil, err
	}
	if err := s.checkLinks(ctx, p, in.PropertyID, in.UnitID); err != nil {
		return nil, err
	}

	key := storage.ObjectKey(documentPrefix, p.UserID, in.FileName, s.now())
	url, err := s.store.Put(ctx, key, body, in.FileSize, in.FileType)
	metrics.DocumentUploadsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	doc := models.Document{
		UserID:      p.UserID,
		URL:         url,
		StorageKey:  key,
		FileName:    in.FileName,
		FileType:    in.FileType,
		FileSize:    in.FileSize,
		Category:    category,
		Description: blankToNil(in.Description),
		PropertyID:  in.PropertyID,
		UnitID:      in.UnitID,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			slog.Warn("orphaned blob after failed document insert", "key", key, "error", delErr.Error())
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &doc, nil
}

// List returns the caller's own documents, newest first. Archived documents
// are hidden unless the filter asks for them.
func (s *DocumentService) List(ctx context.Context, p principal.Principal, f dto.DocumentFilter) ([]models.Document, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", p.UserID)
	if f.PropertyID != nil {
		q = q.Where("property_id = ?", *f.PropertyID)
	}
	if f.UnitID != nil {
		q = q.Where("unit_id = ?", *f.UnitID)
	}
	archived := false
	if f.Archived != nil {
		archived = *f.Archived
	}
	q = q.Where("is_archived = ?", archived)

	docs := []models.Document{}
	if err := q.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) Archive(ctx context.Context, p principal.Principal, id uuid.UUID) (*models.Document, error) {
	db := s.db.WithContext(ctx)
	doc, err := s.owned(db, p, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(doc).Update("is_archived", true).Error; err != nil {
		return nil, fmt.Errorf("failed to archive document: %w", err)
	}
	doc.IsArchived = true
	return doc, nil
}

// Delete removes the row, then the blob. A blob that cannot be removed is
// logged and left behind.
func (s *DocumentService) Delete(ctx context.Context, p principal.Principal, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	doc, err := s.owned(db, p, id)
	if err != nil {
		return err
	}
	if err := db.Delete(doc).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		slog.Warn("failed to delete document blob", "key", doc.StorageKey, "error", err.Error())
	}
	return nil
}

func (s *DocumentService) owned(db *gorm.DB, p principal.Principal, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := db.Where("user_id = ?", p.UserID).First(&doc, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrDocumentNotFound, "document")
	}
	return &doc, nil
}

// checkLinks makes sure a landlord only links their own property or unit and
// a tenant only the property or unit of an active lease.
func (s *DocumentService) checkLinks(ctx context.Context, p principal.Principal, propertyID, unitID *uuid.UUID) error {
	if propertyID == nil && unitID == nil {
		return nil
	}
	db := s.db.WithContext(ctx)

	var units *gorm.DB
	var landlordID uuid.UUID
	switch {
	case p.IsLandlord():
		landlord, err := landlordFor(ctx, s.db, p)
		if err != nil {
			return err
		}
		landlordID = landlord.ID
		units = ownedUnitIDs(db, landlord.ID)
	case p.IsTenant():
		tenant, err := tenantFor(ctx, s.db, p)
		if err != nil {
			return err
		}
		units = db.Session(&gorm.Session{NewDB: true}).
			Model(&models.TenancyAgreement{}).
			Select("unit_id").
			Where("tenant_id = ? AND status = ?", tenant.ID, models.LeaseStatusActive)
	default:
		return ErrWrongRole
	}

	if unitID != nil {
		var unit models.Unit
		if err := db.Where("id IN (?)", units).First(&unit, "id = ?", *unitID).Error; err != nil {
			return notFound(err, ErrUnitNotFound, "unit")
		}
		if propertyID != nil && unit.PropertyID != *propertyID {
			return validationf("unitId does not belong to propertyId")
		}
		return nil
	}

	var count int64
	q := db.Model(&models.Unit{}).Where("property_id = ? AND id IN (?)", *propertyID, units)
	if p.IsLandlord() {
		q = db.Model(&models.Property{}).Where("id = ? AND landlord_id = ?", *propertyID, landlordID)
	}
	err := q.Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check property: %w", err)
	}
	if count == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
