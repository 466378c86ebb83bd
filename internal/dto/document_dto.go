package dto

import (
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/google/uuid"
)

// CreateDocumentInput is built from the multipart form fields of a document
// upload.
type CreateDocumentInput struct {
	Category    string
	Description *string
	PropertyID  *uuid.UUID
	UnitID      *uuid.UUID
	FileName    string
	FileType    string
	FileSize    int64
}

type DocumentFilter struct {
	PropertyID *uuid.UUID
	UnitID     *uuid.UUID
	Archived   *bool
}

type DocumentResponse struct {
	Document *models.Document `json:"document"`
}

type DocumentListResponse struct {
	Documents []models.Document `json:"documents"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
