package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	maxUploadBytes  int64
}

func NewDocumentHandler(documentService *services.DocumentService, maxUploadBytes int) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, maxUploadBytes: int64(maxUploadBytes)}
}

// formFile returns the "file" part of a multipart request, or writes the
// error response itself and returns nil.
func (h *DocumentHandler) formFile(c *fiber.Ctx) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, badRequest(c, "No file provided")
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return nil, c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Error: true, Message: "File too large",
		})
	}
	return fh, nil
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	fh, err := h.formFile(c)
	if fh == nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, err, "Upload failed")
	}
	defer f.Close()

	url, err := h.documentService.Upload(c.UserContext(), p, f, fh.Filename, fh.Header.Get(fiber.HeaderContentType), fh.Size)
	if err != nil {
		return respondError(c, err, "Upload failed")
	}
	return c.JSON(dto.UploadResponse{URL: url})
}

func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	fh, err := h.formFile(c)
	if fh == nil {
		return err
	}

	in := dto.CreateDocumentInput{
		Category: c.FormValue("category"),
		FileName: fh.Filename,
		FileType: fh.Header.Get(fiber.HeaderContentType),
		FileSize: fh.Size,
	}
	if d := c.FormValue("description"); d != "" {
		in.Description = &d
	}
	if in.PropertyID, err = optionalUUID(c.FormValue("propertyId")); err != nil {
		return badRequest(c, "Invalid propertyId")
	}
	if in.UnitID, err = optionalUUID(c.FormValue("unitId")); err != nil {
		return badRequest(c, "Invalid unitId")
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, err, "Failed to upload document")
	}
	defer f.Close()

	doc, err := h.documentService.Create(c.UserContext(), p, f, &in)
	if err != nil {
		return respondError(c, err, "Failed to upload document")
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	var filter dto.DocumentFilter
	if filter.PropertyID, err = optionalUUID(c.Query("propertyId")); err != nil {
		return badRequest(c, "Invalid propertyId")
	}
	if filter.UnitID, err = optionalUUID(c.Query("unitId")); err != nil {
		return badRequest(c, "Invalid unitId")
	}
	if raw := c.Query("archived"); raw != "" {
		archived, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "Invalid archived flag")
		}
		filter.Archived = &archived
	}

	docs, err := h.documentService.List(c.UserContext(), p, filter)
	if err != nil {
		return respondError(c, err, "Failed to fetch documents")
	}
	return c.JSON(dto.DocumentListResponse{Documents: docs})
}

func (h *DocumentHandler) Archive(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid document id")
	}

	doc, err := h.documentService.Archive(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err, "Failed to archive document")
	}
	return c.JSON(dto.DocumentResponse{Document: doc})
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid document id")
	}

	if err := h.documentService.Delete(c.UserContext(), p, id); err != nil {
		return respondError(c, err, "Failed to delete document")
	}
	return c.JSON(dto.MessageResponse{Message: "Document deleted successfully"})
}

func optionalUUID(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
