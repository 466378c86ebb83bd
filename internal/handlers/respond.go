package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidBody = errors.New("invalid request body")

// parseBody decodes a single JSON value into out. Unknown fields, trailing
// data and empty bodies are rejected.
func parseBody(c *fiber.Ctx, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errInvalidBody
	}
	if _, err := dec.Token(); err != io.EOF {
		return errInvalidBody
	}
	return nil
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps service errors onto HTTP statuses. Anything unclassified
// is logged, reported to Sentry and answered with the generic message.
func respondError(c *fiber.Ctx, err error, message string) error {
	status := statusFor(err)
	if status < fiber.StatusInternalServerError {
		return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	}

	attrs := []any{
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	}
	if p, perr := principal.Get(c); perr == nil {
		attrs = append(attrs, "user_id", p.UserID.String())
	}
	slog.Error(message, attrs...)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}
