package services

import (
	"errors"
	"fmt"
)

// Error classes. Handlers map these to HTTP statuses with errors.Is; the
// specific errors below each belong to exactly one class.
var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrEmailTaken         = classified(ErrConflict, "email already registered")
	ErrInvalidCredentials = classified(ErrUnauthorized, "invalid email or password")
	ErrInvalidToken       = classified(ErrUnauthorized, "invalid or expired refresh token")
	ErrEmailNotVerified   = classified(ErrForbidden, "email not verified")
	ErrInvalidVerifyToken = classified(ErrValidation, "invalid or expired verification token")
	ErrWrongRole          = classified(ErrForbidden, "not permitted for this role")
	ErrUnitNotLeased      = classified(ErrForbidden, "unit is not on your active lease")

	ErrUserNotFound     = classified(ErrNotFound, "user not found")
	ErrLandlordNotFound = classified(ErrNotFound, "landlord not found")
	ErrTenantNotFound   = classified(ErrNotFound, "tenant not found")
	ErrPropertyNotFound = classified(ErrNotFound, "property not found")
	ErrUnitNotFound     = classified(ErrNotFound, "unit not found")
	ErrLeaseNotFound    = classified(ErrNotFound, "lease not found")
	ErrNoActiveLease    = classified(ErrNotFound, "no active lease found")
	ErrTicketNotFound   = classified(ErrNotFound, "ticket not found")
	ErrDocumentNotFound = classified(ErrNotFound, "document not found")
)

type classError struct {
	class error
	msg   string
}

func (e *classError) Error() string { return e.msg }

func (e *classError) Is(target error) bool { return target == e.class }

func classified(class error, msg string) error {
	return &classError{class: class, msg: msg}
}

func validationf(format string, args ...interface{}) error {
	return classified(ErrValidation, fmt.Sprintf(format, args...))
}
