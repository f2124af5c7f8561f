package handlers

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-service/internal/domain"
	apperrors "github.com/spec-kit/member-service/pkg/util"
)

type validatable interface {
	Validate() error
}

// bind fills req from the query string and then from the body, and validates it.
func bind(c *fiber.Ctx, req validatable) error {
	if err := c.QueryParser(req); err != nil {
		return apperrors.NewValidationError("invalid query parameters", nil)
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if err := req.Validate(); err != nil {
		return validationFailed(err)
	}
	return nil
}

func validationFailed(err error) error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		details[field] = fieldErr.Error()
	}
	return apperrors.NewValidationError("validation failed", details)
}

// toHTTPError maps service sentinels onto API errors.
func toHTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.Wrap(err, "INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFound("member", nil)
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apperrors.NewConflict("email already registered", nil)
	case errors.Is(err, domain.ErrInvalidToken):
		return apperrors.Wrap(err, "INVALID_TOKEN", "invalid or expired token", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrInvalidCode):
		return apperrors.Wrap(err, "INVALID_CODE", "invalid or expired reset code", http.StatusBadRequest)
	case errors.Is(err, domain.ErrForbidden):
		return apperrors.Wrap(err, "FORBIDDEN", "forbidden", http.StatusForbidden)
	case errors.Is(err, domain.ErrStorage):
		return apperrors.Wrap(err, "STORAGE_ERROR", "storage unavailable", http.StatusInternalServerError)
	default:
		return apperrors.NewInternalError(err)
	}
}
