package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-service/internal/api/dto"
	"github.com/spec-kit/member-service/internal/domain"
	apperrors "github.com/spec-kit/member-service/pkg/util"
)

// SettingsService is the part of the settings service the /setting routes use.
type SettingsService interface {
	SavePassword(ctx context.Context, memberID int64, newPassword string) error
	SaveSecurityQuestion(ctx context.Context, memberID int64, questionID int32, answer string) error
	Deactivate(ctx context.Context, memberID int64, d domain.Deactivation) error
	Reactivate(ctx context.Context, memberID int64) error
	UpdateEmail(ctx context.Context, memberID int64, email string) error
}

// SettingHandler exposes the /setting endpoints.
type SettingHandler struct {
	settings SettingsService
}

// NewSettingHandler constructs handler.
func NewSettingHandler(settings SettingsService) *SettingHandler {
	return &SettingHandler{settings: settings}
}

// SavePasswordInfo handles PUT /setting/save-password-info/:member_id.
func (h *SettingHandler) SavePasswordInfo(c *fiber.Ctx) error {
	id, err := memberIDParam(c)
	if err != nil {
		return err
	}
	var req dto.SavePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.settings.SavePassword(c.UserContext(), id, req.Password); err != nil {
		return toHTTPError(err)
	}
	return message(c, "Updated member password successfully.")
}

// SaveSecurityQuestion handles PUT /setting/save-security-question/:member_id.
func (h *SettingHandler) SaveSecurityQuestion(c *fiber.Ctx) error {
	id, err := memberIDParam(c)
	if err != nil {
		return err
	}
	var req dto.SecurityQuestionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.settings.SaveSecurityQuestion(c.UserContext(), id, req.QuestionID, req.Answer); err != nil {
		return toHTTPError(err)
	}
	return message(c, "Saved security question successfully.")
}

// DeactivateAccount handles POST /setting/deactivate-account/:member_id.
func (h *SettingHandler) DeactivateAccount(c *fiber.Ctx) error {
	id, err := memberIDParam(c)
	if err != nil {
		return err
	}
	var req dto.DeactivateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.settings.Deactivate(c.UserContext(), id, req.ToDomain()); err != nil {
		return toHTTPError(err)
	}
	return message(c, "Deactivated member account successfully.")
}

// ReactivateAccount handles POST /setting/reactivate-account/:member_id.
func (h *SettingHandler) ReactivateAccount(c *fiber.Ctx) error {
	id, err := memberIDParam(c)
	if err != nil {
		return err
	}
	if err := h.settings.Reactivate(c.UserContext(), id); err != nil {
		return toHTTPError(err)
	}
	return message(c, "Reactivated member account successfully.")
}

// UpdateEmailInfo handles PUT /setting/update-email-info/:member_id.
func (h *SettingHandler) UpdateEmailInfo(c *fiber.Ctx) error {
	id, err := memberIDParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.settings.UpdateEmail(c.UserContext(), id, req.Email); err != nil {
		return toHTTPError(err)
	}
	return message(c, "Updated member email successfully.")
}

func memberIDParam(c *fiber.Ctx) (int64, error) {
	raw := c.Params("member_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid member id", map[string]any{"member_id": raw})
	}
	return id, nil
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"message": msg}})
}
