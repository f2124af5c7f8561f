package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/member-service/internal/api/dto"
	"github.com/spec-kit/member-service/internal/auth"
	"github.com/spec-kit/member-service/internal/domain"
	apperrors "github.com/spec-kit/member-service/pkg/util"
)

// AccountService is the part of the auth service the account routes use.
type AccountService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	ConfirmRegistration(ctx context.Context, email, code string) (*domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	Register(ctx context.Context, reg domain.Registration) (domain.RegisterResult, error)
	RequestPasswordReset(ctx context.Context, email string) (domain.ResetResult, error)
	IsResetCodeExpired(ctx context.Context, code string) (bool, error)
	ChangePassword(ctx context.Context, email, newPassword, code string) (string, error)
}

// AccountHandler exposes the /account endpoints.
type AccountHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

// NewAccountHandler constructs handler.
func NewAccountHandler(accounts AccountService, logger *zap.Logger) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{accounts: accounts, logger: logger}
}

// Login handles POST /account/login.
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(session)})
}

// Register handles POST /account/register.
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.accounts.Register(c.UserContext(), req.ToDomain())
	if err != nil {
		return toHTTPError(err)
	}
	status := http.StatusOK
	if result == domain.RegisterNewEmail {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": fiber.Map{"result": result}})
}

// LoginNewRegisteredUser handles POST /account/login-new-registered-user.
func (h *AccountHandler) LoginNewRegisteredUser(c *fiber.Ctx) error {
	var req dto.NewRegisteredUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.accounts.ConfirmRegistration(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(session)})
}

// RefreshLogin handles GET and POST /account/refresh-login.
func (h *AccountHandler) RefreshLogin(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.accounts.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTokenResponse(pair)})
}

// ResetPassword handles POST /account/reset-password. The response does not
// reveal whether the email belongs to a member.
func (h *AccountHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.accounts.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return toHTTPError(err)
	}
	if result != domain.ResetSuccess {
		h.logger.Debug("reset requested for unknown email")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"result": domain.ResetSuccess}})
}

// IsResetCodeExpired handles POST /account/is-reset-code-expired.
func (h *AccountHandler) IsResetCodeExpired(c *fiber.Ctx) error {
	var req dto.ResetCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	expired, err := h.accounts.IsResetCodeExpired(c.UserContext(), req.Code)
	if err != nil {
		return toHTTPError(err)
	}
	answer := "no"
	if expired {
		answer = "yes"
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"expired": answer}})
}

// ChangePassword handles POST /account/change-password. Without a reset code
// the caller must hold an access token for the same email.
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Code == "" {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("a reset code or bearer token is required")
		}
		if principal.Email != req.Email {
			return apperrors.NewForbidden("token does not belong to this email")
		}
	}
	confirmation, err := h.accounts.ChangePassword(c.UserContext(), req.Email, req.NewPassword, req.Code)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"confirmation": confirmation}})
}
