package auth

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/member-service/pkg/util"
)

// RequireSelf ensures the authenticated member owns the member id in the named route param.
func RequireSelf(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Member == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		id, err := strconv.ParseInt(c.Params(param), 10, 64)
		if err != nil {
			return apperrors.NewValidationError("invalid member id", map[string]any{param: c.Params(param)})
		}
		if principal.Member.ID != id {
			return apperrors.NewForbidden("member mismatch")
		}
		return c.Next()
	}
}
