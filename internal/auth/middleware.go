package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-service/internal/domain"
	apperrors "github.com/spec-kit/member-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Email  string
	Member *domain.Member
}

// MemberLookup resolves a token subject to its member record.
type MemberLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens  *TokenCodec
	members MemberLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenCodec, members MemberLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, members: members}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	principal, err := m.authenticate(c, authHeader)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional loads a principal when a valid bearer token is present. Requests
// with no token or a rejected one continue anonymously; lookup failures still abort.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}
	principal, err := m.authenticate(c, authHeader)
	if err != nil {
		if apperrors.ToDomainError(err).HTTPStatus >= fiber.StatusInternalServerError {
			return err
		}
		return c.Next()
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx, authHeader string) (*Principal, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthorized("invalid authorization header")
	}

	email, err := m.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, apperrors.NewDomainError("INVALID_TOKEN", "could not validate credentials", fiber.StatusUnauthorized, nil)
	}

	member, err := m.members.GetByEmail(c.UserContext(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("could not validate credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return &Principal{Email: email, Member: member}, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
