package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/member-service/internal/domain"
	apperrors "github.com/spec-kit/member-service/pkg/util"
)

type stubLookup struct {
	members map[string]*domain.Member
}

func (s stubLookup) GetByEmail(_ context.Context, email string) (*domain.Member, error) {
	if m, ok := s.members[email]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func newMiddlewareApp(t *testing.T) (*fiber.App, *TokenCodec) {
	t.Helper()
	codec, err := NewTokenCodec("secret", "HS256", time.Hour, time.Hour)
	require.NoError(t, err)

	mw := NewAuthMiddleware(codec, stubLookup{members: map[string]*domain.Member{
		"bob@example.com": {ID: 7, Email: "bob@example.com", Status: domain.MemberStatusActive},
	}})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(p.Email)
	})
	app.Get("/members/:member_id", mw.Handle, RequireSelf("member_id"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/maybe", mw.Optional, func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); ok {
			return c.SendString("member")
		}
		return c.SendString("anonymous")
	})
	return app, codec
}

func doRequest(t *testing.T, app *fiber.App, path, bearer string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	app, codec := newMiddlewareApp(t)

	token, err := codec.IssueAccessToken("bob@example.com")
	require.NoError(t, err)
	stranger, err := codec.IssueAccessToken("ghost@example.com")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(t, app, "/me", token.Value).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/me", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/me", "garbage").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/me", stranger.Value).StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireSelf(t *testing.T) {
	app, codec := newMiddlewareApp(t)
	token, err := codec.IssueAccessToken("bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, doRequest(t, app, "/members/7", token.Value).StatusCode)
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, "/members/8", token.Value).StatusCode)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, app, "/members/abc", token.Value).StatusCode)
}

func TestOptionalAuth(t *testing.T) {
	app, codec := newMiddlewareApp(t)
	token, err := codec.IssueAccessToken("bob@example.com")
	require.NoError(t, err)

	stranger, err := codec.IssueAccessToken("ghost@example.com")
	require.NoError(t, err)
	past, err := NewTokenCodec("secret", "HS256", time.Hour, time.Hour,
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	require.NoError(t, err)
	expired, err := past.IssueAccessToken("bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(t, app, "/maybe", "").StatusCode)
	assert.Equal(t, http.StatusOK, doRequest(t, app, "/maybe", token.Value).StatusCode)

	for _, bearer := range []string{"garbage", expired.Value, stranger.Value} {
		resp := doRequest(t, app, "/maybe", bearer)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "anonymous", string(body))
	}
}
