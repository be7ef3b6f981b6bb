package adminonly

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunplahub/api/auth"
	"github.com/gunplahub/api/internal/cache"
	platformconfig "github.com/gunplahub/api/internal/platform/config"
	"github.com/gunplahub/api/internal/types"
)

const testCookieName = "gunpla_session"

func newTestApp(t *testing.T) (*fiber.App, *auth.Service) {
	t.Helper()

	memCache := cache.NewMemoryCache()
	t.Cleanup(func() { memCache.Close() })

	sessions := auth.NewSessionStore(memCache, "sessions:", time.Hour)
	service := auth.NewService(
		nil,
		platformconfig.AdminConfig{Emails: []string{"admin@gunplahub.dev"}},
		platformconfig.SessionConfig{
			Secret:     "test-secret-at-least-32-chars-long",
			CookieName: testCookieName,
			TTL:        time.Hour,
		},
		sessions,
	)

	app := fiber.New()
	app.Get("/admin/ping",
		New(Config{
			AuthService: service,
			CookieName:  testCookieName,
			LoginURL:    "http://localhost:3000/admin/login",
		}),
		func(c *fiber.Ctx) error {
			principal := c.Locals(types.AdminCtxName).(types.AdminPrincipal)
			return c.JSON(fiber.Map{"email": principal.Email})
		},
	)
	return app, service
}

func issueToken(t *testing.T, service *auth.Service) string {
	t.Helper()
	token, _, err := service.IssueSession(context.Background(), &auth.GoogleUserInfo{
		Email: "admin@gunplahub.dev",
		Name:  "Admin",
	})
	require.NoError(t, err)
	return token
}

func TestMissingTokenReturns401(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBrowserNavigationRedirectsToLogin(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(fiber.HeaderAccept, "text/html,application/xhtml+xml")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000/admin/login", resp.Header.Get("Location"))
}

func TestBearerTokenAdmits(t *testing.T) {
	app, service := newTestApp(t)
	token := issueToken(t, service)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(types.HeaderAuthorization, types.BearerPrefix+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCookieAdmits(t *testing.T) {
	app, service := newTestApp(t)
	token := issueToken(t, service)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInvalidatedSessionRejected(t *testing.T) {
	app, service := newTestApp(t)
	token := issueToken(t, service)

	require.NoError(t, service.Logout(context.Background(), token))

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(types.HeaderAuthorization, types.BearerPrefix+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGarbageTokenRejected(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(types.HeaderAuthorization, types.BearerPrefix+"not-a-jwt")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
