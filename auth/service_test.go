package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunplahub/api/internal/cache"
	platformconfig "github.com/gunplahub/api/internal/platform/config"
)

func newTestService(t *testing.T) (*Service, *SessionStore) {
	t.Helper()

	memCache := cache.NewMemoryCache()
	t.Cleanup(func() { memCache.Close() })

	sessions := NewSessionStore(memCache, "sessions:", time.Hour)
	service := NewService(
		nil,
		platformconfig.AdminConfig{Emails: []string{"admin@gunplahub.dev"}},
		platformconfig.SessionConfig{
			Secret:     "test-secret-at-least-32-chars-long",
			CookieName: "gunpla_session",
			TTL:        time.Hour,
		},
		sessions,
	)
	return service, sessions
}

func TestIssueSessionRejectsNonAdmin(t *testing.T) {
	service, _ := newTestService(t)

	_, _, err := service.IssueSession(context.Background(), &GoogleUserInfo{
		Email: "visitor@example.com",
		Name:  "Visitor",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestIssueAndValidateSession(t *testing.T) {
	service, _ := newTestService(t)

	token, issued, err := service.IssueSession(context.Background(), &GoogleUserInfo{
		Email:   "admin@gunplahub.dev",
		Name:    "Admin",
		Picture: "https://example.com/avatar.png",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, issued.SessionID)

	principal, err := service.ValidateSession(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin@gunplahub.dev", principal.Email)
	assert.Equal(t, "Admin", principal.Name)
	assert.Equal(t, "https://example.com/avatar.png", principal.AvatarURL)
	assert.Equal(t, issued.SessionID, principal.SessionID)
}

func TestAllowlistIsCaseInsensitive(t *testing.T) {
	service, _ := newTestService(t)

	_, _, err := service.IssueSession(context.Background(), &GoogleUserInfo{
		Email: "Admin@GunplaHub.dev",
		Name:  "Admin",
	})
	require.NoError(t, err)
}

func TestValidateSessionFailsAfterInvalidation(t *testing.T) {
	service, sessions := newTestService(t)

	token, issued, err := service.IssueSession(context.Background(), &GoogleUserInfo{
		Email: "admin@gunplahub.dev",
		Name:  "Admin",
	})
	require.NoError(t, err)

	require.NoError(t, sessions.Invalidate(context.Background(), issued.SessionID))

	_, err = service.ValidateSession(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestValidateSessionRejectsTamperedToken(t *testing.T) {
	service, _ := newTestService(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin@gunplahub.dev",
		"jti": "forged-session-id",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("a-different-secret-entirely-here"))
	require.NoError(t, err)

	_, err = service.ValidateSession(context.Background(), signed)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestValidateSessionRejectsExpiredToken(t *testing.T) {
	service, _ := newTestService(t)

	_, issued, err := service.IssueSession(context.Background(), &GoogleUserInfo{
		Email: "admin@gunplahub.dev",
		Name:  "Admin",
	})
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": issued.Email,
		"jti": issued.SessionID,
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret-at-least-32-chars-long"))
	require.NoError(t, err)

	_, err = service.ValidateSession(context.Background(), signed)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	service, _ := newTestService(t)

	token, _, err := service.IssueSession(context.Background(), &GoogleUserInfo{
		Email: "admin@gunplahub.dev",
		Name:  "Admin",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), token))

	_, err = service.ValidateSession(context.Background(), token)
	assert.Error(t, err)
}

func TestLogoutIgnoresGarbageToken(t *testing.T) {
	service, _ := newTestService(t)
	assert.NoError(t, service.Logout(context.Background(), "not-a-jwt"))
}

func TestStateStoreRoundTrip(t *testing.T) {
	store := NewMemoryStateStore()
	defer store.Close()

	pkce, err := GeneratePKCEParams()
	require.NoError(t, err)
	require.NotEmpty(t, pkce.State)
	require.NotEmpty(t, pkce.CodeVerifier)
	require.NotEmpty(t, pkce.CodeChallenge)

	require.NoError(t, store.Store(pkce.State, pkce, time.Minute))

	got, err := store.Retrieve(pkce.State)
	require.NoError(t, err)
	assert.Equal(t, pkce.CodeVerifier, got.CodeVerifier)

	require.NoError(t, store.Delete(pkce.State))
	_, err = store.Retrieve(pkce.State)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateStoreExpiry(t *testing.T) {
	store := NewMemoryStateStore()
	defer store.Close()

	pkce, err := GeneratePKCEParams()
	require.NoError(t, err)

	require.NoError(t, store.Store(pkce.State, pkce, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err = store.Retrieve(pkce.State)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateStoreCloseIsIdempotent(t *testing.T) {
	store := NewMemoryStateStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	// The store stays usable after Close; only the sweep stops.
	pkce, err := GeneratePKCEParams()
	require.NoError(t, err)
	require.NoError(t, store.Store(pkce.State, pkce, time.Minute))
	got, err := store.Retrieve(pkce.State)
	require.NoError(t, err)
	assert.Equal(t, pkce.CodeVerifier, got.CodeVerifier)
}
