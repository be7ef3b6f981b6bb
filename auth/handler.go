// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gunplahub/api/internal/pkg/log"
)

// Handler exposes the Google OAuth login flow over HTTP.
type Handler struct {
	service    *Service
	stateStore StateStore
	config     *HandlerConfig
}

// HandlerConfig holds the handler's redirect and cookie settings.
type HandlerConfig struct {
	WebDomain  string
	LoginPath  string
	CookieName string
	CookieTTL  time.Duration
	Secure     bool
}

// NewHandler creates the auth handler.
func NewHandler(service *Service, stateStore StateStore, config *HandlerConfig) *Handler {
	return &Handler{
		service:    service,
		stateStore: stateStore,
		config:     config,
	}
}

// GoogleLogin initiates the Google OAuth flow with PKCE.
func (h *Handler) GoogleLogin(c *fiber.Ctx) error {
	pkce, err := GeneratePKCEParams()
	if err != nil {
		return h.serviceError(c, fmt.Errorf("failed to generate PKCE: %w", err))
	}

	// State is single-use with a short TTL.
	if err := h.stateStore.Store(pkce.State, pkce, 5*time.Minute); err != nil {
		return h.serviceError(c, fmt.Errorf("failed to store OAuth state: %w", err))
	}

	return c.Redirect(AuthCodeURL(h.service.oauth, pkce), fiber.StatusFound)
}

// GoogleCallback handles the provider redirect: state validation, code
// exchange, admin allowlist check and session cookie issuance.
func (h *Handler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		return h.loginRedirect(c, "invalid_request")
	}

	pkce, err := h.stateStore.Retrieve(state)
	if err != nil {
		return h.loginRedirect(c, "invalid_state")
	}
	defer h.stateStore.Delete(state)

	token, err := h.service.ExchangeCodeForToken(c.Context(), code, pkce.CodeVerifier)
	if err != nil {
		log.Error("oauth code exchange failed: %v", err)
		return h.loginRedirect(c, "exchange_failed")
	}

	userInfo, err := h.service.GetUserInfo(c.Context(), token)
	if err != nil {
		log.Error("oauth userinfo fetch failed: %v", err)
		return h.loginRedirect(c, "userinfo_failed")
	}

	sessionToken, _, err := h.service.IssueSession(c.Context(), userInfo)
	if err != nil {
		if errors.Is(err, ErrNotAdmin) {
			log.Warn("admin login rejected for %s", userInfo.Email)
			return h.loginRedirect(c, "forbidden")
		}
		return h.serviceError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.config.CookieName,
		Value:    sessionToken,
		Expires:  time.Now().Add(h.config.CookieTTL),
		HTTPOnly: true,
		Secure:   h.config.Secure,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.Redirect(h.config.WebDomain+"/admin", fiber.StatusFound)
}

// Logout invalidates the session and clears the cookie.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(h.config.CookieName); token != "" {
		if err := h.service.Logout(c.Context(), token); err != nil {
			log.Warn("session invalidation failed: %v", err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.config.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.config.Secure,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.JSON(fiber.Map{"ok": true})
}

// Session returns the current admin principal, or 401.
func (h *Handler) Session(c *fiber.Ctx) error {
	token := c.Cookies(h.config.CookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": "no active session",
		})
	}

	principal, err := h.service.ValidateSession(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": "invalid or expired session",
		})
	}

	return c.JSON(fiber.Map{"user": principal})
}

func (h *Handler) serviceError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// loginRedirect sends the browser back to the login view with an error
// tag instead of rendering a raw error page.
func (h *Handler) loginRedirect(c *fiber.Ctx, reason string) error {
	return c.Redirect(h.config.WebDomain+h.config.LoginPath+"?error="+reason, fiber.StatusFound)
}
