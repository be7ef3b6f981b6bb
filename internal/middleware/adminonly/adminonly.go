// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package adminonly

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gunplahub/api/auth"
	"github.com/gunplahub/api/internal/types"
)

// Config defines the config for the admin-gate middleware.
type Config struct {
	// AuthService validates session tokens against the session store.
	AuthService *auth.Service
	// CookieName is the session cookie to fall back to when no bearer
	// token is present.
	CookieName string
	// LoginURL is where browser navigations are redirected on failure.
	LoginURL string
	// AdminCtxName is the context key to store the validated principal.
	AdminCtxName string
}

// New creates a middleware that only admits authenticated admins.
// API clients get a JSON 401/403; browser navigations are redirected
// to the login view.
func New(cfg Config) fiber.Handler {
	ctxName := cfg.AdminCtxName
	if ctxName == "" {
		ctxName = types.AdminCtxName
	}

	return func(c *fiber.Ctx) error {
		var tokenString string

		// 1. Try Authorization header first (for API clients)
		authHeader := c.Get(types.HeaderAuthorization)
		if authHeader != "" && strings.HasPrefix(authHeader, types.BearerPrefix) {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 {
				tokenString = parts[1]
			}
		}

		// 2. Fall back to the session cookie (for web browsers)
		if tokenString == "" {
			tokenString = c.Cookies(cfg.CookieName)
		}

		if tokenString == "" {
			return reject(c, cfg, fiber.StatusUnauthorized, "Missing session token")
		}

		principal, err := cfg.AuthService.ValidateSession(c.Context(), tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrNotAdmin) {
				return reject(c, cfg, fiber.StatusForbidden, "Not an admin account")
			}
			return reject(c, cfg, fiber.StatusUnauthorized, "Invalid or expired session")
		}

		c.Locals(ctxName, principal)
		return c.Next()
	}
}

func reject(c *fiber.Ctx, cfg Config, status int, message string) error {
	if wantsHTML(c) && cfg.LoginURL != "" {
		return c.Redirect(cfg.LoginURL, fiber.StatusFound)
	}

	code := "UNAUTHORIZED"
	if status == fiber.StatusForbidden {
		code = "FORBIDDEN"
	}
	return c.Status(status).JSON(fiber.Map{
		"code":    code,
		"message": message,
	})
}

// wantsHTML reports whether the request looks like a browser navigation
// rather than an API call.
func wantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), "text/html")
}
