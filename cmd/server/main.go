// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	stdlog "log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/gunplahub/api/admin"
	"github.com/gunplahub/api/auth"
	"github.com/gunplahub/api/internal/cache"
	"github.com/gunplahub/api/internal/database/postgres"
	"github.com/gunplahub/api/internal/middleware/adminonly"
	"github.com/gunplahub/api/internal/pkg/log"
	platformconfig "github.com/gunplahub/api/internal/platform/config"
	"github.com/gunplahub/api/kits"
	kitHandlers "github.com/gunplahub/api/kits/handlers"
	kitRepository "github.com/gunplahub/api/kits/repository"
	kitServices "github.com/gunplahub/api/kits/services"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		stdlog.Fatalf("Failed to load platform config: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if len(c.Response().Body()) > 0 {
				return nil
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.WebDomain,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		stdlog.Fatalf("Failed to create postgres client: %v", err)
	}
	defer pgClient.Close()

	cacheService, err := cache.New(cfg.Cache)
	if err != nil {
		stdlog.Fatalf("Failed to create cache: %v", err)
	}
	defer cacheService.Close()

	// Auth: Google OAuth flow plus the injected session store.
	sessionStore := auth.NewSessionStore(cacheService, cfg.Cache.Prefix+"sessions:", cfg.Session.TTL)
	authService := auth.NewService(
		auth.NewGoogleOAuthConfig(cfg.OAuth),
		cfg.Admin,
		cfg.Session,
		sessionStore,
	)
	stateStore := auth.NewMemoryStateStore()
	defer stateStore.Close()
	authHandler := auth.NewHandler(authService, stateStore, &auth.HandlerConfig{
		WebDomain:  cfg.App.WebDomain,
		LoginPath:  cfg.App.LoginPath,
		CookieName: cfg.Session.CookieName,
		CookieTTL:  cfg.Session.TTL,
		Secure:     !cfg.Server.Debug,
	})
	auth.RegisterRoutes(app, authHandler)

	// Public catalog.
	kitRepo := kitRepository.NewPostgresRepository(pgClient)
	kitService := kitServices.NewKitService(kitRepo, cacheService, cfg.Cache.TTL)
	kits.RegisterRoutes(app, &kits.KitsHandlers{
		KitHandler: kitHandlers.NewKitHandler(kitService),
	})

	// Admin CRUD behind the session gate.
	gate := adminonly.New(adminonly.Config{
		AuthService: authService,
		CookieName:  cfg.Session.CookieName,
		LoginURL:    cfg.App.WebDomain + cfg.App.LoginPath,
	})
	adminService := admin.NewService(admin.DefaultRegistry(), admin.NewPostgresRepository(pgClient))
	admin.RegisterRoutes(app, admin.NewHandler(adminService), gate)

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pgClient.HealthCheck(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("%s listening on %s", cfg.App.Name, addr)
	if err := app.Listen(addr); err != nil {
		stdlog.Fatalf("Server stopped: %v", err)
	}
}
