package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KaitoZan/fnm-dashboard/internal/cache"
	"github.com/KaitoZan/fnm-dashboard/internal/db"
	"github.com/KaitoZan/fnm-dashboard/internal/handlers"
	"github.com/KaitoZan/fnm-dashboard/internal/handlers/api"
	"github.com/KaitoZan/fnm-dashboard/internal/middleware"
	"github.com/KaitoZan/fnm-dashboard/internal/notify"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, views *cache.Cache) error {
	authMiddleware := middleware.NewAuthMiddleware(database)
	notifier := notify.NewDispatcher(database)

	approvalsHandler := api.NewApprovalsHandler(database, notifier, views)
	reportsHandler := api.NewReportsHandler(database, notifier, views)
	restaurantsHandler := api.NewRestaurantsHandler(database, notifier, views)
	usersHandler := api.NewUsersHandler(database, views)
	dashboardHandler := api.NewDashboardHandler(database, views)
	healthHandler := api.NewHealthHandler(database)

	// OIDC is always required: every route past the health check needs an
	// authenticated operator.
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All users must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	// Operational endpoints
	s.App.Get("/health", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Authenticated self-service routes
	s.App.Get("/api/me", authMiddleware.RequireAuth, usersHandler.Me)
	s.App.Get("/api/me/notifications", authMiddleware.RequireAuth, usersHandler.Notifications)

	// Admin routes: everything below mutates moderation state or reads
	// privileged listings, so the whole group sits behind the admin gate.
	admin := s.App.Group("/api", authMiddleware.RequireAuth, authMiddleware.RequireAdmin)

	admin.Get("/dashboard", dashboardHandler.Stats)

	admin.Get("/approvals", approvalsHandler.ListPending)
	admin.Post("/approvals/:id/approve", approvalsHandler.Approve)
	admin.Post("/approvals/:id/reject", approvalsHandler.Reject)

	admin.Get("/reports", reportsHandler.ListPending)
	admin.Post("/reports/:id/dismiss", reportsHandler.Dismiss)
	admin.Post("/reports/:id/act", reportsHandler.Act)

	admin.Get("/restaurants", restaurantsHandler.List)
	admin.Get("/restaurants/:id", restaurantsHandler.Get)
	admin.Put("/restaurants/:id", restaurantsHandler.Update)
	admin.Post("/restaurants/:id/suspend", restaurantsHandler.Suspend)
	admin.Post("/restaurants/:id/unsuspend", restaurantsHandler.Unsuspend)
	admin.Delete("/restaurants/:id", restaurantsHandler.Delete)

	admin.Get("/users", usersHandler.List)
	admin.Post("/users/:id/role", usersHandler.UpdateRole)
	admin.Delete("/users/:id", usersHandler.Delete)

	return nil
}
