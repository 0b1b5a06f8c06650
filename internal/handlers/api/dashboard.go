package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/KaitoZan/fnm-dashboard/internal/cache"
	"github.com/KaitoZan/fnm-dashboard/internal/db"
)

// DashboardHandler serves the admin dashboard summary.
type DashboardHandler struct {
	db    *db.DB
	views *cache.Cache
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(database *db.DB, views *cache.Cache) *DashboardHandler {
	return &DashboardHandler{db: database, views: views}
}

// Stats returns pending workload counts and catalog totals. Counts are
// cached briefly; moderation actions invalidate the cache so the numbers
// move as soon as work happens.
func (h *DashboardHandler) Stats(c fiber.Ctx) error {
	var stats db.DashboardStats
	if h.views.GetJSON(c.Context(), cache.ViewDashboard, &stats) {
		return jsonSuccess(c, stats)
	}

	fresh, err := h.db.GetDashboardStats(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch dashboard stats")
	}
	h.views.SetJSON(c.Context(), cache.ViewDashboard, fresh, listCacheTTL)

	return jsonSuccess(c, fresh)
}
