package db

import (
	"context"

	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

// DashboardStats summarizes the moderation workload and catalog size.
type DashboardStats struct {
	PendingRequests  int64 `json:"pending_requests"`
	PendingReports   int64 `json:"pending_reports"`
	TotalUsers       int64 `json:"total_users"`
	TotalRestaurants int64 `json:"total_restaurants"`
}

// GetDashboardStats counts pending work and totals for the admin dashboard.
func (d *DB) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := d.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM restaurant_edits WHERE status = $1),
			(SELECT COUNT(*) FROM complaints WHERE status = $2),
			(SELECT COUNT(*) FROM user_profiles),
			(SELECT COUNT(*) FROM restaurants)
	`, models.StatusPending, models.ComplaintPending).Scan(
		&stats.PendingRequests, &stats.PendingReports, &stats.TotalUsers, &stats.TotalRestaurants,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
