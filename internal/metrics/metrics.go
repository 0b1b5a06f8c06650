package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KaitoZan/fnm-dashboard/internal/db"
)

// Moderation action labels.
const (
	ActionApproveEdit         = "approve_edit"
	ActionRejectEdit          = "reject_edit"
	ActionDismissReport       = "dismiss_report"
	ActionActOnReport         = "act_on_report"
	ActionUpdateRestaurant    = "update_restaurant"
	ActionSuspendRestaurant   = "suspend_restaurant"
	ActionUnsuspendRestaurant = "unsuspend_restaurant"
	ActionDeleteRestaurant    = "delete_restaurant"
	ActionUpdateRole          = "update_role"
	ActionDeleteUser          = "delete_user"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	moderationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fnm_moderation_actions_total",
			Help: "Total moderation actions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	pendingQueueDesc = prometheus.NewDesc(
		"fnm_pending_queue_depth",
		"Current number of pending items awaiting review, by queue",
		[]string{"queue"},
		nil,
	)
)

// QueueCollector is a custom Prometheus collector that reads pending queue
// depths from the database on each scrape.
type QueueCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *QueueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- pendingQueueDesc
}

// Collect queries the database for pending workload and emits it as gauges.
func (c *QueueCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.db.GetDashboardStats(context.Background())
	if err != nil {
		slog.Error("failed to collect queue depth metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(
		pendingQueueDesc, prometheus.GaugeValue, float64(stats.PendingRequests), "requests")
	ch <- prometheus.MustNewConstMetric(
		pendingQueueDesc, prometheus.GaugeValue, float64(stats.PendingReports), "reports")
}

var initOnce sync.Once

// Init registers the moderation counters and the queue depth collector.
// Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(moderationActions)
		prometheus.MustRegister(&QueueCollector{db: database})
	})
}

// RecordModerationAction counts one moderation action by outcome.
func RecordModerationAction(action, outcome string) {
	moderationActions.WithLabelValues(action, outcome).Inc()
}
