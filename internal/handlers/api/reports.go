package api

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/KaitoZan/fnm-dashboard/internal/cache"
	"github.com/KaitoZan/fnm-dashboard/internal/db"
	"github.com/KaitoZan/fnm-dashboard/internal/metrics"
	"github.com/KaitoZan/fnm-dashboard/internal/models"
	"github.com/KaitoZan/fnm-dashboard/internal/notify"
	"github.com/KaitoZan/fnm-dashboard/internal/validation"
)

// ReportsHandler reviews complaints filed against comments and restaurants.
type ReportsHandler struct {
	db       *db.DB
	notifier *notify.Dispatcher
	views    *cache.Cache
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(database *db.DB, notifier *notify.Dispatcher, views *cache.Cache) *ReportsHandler {
	return &ReportsHandler{db: database, notifier: notifier, views: views}
}

// ListPending returns all pending complaints, oldest first.
func (h *ReportsHandler) ListPending(c fiber.Ctx) error {
	var complaints []models.Complaint
	if !h.views.GetJSON(c.Context(), cache.ViewReports, &complaints) {
		var err error
		complaints, err = h.db.GetPendingComplaints(c.Context())
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch pending reports")
		}
		h.views.SetJSON(c.Context(), cache.ViewReports, complaints, listCacheTTL)
	}

	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return jsonSuccess(c, complaints)
}

// Dismiss resolves a complaint without acting on its target. The operator's
// message is relayed to the reporter and must not be blank.
func (h *ReportsHandler) Dismiss(c fiber.Ctx) error {
	complaintID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid report id")
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.NonBlank(body.Message) {
		return jsonError(c, fiber.StatusBadRequest, "a message to the reporter is required")
	}

	complaint, err := h.db.GetComplaintByID(c.Context(), complaintID)
	if err != nil {
		if errors.Is(err, db.ErrComplaintNotFound) {
			return jsonError(c, fiber.StatusNotFound, "report not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch report")
	}

	if err := h.db.DismissComplaint(c.Context(), complaintID); err != nil {
		metrics.RecordModerationAction(metrics.ActionDismissReport, metrics.OutcomeError)
		return h.complaintError(c, err)
	}

	metrics.RecordModerationAction(metrics.ActionDismissReport, metrics.OutcomeSuccess)

	h.notifier.NotifyReporter(c.Context(), complaint.ReporterID, body.Message)
	h.views.InvalidateViews(c.Context(), cache.ViewReports, cache.ViewDashboard)

	return jsonSuccess(c, fiber.Map{"message": "report dismissed"})
}

// Act resolves a complaint by acting on its target: deleting the reported
// comment, or suspending the reported restaurant. The target comes from the
// complaint row itself, never from the request.
func (h *ReportsHandler) Act(c fiber.Ctx) error {
	complaintID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid report id")
	}

	var body struct {
		Message      string `json:"message"`
		OwnerWarning string `json:"owner_warning"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.NonBlank(body.Message) {
		return jsonError(c, fiber.StatusBadRequest, "a message to the reporter is required")
	}

	complaint, err := h.db.GetComplaintByID(c.Context(), complaintID)
	if err != nil {
		if errors.Is(err, db.ErrComplaintNotFound) {
			return jsonError(c, fiber.StatusNotFound, "report not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch report")
	}

	target, err := complaint.Target()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	views := []string{cache.ViewReports, cache.ViewDashboard}

	switch t := target.(type) {
	case models.CommentTarget:
		if err := h.db.ResolveComplaintDeletingComment(c.Context(), complaintID, t.CommentID); err != nil {
			metrics.RecordModerationAction(metrics.ActionActOnReport, metrics.OutcomeError)
			if errors.Is(err, db.ErrCommentNotFound) {
				return jsonError(c, fiber.StatusNotFound, "reported comment not found")
			}
			return h.complaintError(c, err)
		}

	case models.RestaurantTarget:
		// Owner lookup happens before the suspension so the warning can be
		// delivered after commit; a vanished restaurant fails the whole act.
		restaurant, err := h.db.GetRestaurantByID(c.Context(), t.RestaurantID)
		if err != nil {
			if errors.Is(err, db.ErrRestaurantNotFound) {
				return jsonError(c, fiber.StatusNotFound, "reported restaurant not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch reported restaurant")
		}

		if err := h.db.ResolveComplaintSuspendingRestaurant(c.Context(), complaintID, t.RestaurantID); err != nil {
			metrics.RecordModerationAction(metrics.ActionActOnReport, metrics.OutcomeError)
			if errors.Is(err, db.ErrRestaurantNotFound) {
				return jsonError(c, fiber.StatusNotFound, "reported restaurant not found")
			}
			return h.complaintError(c, err)
		}

		h.notifier.WarnOwner(c.Context(), restaurant.OwnerID, body.OwnerWarning)
		views = append(views, cache.ViewRestaurants, cache.ViewRestaurant(t.RestaurantID.String()))
	}

	metrics.RecordModerationAction(metrics.ActionActOnReport, metrics.OutcomeSuccess)

	h.notifier.NotifyReporter(c.Context(), complaint.ReporterID, body.Message)
	h.views.InvalidateViews(c.Context(), views...)

	return jsonSuccess(c, fiber.Map{"message": "report resolved"})
}

// complaintError maps complaint engine failures to HTTP responses.
func (h *ReportsHandler) complaintError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, db.ErrComplaintNotFound):
		return jsonError(c, fiber.StatusNotFound, "report not found")
	case errors.Is(err, db.ErrComplaintResolved):
		return jsonError(c, fiber.StatusConflict, "report has already been resolved")
	default:
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}
