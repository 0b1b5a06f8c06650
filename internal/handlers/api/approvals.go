package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/KaitoZan/fnm-dashboard/internal/cache"
	"github.com/KaitoZan/fnm-dashboard/internal/db"
	"github.com/KaitoZan/fnm-dashboard/internal/metrics"
	"github.com/KaitoZan/fnm-dashboard/internal/middleware"
	"github.com/KaitoZan/fnm-dashboard/internal/models"
	"github.com/KaitoZan/fnm-dashboard/internal/notify"
	"github.com/KaitoZan/fnm-dashboard/internal/validation"
)

const listCacheTTL = 30 * time.Second

// ApprovalsHandler reviews restaurant edit requests.
type ApprovalsHandler struct {
	db       *db.DB
	notifier *notify.Dispatcher
	views    *cache.Cache
}

// NewApprovalsHandler creates a new approvals handler.
func NewApprovalsHandler(database *db.DB, notifier *notify.Dispatcher, views *cache.Cache) *ApprovalsHandler {
	return &ApprovalsHandler{db: database, notifier: notifier, views: views}
}

// ListPending returns all pending edit requests, oldest first.
func (h *ApprovalsHandler) ListPending(c fiber.Ctx) error {
	var requests []models.EditRequest
	if !h.views.GetJSON(c.Context(), cache.ViewRequests, &requests) {
		var err error
		requests, err = h.db.GetPendingEditRequests(c.Context())
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch pending requests")
		}
		h.views.SetJSON(c.Context(), cache.ViewRequests, requests, listCacheTTL)
	}

	if requests == nil {
		requests = []models.EditRequest{}
	}
	return jsonSuccess(c, requests)
}

// Approve applies a pending edit request.
func (h *ApprovalsHandler) Approve(c fiber.Ctx) error {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	reqID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	editReq, err := h.db.GetEditRequestByID(c.Context(), reqID)
	if err != nil {
		if errors.Is(err, db.ErrEditRequestNotFound) {
			return jsonError(c, fiber.StatusNotFound, "edit request not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch edit request")
	}

	if err := h.db.ApproveEditRequest(c.Context(), reqID, admin.ID); err != nil {
		metrics.RecordModerationAction(metrics.ActionApproveEdit, metrics.OutcomeError)
		switch {
		case errors.Is(err, db.ErrEditRequestNotFound):
			return jsonError(c, fiber.StatusNotFound, "edit request not found")
		case errors.Is(err, db.ErrAlreadyReviewed):
			return jsonError(c, fiber.StatusConflict, "edit request has already been reviewed")
		case errors.Is(err, db.ErrUnknownEditType), errors.Is(err, db.ErrInvalidProposedData),
			errors.Is(err, db.ErrMissingRestaurantRef):
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, db.ErrRestaurantNotFound):
			return jsonError(c, fiber.StatusNotFound, "target restaurant not found")
		default:
			return jsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	metrics.RecordModerationAction(metrics.ActionApproveEdit, metrics.OutcomeSuccess)

	// Post-commit side effects: inbox notification and stale view marking.
	h.notifier.NotifyEditApproved(c.Context(), editReq.UserID, editReq.DisplayTitle())

	views := []string{cache.ViewRequests, cache.ViewDashboard, cache.ViewRestaurants}
	if editReq.RestaurantID != nil {
		views = append(views, cache.ViewRestaurant(editReq.RestaurantID.String()))
	}
	h.views.InvalidateViews(c.Context(), views...)

	return jsonSuccess(c, fiber.Map{
		"message": "edit request approved",
		"title":   editReq.DisplayTitle(),
	})
}

// Reject declines a pending edit request with a mandatory reason.
func (h *ApprovalsHandler) Reject(c fiber.Ctx) error {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	reqID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.NonBlank(body.Reason) {
		return jsonError(c, fiber.StatusBadRequest, "a rejection reason is required")
	}

	editReq, err := h.db.GetEditRequestByID(c.Context(), reqID)
	if err != nil {
		if errors.Is(err, db.ErrEditRequestNotFound) {
			return jsonError(c, fiber.StatusNotFound, "edit request not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch edit request")
	}

	if err := h.db.RejectEditRequest(c.Context(), reqID, admin.ID, body.Reason); err != nil {
		metrics.RecordModerationAction(metrics.ActionRejectEdit, metrics.OutcomeError)
		switch {
		case errors.Is(err, db.ErrBlankReason):
			return jsonError(c, fiber.StatusBadRequest, "a rejection reason is required")
		case errors.Is(err, db.ErrEditRequestNotFound):
			return jsonError(c, fiber.StatusNotFound, "edit request not found")
		case errors.Is(err, db.ErrAlreadyReviewed):
			return jsonError(c, fiber.StatusConflict, "edit request has already been reviewed")
		default:
			return jsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	metrics.RecordModerationAction(metrics.ActionRejectEdit, metrics.OutcomeSuccess)

	h.notifier.NotifyEditRejected(c.Context(), editReq.UserID, editReq.DisplayTitle(), body.Reason)
	h.views.InvalidateViews(c.Context(), cache.ViewRequests, cache.ViewDashboard)

	return jsonSuccess(c, fiber.Map{
		"message": "edit request rejected",
		"title":   editReq.DisplayTitle(),
	})
}
