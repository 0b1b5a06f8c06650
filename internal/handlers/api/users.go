package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/KaitoZan/fnm-dashboard/internal/cache"
	"github.com/KaitoZan/fnm-dashboard/internal/db"
	"github.com/KaitoZan/fnm-dashboard/internal/metrics"
	"github.com/KaitoZan/fnm-dashboard/internal/middleware"
	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

// UsersHandler manages user profiles and role assignment.
type UsersHandler struct {
	db    *db.DB
	views *cache.Cache
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(database *db.DB, views *cache.Cache) *UsersHandler {
	return &UsersHandler{db: database, views: views}
}

// List returns all user profiles, newest first.
func (h *UsersHandler) List(c fiber.Ctx) error {
	users, err := h.db.ListUsers(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}
	if users == nil {
		users = []models.User{}
	}
	return jsonSuccess(c, users)
}

// Me returns the authenticated user's own profile.
func (h *UsersHandler) Me(c fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthenticated")
	}
	return jsonSuccess(c, user)
}

// Notifications returns the authenticated user's inbox, newest first.
func (h *UsersHandler) Notifications(c fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	notifications, err := h.db.GetNotificationsByUser(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch notifications")
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return jsonSuccess(c, notifications)
}

// UpdateRole changes a user's role. Admins cannot change their own role,
// which keeps the last admin from locking everyone out.
func (h *UsersHandler) UpdateRole(c fiber.Ctx) error {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if userID == admin.ID {
		return jsonError(c, fiber.StatusBadRequest, "you cannot change your own role")
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.UpdateUserRole(c.Context(), userID, body.Role); err != nil {
		metrics.RecordModerationAction(metrics.ActionUpdateRole, metrics.OutcomeError)
		switch {
		case errors.Is(err, db.ErrInvalidRole):
			return jsonError(c, fiber.StatusBadRequest, "invalid role")
		case errors.Is(err, db.ErrUserNotFound):
			return jsonError(c, fiber.StatusNotFound, "user not found")
		default:
			return jsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	metrics.RecordModerationAction(metrics.ActionUpdateRole, metrics.OutcomeSuccess)
	return jsonSuccess(c, fiber.Map{"message": "role updated"})
}

// Delete removes a user profile. Their restaurants and comments survive with
// null references; their edit requests and notifications cascade away.
func (h *UsersHandler) Delete(c fiber.Ctx) error {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if userID == admin.ID {
		return jsonError(c, fiber.StatusBadRequest, "you cannot delete your own account")
	}

	if err := h.db.DeleteUser(c.Context(), userID); err != nil {
		metrics.RecordModerationAction(metrics.ActionDeleteUser, metrics.OutcomeError)
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	metrics.RecordModerationAction(metrics.ActionDeleteUser, metrics.OutcomeSuccess)
	h.views.InvalidateViews(c.Context(), cache.ViewDashboard)

	return jsonSuccess(c, fiber.Map{"message": "user deleted"})
}
