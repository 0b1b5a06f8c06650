package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/KaitoZan/fnm-dashboard/internal/cache"
	"github.com/KaitoZan/fnm-dashboard/internal/db"
	"github.com/KaitoZan/fnm-dashboard/internal/metrics"
	"github.com/KaitoZan/fnm-dashboard/internal/models"
	"github.com/KaitoZan/fnm-dashboard/internal/notify"
	"github.com/KaitoZan/fnm-dashboard/internal/validation"
)

// RestaurantsHandler manages the restaurant lifecycle: edits, suspension,
// restoration and removal.
type RestaurantsHandler struct {
	db       *db.DB
	notifier *notify.Dispatcher
	views    *cache.Cache
}

// NewRestaurantsHandler creates a new restaurants handler.
func NewRestaurantsHandler(database *db.DB, notifier *notify.Dispatcher, views *cache.Cache) *RestaurantsHandler {
	return &RestaurantsHandler{db: database, notifier: notifier, views: views}
}

// List returns all restaurants regardless of status, newest first.
func (h *RestaurantsHandler) List(c fiber.Ctx) error {
	var restaurants []models.Restaurant
	if !h.views.GetJSON(c.Context(), cache.ViewRestaurants, &restaurants) {
		var err error
		restaurants, err = h.db.ListRestaurants(c.Context())
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch restaurants")
		}
		h.views.SetJSON(c.Context(), cache.ViewRestaurants, restaurants, listCacheTTL)
	}

	if restaurants == nil {
		restaurants = []models.Restaurant{}
	}
	return jsonSuccess(c, restaurants)
}

// Get returns one restaurant with its menu.
func (h *RestaurantsHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid restaurant id")
	}

	restaurant, err := h.db.GetRestaurantByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrRestaurantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch restaurant")
	}

	menus, err := h.db.GetMenuItems(c.Context(), id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch menu")
	}
	if menus == nil {
		menus = []models.MenuItem{}
	}

	return jsonSuccess(c, fiber.Map{
		"restaurant": restaurant,
		"menus":      menus,
	})
}

// Update edits a restaurant's core fields and replaces its menu wholesale.
func (h *RestaurantsHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid restaurant id")
	}

	var body struct {
		Name        string                    `json:"res_name"`
		Description string                    `json:"description"`
		Detail      *string                   `json:"detail"`
		PhoneNo     *string                   `json:"phone_no"`
		Location    *string                   `json:"location"`
		FoodType    *string                   `json:"food_type"`
		HasDelivery bool                      `json:"has_delivery"`
		HasDineIn   bool                      `json:"has_dine_in"`
		Menus       []models.ProposedMenuItem `json:"menus"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.NonBlank(body.Name) {
		return jsonError(c, fiber.StatusBadRequest, "restaurant name is required")
	}

	update := db.RestaurantUpdate{
		Name:        body.Name,
		Description: body.Description,
		Detail:      body.Detail,
		PhoneNo:     body.PhoneNo,
		Location:    body.Location,
		FoodType:    body.FoodType,
		HasDelivery: body.HasDelivery,
		HasDineIn:   body.HasDineIn,
	}
	if err := h.db.UpdateRestaurant(c.Context(), id, update, body.Menus); err != nil {
		metrics.RecordModerationAction(metrics.ActionUpdateRestaurant, metrics.OutcomeError)
		if errors.Is(err, db.ErrRestaurantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	metrics.RecordModerationAction(metrics.ActionUpdateRestaurant, metrics.OutcomeSuccess)
	h.views.InvalidateViews(c.Context(), cache.ViewRestaurants, cache.ViewRestaurant(id.String()))

	return jsonSuccess(c, fiber.Map{"message": "restaurant updated"})
}

// Suspend hides a restaurant from public listings. Idempotent.
func (h *RestaurantsHandler) Suspend(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid restaurant id")
	}

	var body struct {
		OwnerWarning string `json:"owner_warning"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	restaurant, err := h.db.GetRestaurantByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrRestaurantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch restaurant")
	}

	if err := h.db.SuspendRestaurant(c.Context(), id); err != nil {
		metrics.RecordModerationAction(metrics.ActionSuspendRestaurant, metrics.OutcomeError)
		if errors.Is(err, db.ErrRestaurantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	metrics.RecordModerationAction(metrics.ActionSuspendRestaurant, metrics.OutcomeSuccess)

	h.notifier.WarnOwner(c.Context(), restaurant.OwnerID, body.OwnerWarning)
	h.views.InvalidateViews(c.Context(), cache.ViewRestaurants, cache.ViewRestaurant(id.String()), cache.ViewDashboard)

	return jsonSuccess(c, fiber.Map{"message": "restaurant suspended"})
}

// Unsuspend restores a suspended restaurant to approved and discards any
// reapproval requests the owner filed in the meantime.
func (h *RestaurantsHandler) Unsuspend(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid restaurant id")
	}

	if err := h.db.UnsuspendRestaurant(c.Context(), id); err != nil {
		metrics.RecordModerationAction(metrics.ActionUnsuspendRestaurant, metrics.OutcomeError)
		if errors.Is(err, db.ErrRestaurantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	metrics.RecordModerationAction(metrics.ActionUnsuspendRestaurant, metrics.OutcomeSuccess)
	h.views.InvalidateViews(c.Context(),
		cache.ViewRestaurants, cache.ViewRestaurant(id.String()), cache.ViewRequests, cache.ViewDashboard)

	return jsonSuccess(c, fiber.Map{"message": "restaurant restored"})
}

// Delete removes a restaurant and everything referencing it.
func (h *RestaurantsHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid restaurant id")
	}

	if err := h.db.DeleteRestaurant(c.Context(), id); err != nil {
		metrics.RecordModerationAction(metrics.ActionDeleteRestaurant, metrics.OutcomeError)
		if errors.Is(err, db.ErrRestaurantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	metrics.RecordModerationAction(metrics.ActionDeleteRestaurant, metrics.OutcomeSuccess)

	// The cascade may have removed pending edits and complaints too.
	h.views.InvalidateViews(c.Context(),
		cache.ViewRestaurants, cache.ViewRestaurant(id.String()),
		cache.ViewRequests, cache.ViewReports, cache.ViewDashboard)

	return jsonSuccess(c, fiber.Map{"message": "restaurant deleted"})
}
