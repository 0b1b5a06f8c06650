package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

func TestUpdateRestaurant(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestUser(t, db, "editor", models.RoleUser)
	resID := createTestRestaurant(t, db, "Old Name", models.RestaurantApproved, &owner)

	// Existing menu gets replaced wholesale
	db.Pool.Exec(ctx, `INSERT INTO menus (res_id, name, price) VALUES ($1, 'Old Dish', 50)`, resID)
	db.Pool.Exec(ctx, `INSERT INTO menus (res_id, name, price) VALUES ($1, 'Older Dish', 40)`, resID)

	foodType := "Thai"
	update := RestaurantUpdate{
		Name:        "New Name",
		Description: "Renovated",
		FoodType:    &foodType,
		HasDelivery: true,
		HasDineIn:   true,
	}
	menus := []models.ProposedMenuItem{{Name: "New Dish", Price: 80}}

	if err := db.UpdateRestaurant(ctx, resID, update, menus); err != nil {
		t.Fatalf("UpdateRestaurant() error = %v", err)
	}

	updated, err := db.GetRestaurantByID(ctx, resID)
	if err != nil {
		t.Fatalf("GetRestaurantByID() error = %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("Name = %q, want %q", updated.Name, "New Name")
	}
	if updated.FoodType == nil || *updated.FoodType != "Thai" {
		t.Error("UpdateRestaurant() did not set FoodType")
	}
	if !updated.HasDelivery {
		t.Error("UpdateRestaurant() did not set HasDelivery")
	}

	items, err := db.GetMenuItems(ctx, resID)
	if err != nil {
		t.Fatalf("GetMenuItems() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "New Dish" {
		t.Errorf("menu after update = %v, want single item New Dish", items)
	}
}

func TestUpdateRestaurant_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.UpdateRestaurant(context.Background(), uuid.New(), RestaurantUpdate{Name: "Ghost"}, nil)
	if err != ErrRestaurantNotFound {
		t.Errorf("UpdateRestaurant() error = %v, want ErrRestaurantNotFound", err)
	}
}

func TestReplaceMenu_Empty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	resID := createTestRestaurant(t, db, "Emptied Menu", models.RestaurantApproved, nil)
	db.Pool.Exec(ctx, `INSERT INTO menus (res_id, name, price) VALUES ($1, 'Last Dish', 99)`, resID)

	if err := db.ReplaceMenu(ctx, resID, nil); err != nil {
		t.Fatalf("ReplaceMenu() error = %v", err)
	}

	items, err := db.GetMenuItems(ctx, resID)
	if err != nil {
		t.Fatalf("GetMenuItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("menu after empty replace = %d items, want 0", len(items))
	}
}

func TestSuspendRestaurant_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	resID := createTestRestaurant(t, db, "Suspend Me", models.RestaurantApproved, nil)

	if err := db.SuspendRestaurant(ctx, resID); err != nil {
		t.Fatalf("SuspendRestaurant() first error = %v", err)
	}
	if err := db.SuspendRestaurant(ctx, resID); err != nil {
		t.Errorf("SuspendRestaurant() second error = %v, want nil", err)
	}

	restaurant, err := db.GetRestaurantByID(ctx, resID)
	if err != nil {
		t.Fatalf("GetRestaurantByID() error = %v", err)
	}
	if restaurant.Status != models.RestaurantSuspended {
		t.Errorf("restaurant status = %q, want %q", restaurant.Status, models.RestaurantSuspended)
	}
}

func TestSuspendRestaurant_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.SuspendRestaurant(context.Background(), uuid.New())
	if err != ErrRestaurantNotFound {
		t.Errorf("SuspendRestaurant() error = %v, want ErrRestaurantNotFound", err)
	}
}

func TestUnsuspendRestaurant_PurgesReapprovalRequests(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestUser(t, db, "restored-owner", models.RoleUser)
	resID := createTestRestaurant(t, db, "Restored Place", models.RestaurantSuspended, &owner)

	// A pending reapproval request, and a location request that must survive
	reapprovalID := createTestEditRequest(t, db, owner, models.EditTypeReapproval, models.ReapprovalData{}, &resID)
	locationID := createTestEditRequest(t, db, owner, models.EditTypeUpdateLocation,
		models.LocationUpdateData{Latitude: 18.79, Longitude: 98.98}, &resID)

	if err := db.UnsuspendRestaurant(ctx, resID); err != nil {
		t.Fatalf("UnsuspendRestaurant() error = %v", err)
	}

	restaurant, err := db.GetRestaurantByID(ctx, resID)
	if err != nil {
		t.Fatalf("GetRestaurantByID() error = %v", err)
	}
	if restaurant.Status != models.RestaurantApproved {
		t.Errorf("restaurant status = %q, want %q", restaurant.Status, models.RestaurantApproved)
	}

	if _, err := db.GetEditRequestByID(ctx, reapprovalID); err != ErrEditRequestNotFound {
		t.Errorf("reapproval request error = %v after restore, want ErrEditRequestNotFound", err)
	}
	if _, err := db.GetEditRequestByID(ctx, locationID); err != nil {
		t.Errorf("location request error = %v after restore, want nil", err)
	}
}

func TestUnsuspendRestaurant_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.UnsuspendRestaurant(context.Background(), uuid.New())
	if err != ErrRestaurantNotFound {
		t.Errorf("UnsuspendRestaurant() error = %v, want ErrRestaurantNotFound", err)
	}
}

func TestDeleteRestaurant_Cascades(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestUser(t, db, "deleted-owner", models.RoleUser)
	reporter := createTestUser(t, db, "deleted-reporter", models.RoleUser)
	resID := createTestRestaurant(t, db, "Doomed Place", models.RestaurantApproved, &owner)

	db.Pool.Exec(ctx, `INSERT INTO menus (res_id, name, price) VALUES ($1, 'Doomed Dish', 10)`, resID)
	commentID := createTestComment(t, db, reporter, resID, "Doomed comment")
	complaintID := createTestComplaint(t, db, &reporter, nil, &resID)
	editID := createTestEditRequest(t, db, owner, models.EditTypeUpdateLocation,
		models.LocationUpdateData{Latitude: 18.79, Longitude: 98.98}, &resID)

	if err := db.DeleteRestaurant(ctx, resID); err != nil {
		t.Fatalf("DeleteRestaurant() error = %v", err)
	}

	if _, err := db.GetRestaurantByID(ctx, resID); err != ErrRestaurantNotFound {
		t.Errorf("GetRestaurantByID() error = %v, want ErrRestaurantNotFound", err)
	}
	if _, err := db.GetCommentByID(ctx, commentID); err != ErrCommentNotFound {
		t.Errorf("GetCommentByID() error = %v, want ErrCommentNotFound", err)
	}
	if _, err := db.GetComplaintByID(ctx, complaintID); err != ErrComplaintNotFound {
		t.Errorf("GetComplaintByID() error = %v, want ErrComplaintNotFound", err)
	}
	if _, err := db.GetEditRequestByID(ctx, editID); err != ErrEditRequestNotFound {
		t.Errorf("GetEditRequestByID() error = %v, want ErrEditRequestNotFound", err)
	}

	var menuCount int
	db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM menus`).Scan(&menuCount)
	if menuCount != 0 {
		t.Errorf("menu count = %d after delete, want 0", menuCount)
	}
}

func TestDeleteRestaurant_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.DeleteRestaurant(context.Background(), uuid.New())
	if err != ErrRestaurantNotFound {
		t.Errorf("DeleteRestaurant() error = %v, want ErrRestaurantNotFound", err)
	}
}
