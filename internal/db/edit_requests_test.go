package db

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

func skipIfNoTestDB(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}
}

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()
	skipIfNoTestDB(t)

	connString := os.Getenv("TEST_DATABASE_URL")

	ctx := context.Background()
	database, err := New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		// Clean up in order
		database.Pool.Exec(ctx, "DELETE FROM notifications")
		database.Pool.Exec(ctx, "DELETE FROM complaints")
		database.Pool.Exec(ctx, "DELETE FROM comments")
		database.Pool.Exec(ctx, "DELETE FROM restaurant_edits")
		database.Pool.Exec(ctx, "DELETE FROM menus")
		database.Pool.Exec(ctx, "DELETE FROM restaurants")
		database.Pool.Exec(ctx, "DELETE FROM user_profiles")
		database.Close()
	}

	return database, cleanup
}

func createTestUser(t *testing.T, db *DB, sub, role string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.Pool.QueryRow(context.Background(), `
		INSERT INTO user_profiles (sub, user_name, email, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sub) DO UPDATE SET role = EXCLUDED.role
		RETURNING id
	`, sub, "Test User "+sub, sub+"@example.com", role).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return id
}

func createTestRestaurant(t *testing.T, db *DB, name, status string, ownerID *uuid.UUID) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.Pool.QueryRow(context.Background(), `
		INSERT INTO restaurants (res_name, description, latitude, longitude, status, owner_id)
		VALUES ($1, 'Test restaurant', 13.75, 100.5, $2, $3)
		RETURNING id
	`, name, status, ownerID).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test restaurant: %v", err)
	}
	return id
}

func createTestEditRequest(t *testing.T, db *DB, userID uuid.UUID, editType string, proposed any, restaurantID *uuid.UUID) int64 {
	t.Helper()

	raw, err := json.Marshal(proposed)
	if err != nil {
		t.Fatalf("failed to encode proposed data: %v", err)
	}

	var id int64
	err = db.Pool.QueryRow(context.Background(), `
		INSERT INTO restaurant_edits (user_id, res_id, edit_type, proposed_data, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id
	`, userID, restaurantID, editType, raw).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test edit request: %v", err)
	}
	return id
}

func TestApproveEditRequest_NewRestaurant(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "submitter", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	payload := models.NewRestaurantData{
		Name:        "Som Tam Corner",
		Description: "Isan food",
		Latitude:    13.75,
		Longitude:   100.5,
		Menus: []models.ProposedMenuItem{
			{Name: "Som Tam", Price: 60},
			{Name: "Grilled Chicken", Price: 120},
		},
	}
	reqID := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant, payload, nil)

	if err := db.ApproveEditRequest(ctx, reqID, admin); err != nil {
		t.Fatalf("ApproveEditRequest() error = %v", err)
	}

	// The new restaurant should exist, approved, owned by the submitter
	var resID uuid.UUID
	var status string
	var ownerID *uuid.UUID
	err := db.Pool.QueryRow(ctx, `
		SELECT id, status, owner_id FROM restaurants WHERE res_name = $1
	`, "Som Tam Corner").Scan(&resID, &status, &ownerID)
	if err != nil {
		t.Fatalf("approved restaurant not found: %v", err)
	}
	if status != models.RestaurantApproved {
		t.Errorf("restaurant status = %q, want %q", status, models.RestaurantApproved)
	}
	if ownerID == nil || *ownerID != submitter {
		t.Error("restaurant owner was not set to the submitter")
	}

	menus, err := db.GetMenuItems(ctx, resID)
	if err != nil {
		t.Fatalf("GetMenuItems() error = %v", err)
	}
	if len(menus) != 2 {
		t.Errorf("GetMenuItems() returned %d items, want 2", len(menus))
	}

	approved, err := db.GetEditRequestByID(ctx, reqID)
	if err != nil {
		t.Fatalf("GetEditRequestByID() error = %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("request status = %q, want %q", approved.Status, models.StatusApproved)
	}
	if approved.ReviewedBy == nil || *approved.ReviewedBy != admin {
		t.Error("ApproveEditRequest() did not set ReviewedBy")
	}
	if approved.ReviewedAt == nil {
		t.Error("ApproveEditRequest() did not set ReviewedAt")
	}
}

func TestApproveEditRequest_NewRestaurant_EmptyMenu(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "menuless", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	payload := models.NewRestaurantData{
		Name:      "No Menu Yet",
		Latitude:  13.75,
		Longitude: 100.5,
	}
	reqID := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant, payload, nil)

	if err := db.ApproveEditRequest(ctx, reqID, admin); err != nil {
		t.Fatalf("ApproveEditRequest() error = %v", err)
	}

	var resID uuid.UUID
	if err := db.Pool.QueryRow(ctx, `
		SELECT id FROM restaurants WHERE res_name = $1
	`, "No Menu Yet").Scan(&resID); err != nil {
		t.Fatalf("approved restaurant not found: %v", err)
	}

	menus, err := db.GetMenuItems(ctx, resID)
	if err != nil {
		t.Fatalf("GetMenuItems() error = %v", err)
	}
	if len(menus) != 0 {
		t.Errorf("GetMenuItems() returned %d items, want 0", len(menus))
	}
}

func TestApproveEditRequest_UpdateLocation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "mover", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	resID := createTestRestaurant(t, db, "Moving Noodles", models.RestaurantApproved, &submitter)

	payload := models.LocationUpdateData{Latitude: 18.79, Longitude: 98.98}
	reqID := createTestEditRequest(t, db, submitter, models.EditTypeUpdateLocation, payload, &resID)

	if err := db.ApproveEditRequest(ctx, reqID, admin); err != nil {
		t.Fatalf("ApproveEditRequest() error = %v", err)
	}

	updated, err := db.GetRestaurantByID(ctx, resID)
	if err != nil {
		t.Fatalf("GetRestaurantByID() error = %v", err)
	}
	if updated.Latitude != 18.79 || updated.Longitude != 98.98 {
		t.Errorf("coordinates = (%v, %v), want (18.79, 98.98)", updated.Latitude, updated.Longitude)
	}
}

func TestApproveEditRequest_Reapproval(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestUser(t, db, "suspended-owner", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	resID := createTestRestaurant(t, db, "Second Chance", models.RestaurantSuspended, &owner)

	reqID := createTestEditRequest(t, db, owner, models.EditTypeReapproval, models.ReapprovalData{}, &resID)

	if err := db.ApproveEditRequest(ctx, reqID, admin); err != nil {
		t.Fatalf("ApproveEditRequest() error = %v", err)
	}

	restored, err := db.GetRestaurantByID(ctx, resID)
	if err != nil {
		t.Fatalf("GetRestaurantByID() error = %v", err)
	}
	if restored.Status != models.RestaurantApproved {
		t.Errorf("restaurant status = %q, want %q", restored.Status, models.RestaurantApproved)
	}
}

func TestApproveEditRequest_AlreadyReviewed(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "repeat", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	payload := models.NewRestaurantData{Name: "Once Only", Latitude: 13.75, Longitude: 100.5}
	reqID := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant, payload, nil)

	if err := db.ApproveEditRequest(ctx, reqID, admin); err != nil {
		t.Fatalf("ApproveEditRequest() first error = %v", err)
	}

	err := db.ApproveEditRequest(ctx, reqID, admin)
	if err != ErrAlreadyReviewed {
		t.Errorf("ApproveEditRequest() second error = %v, want ErrAlreadyReviewed", err)
	}

	// The second call must not create a duplicate restaurant
	var count int
	db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurants WHERE res_name = $1`, "Once Only").Scan(&count)
	if count != 1 {
		t.Errorf("restaurant count = %d, want 1", count)
	}
}

func TestApproveEditRequest_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.ApproveEditRequest(context.Background(), 999999, uuid.New())
	if err != ErrEditRequestNotFound {
		t.Errorf("ApproveEditRequest() error = %v, want ErrEditRequestNotFound", err)
	}
}

func TestApproveEditRequest_UnknownEditType(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "weird", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	reqID := createTestEditRequest(t, db, submitter, "rename_owner", map[string]any{}, nil)

	err := db.ApproveEditRequest(ctx, reqID, admin)
	if !errors.Is(err, ErrUnknownEditType) {
		t.Errorf("ApproveEditRequest() error = %v, want ErrUnknownEditType", err)
	}

	// Nothing was written; the request is still reviewable
	req, getErr := db.GetEditRequestByID(ctx, reqID)
	if getErr != nil {
		t.Fatalf("GetEditRequestByID() error = %v", getErr)
	}
	if req.Status != models.StatusPending {
		t.Errorf("request status = %q after failed approval, want %q", req.Status, models.StatusPending)
	}
}

func TestApproveEditRequest_InvalidPayload(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "blank-name", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	// new_restaurant with a blank name fails validation during decode
	payload := models.NewRestaurantData{Name: "   ", Latitude: 13.75, Longitude: 100.5}
	reqID := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant, payload, nil)

	err := db.ApproveEditRequest(ctx, reqID, admin)
	if !errors.Is(err, ErrInvalidProposedData) {
		t.Errorf("ApproveEditRequest() error = %v, want ErrInvalidProposedData", err)
	}

	var count int
	db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&count)
	if count != 0 {
		t.Errorf("restaurant count = %d after failed approval, want 0", count)
	}
}

func TestApproveEditRequest_MissingRestaurantRef(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "refless", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	payload := models.LocationUpdateData{Latitude: 18.79, Longitude: 98.98}
	reqID := createTestEditRequest(t, db, submitter, models.EditTypeUpdateLocation, payload, nil)

	err := db.ApproveEditRequest(ctx, reqID, admin)
	if err != ErrMissingRestaurantRef {
		t.Errorf("ApproveEditRequest() error = %v, want ErrMissingRestaurantRef", err)
	}
}

func TestRejectEditRequest(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "rejected", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	payload := models.NewRestaurantData{Name: "Not Good Enough", Latitude: 13.75, Longitude: 100.5}
	reqID := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant, payload, nil)

	if err := db.RejectEditRequest(ctx, reqID, admin, "Duplicate listing"); err != nil {
		t.Fatalf("RejectEditRequest() error = %v", err)
	}

	rejected, err := db.GetEditRequestByID(ctx, reqID)
	if err != nil {
		t.Fatalf("GetEditRequestByID() error = %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Errorf("request status = %q, want %q", rejected.Status, models.StatusRejected)
	}
	if rejected.RejectionReason == nil || *rejected.RejectionReason != "Duplicate listing" {
		t.Error("RejectEditRequest() did not store the rejection reason")
	}

	// Rejection never touches restaurants
	var count int
	db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&count)
	if count != 0 {
		t.Errorf("restaurant count = %d after rejection, want 0", count)
	}
}

func TestRejectEditRequest_BlankReason(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "no-reason", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	payload := models.NewRestaurantData{Name: "Reasonless", Latitude: 13.75, Longitude: 100.5}
	reqID := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant, payload, nil)

	err := db.RejectEditRequest(ctx, reqID, admin, "   ")
	if err != ErrBlankReason {
		t.Errorf("RejectEditRequest() error = %v, want ErrBlankReason", err)
	}

	req, getErr := db.GetEditRequestByID(ctx, reqID)
	if getErr != nil {
		t.Fatalf("GetEditRequestByID() error = %v", getErr)
	}
	if req.Status != models.StatusPending {
		t.Errorf("request status = %q after blank-reason reject, want %q", req.Status, models.StatusPending)
	}
}

func TestRejectEditRequest_AlreadyReviewed(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "double-reject", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	payload := models.NewRestaurantData{Name: "Twice Denied", Latitude: 13.75, Longitude: 100.5}
	reqID := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant, payload, nil)

	if err := db.RejectEditRequest(ctx, reqID, admin, "First denial"); err != nil {
		t.Fatalf("RejectEditRequest() first error = %v", err)
	}

	err := db.RejectEditRequest(ctx, reqID, admin, "Second denial")
	if err != ErrAlreadyReviewed {
		t.Errorf("RejectEditRequest() second error = %v, want ErrAlreadyReviewed", err)
	}
}

func TestRejectEditRequest_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.RejectEditRequest(context.Background(), 999999, uuid.New(), "No such request")
	if err != ErrEditRequestNotFound {
		t.Errorf("RejectEditRequest() error = %v, want ErrEditRequestNotFound", err)
	}
}

func TestGetPendingEditRequests(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	submitter := createTestUser(t, db, "lister", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	first := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant,
		models.NewRestaurantData{Name: "First In", Latitude: 13.75, Longitude: 100.5}, nil)
	second := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant,
		models.NewRestaurantData{Name: "Second In", Latitude: 13.75, Longitude: 100.5}, nil)

	reviewed := createTestEditRequest(t, db, submitter, models.EditTypeNewRestaurant,
		models.NewRestaurantData{Name: "Already Done", Latitude: 13.75, Longitude: 100.5}, nil)
	if err := db.RejectEditRequest(ctx, reviewed, admin, "Cleared out"); err != nil {
		t.Fatalf("RejectEditRequest() error = %v", err)
	}

	pending, err := db.GetPendingEditRequests(ctx)
	if err != nil {
		t.Fatalf("GetPendingEditRequests() error = %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("GetPendingEditRequests() returned %d, want 2", len(pending))
	}
	if pending[0].ID != first || pending[1].ID != second {
		t.Error("GetPendingEditRequests() not ordered oldest first")
	}
	if pending[0].SubmitterName != "Test User lister" {
		t.Errorf("SubmitterName = %q, want %q", pending[0].SubmitterName, "Test User lister")
	}
}
