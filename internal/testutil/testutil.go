// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KaitoZan/fnm-dashboard/internal/db"
)

// TestDB creates a test database connection and returns a cleanup function.
// Skips the calling test when TEST_DATABASE_URL is not set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		// Clean up test data
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	// Delete in order to respect foreign keys
	pool.Exec(ctx, "DELETE FROM notifications")
	pool.Exec(ctx, "DELETE FROM complaints")
	pool.Exec(ctx, "DELETE FROM comments")
	pool.Exec(ctx, "DELETE FROM restaurant_edits")
	pool.Exec(ctx, "DELETE FROM menus")
	pool.Exec(ctx, "DELETE FROM restaurants")
	pool.Exec(ctx, "DELETE FROM user_profiles")
}

// CreateTestUser creates a test user and returns the user ID.
func CreateTestUser(t *testing.T, database *db.DB, sub, role string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO user_profiles (sub, user_name, email, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sub) DO UPDATE SET role = EXCLUDED.role
		RETURNING id
	`, sub, fmt.Sprintf("Test User %s", sub), sub+"@example.com", role).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return id
}

// CreateTestRestaurant creates a test restaurant and returns its ID.
// ownerID may be nil for an ownerless restaurant.
func CreateTestRestaurant(t *testing.T, database *db.DB, name, status string, ownerID *uuid.UUID) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO restaurants (res_name, description, latitude, longitude, status, owner_id)
		VALUES ($1, 'Test restaurant', 13.75, 100.5, $2, $3)
		RETURNING id
	`, name, status, ownerID).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test restaurant: %v", err)
	}

	return id
}

// CreateTestMenuItem adds one menu item to a restaurant and returns its ID.
func CreateTestMenuItem(t *testing.T, database *db.DB, restaurantID uuid.UUID, name string, price float64) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO menus (res_id, name, price) VALUES ($1, $2, $3) RETURNING id
	`, restaurantID, name, price).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test menu item: %v", err)
	}

	return id
}

// CreateTestComment creates a comment on a restaurant and returns its ID.
func CreateTestComment(t *testing.T, database *db.DB, userID, restaurantID uuid.UUID, content string) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO comments (user_id, res_id, content) VALUES ($1, $2, $3) RETURNING id
	`, userID, restaurantID, content).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}

	return id
}

// CreateTestEditRequest creates a pending edit request and returns its ID.
// restaurantID may be nil for new-restaurant submissions.
func CreateTestEditRequest(t *testing.T, database *db.DB, userID uuid.UUID, editType string, proposed any, restaurantID *uuid.UUID) int64 {
	t.Helper()
	ctx := context.Background()

	raw, err := json.Marshal(proposed)
	if err != nil {
		t.Fatalf("failed to encode proposed data: %v", err)
	}

	var id int64
	err = database.Pool.QueryRow(ctx, `
		INSERT INTO restaurant_edits (user_id, res_id, edit_type, proposed_data, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id
	`, userID, restaurantID, editType, raw).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test edit request: %v", err)
	}

	return id
}

// CreateTestComplaint creates a pending complaint and returns its ID.
// Exactly one of commentID and restaurantID should be set; passing both nil
// creates the malformed row some tests need.
func CreateTestComplaint(t *testing.T, database *db.DB, reporterID *uuid.UUID, commentID *int64, restaurantID *uuid.UUID) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO complaints (reporter_id, comment_id, res_id, reason, status)
		VALUES ($1, $2, $3, 'Test report', 'pending')
		RETURNING id
	`, reporterID, commentID, restaurantID).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test complaint: %v", err)
	}

	return id
}

// CountNotifications returns how many notifications a user has received.
func CountNotifications(t *testing.T, database *db.DB, userID uuid.UUID) int64 {
	t.Helper()
	ctx := context.Background()

	var count int64
	err := database.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}

	return count
}
