package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

// GetRestaurantByID retrieves a restaurant by its id.
func (d *DB) GetRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var res models.Restaurant
	err := d.Pool.QueryRow(ctx, `
		SELECT id, res_name, description, detail, phone_no, location, food_type,
			latitude, longitude, res_img, gallery_imgs_urls, promo_imgs_urls, opening_hours,
			has_delivery, has_dine_in, is_open, rating, status, owner_id, created_at
		FROM restaurants
		WHERE id = $1
	`, id).Scan(
		&res.ID, &res.Name, &res.Description, &res.Detail, &res.PhoneNo, &res.Location, &res.FoodType,
		&res.Latitude, &res.Longitude, &res.CoverImageURL, &res.GalleryImageURLs, &res.PromoImageURLs, &res.OpeningHours,
		&res.HasDelivery, &res.HasDineIn, &res.IsOpen, &res.Rating, &res.Status, &res.OwnerID, &res.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRestaurants returns all restaurants, newest first.
func (d *DB) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, res_name, description, detail, phone_no, location, food_type,
			latitude, longitude, res_img, gallery_imgs_urls, promo_imgs_urls, opening_hours,
			has_delivery, has_dine_in, is_open, rating, status, owner_id, created_at
		FROM restaurants
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var res models.Restaurant
		if err := rows.Scan(
			&res.ID, &res.Name, &res.Description, &res.Detail, &res.PhoneNo, &res.Location, &res.FoodType,
			&res.Latitude, &res.Longitude, &res.CoverImageURL, &res.GalleryImageURLs, &res.PromoImageURLs, &res.OpeningHours,
			&res.HasDelivery, &res.HasDineIn, &res.IsOpen, &res.Rating, &res.Status, &res.OwnerID, &res.CreatedAt,
		); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, res)
	}
	return restaurants, rows.Err()
}

// GetMenuItems returns a restaurant's menu items in insertion order.
func (d *DB) GetMenuItems(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, res_id, name, price, created_at
		FROM menus
		WHERE res_id = $1
		ORDER BY id ASC
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Price, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RestaurantUpdate carries the admin-editable core fields of a restaurant.
type RestaurantUpdate struct {
	Name        string
	Description string
	Detail      *string
	PhoneNo     *string
	Location    *string
	FoodType    *string
	HasDelivery bool
	HasDineIn   bool
}

// UpdateRestaurant updates the restaurant's core fields and replaces its
// menu in one transaction. Menu replacement is wholesale: all existing rows
// are deleted, then the provided items inserted. An empty list is valid and
// leaves the restaurant with no menu.
func (d *DB) UpdateRestaurant(ctx context.Context, id uuid.UUID, update RestaurantUpdate, menus []models.ProposedMenuItem) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE restaurants
		SET res_name = $1, description = $2, detail = $3, phone_no = $4,
			location = $5, food_type = $6, has_delivery = $7, has_dine_in = $8
		WHERE id = $9
	`, update.Name, update.Description, update.Detail, update.PhoneNo,
		update.Location, update.FoodType, update.HasDelivery, update.HasDineIn, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}

	if err := replaceMenuTx(ctx, tx, id, menus); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReplaceMenu replaces a restaurant's entire menu with the provided items.
func (d *DB) ReplaceMenu(ctx context.Context, restaurantID uuid.UUID, items []models.ProposedMenuItem) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := replaceMenuTx(ctx, tx, restaurantID, items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func replaceMenuTx(ctx context.Context, tx pgx.Tx, restaurantID uuid.UUID, items []models.ProposedMenuItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM menus WHERE res_id = $1`, restaurantID); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO menus (res_id, name, price) VALUES ($1, $2, $3)
		`, restaurantID, item.Name, item.Price); err != nil {
			return err
		}
	}
	return nil
}

// SuspendRestaurant hides a restaurant from public listings.
// Suspending an already-suspended restaurant is a no-op success.
func (d *DB) SuspendRestaurant(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE restaurants SET status = $1 WHERE id = $2
	`, models.RestaurantSuspended, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// UnsuspendRestaurant restores a restaurant to approved and purges any
// reapproval edit requests for it, whatever their status: once the
// restaurant is manually restored those requests are meaningless.
func (d *DB) UnsuspendRestaurant(ctx context.Context, id uuid.UUID) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE restaurants SET status = $1 WHERE id = $2
	`, models.RestaurantApproved, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM restaurant_edits WHERE res_id = $1 AND edit_type = $2
	`, id, models.EditTypeReapproval)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteRestaurant removes a restaurant. Menus, comments, complaints and
// edit requests referencing it are removed by the schema's cascade rules,
// so no dangling references survive the delete.
func (d *DB) DeleteRestaurant(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}
