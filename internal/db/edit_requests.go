package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

// GetEditRequestByID retrieves an edit request with submitter info.
func (d *DB) GetEditRequestByID(ctx context.Context, id int64) (*models.EditRequest, error) {
	query := `
		SELECT r.id, r.edit_type, r.status, r.proposed_data, r.user_id, r.res_id,
			r.rejection_reason, r.reviewed_by, r.reviewed_at, r.created_at,
			COALESCE(u.user_name, ''), u.avatar_url
		FROM restaurant_edits r
		LEFT JOIN user_profiles u ON u.id = r.user_id
		WHERE r.id = $1
	`
	var req models.EditRequest
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EditType, &req.Status, &req.ProposedData, &req.UserID, &req.RestaurantID,
		&req.RejectionReason, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt,
		&req.SubmitterName, &req.SubmitterAvatar,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEditRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetPendingEditRequests returns all pending edit requests, oldest first.
func (d *DB) GetPendingEditRequests(ctx context.Context) ([]models.EditRequest, error) {
	query := `
		SELECT r.id, r.edit_type, r.status, r.proposed_data, r.user_id, r.res_id,
			r.rejection_reason, r.reviewed_by, r.reviewed_at, r.created_at,
			COALESCE(u.user_name, ''), u.avatar_url
		FROM restaurant_edits r
		LEFT JOIN user_profiles u ON u.id = r.user_id
		WHERE r.status = $1
		ORDER BY r.created_at ASC
	`
	rows, err := d.Pool.Query(ctx, query, models.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.EditRequest
	for rows.Next() {
		var req models.EditRequest
		if err := rows.Scan(
			&req.ID, &req.EditType, &req.Status, &req.ProposedData, &req.UserID, &req.RestaurantID,
			&req.RejectionReason, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt,
			&req.SubmitterName, &req.SubmitterAvatar,
		); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// ApproveEditRequest approves a pending edit request and applies its proposed
// data in the same transaction: the request cannot end up approved without
// the restaurant mutation, nor the other way around.
//
// Returns ErrEditRequestNotFound if no such request exists and
// ErrAlreadyReviewed if it has left the pending state; the payload is decoded
// and validated before any write.
func (d *DB) ApproveEditRequest(ctx context.Context, id int64, adminID uuid.UUID) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the request row so concurrent reviews serialize; the status check
	// below then decides the race.
	var req models.EditRequest
	err = tx.QueryRow(ctx, `
		SELECT id, edit_type, status, proposed_data, user_id, res_id
		FROM restaurant_edits
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&req.ID, &req.EditType, &req.Status, &req.ProposedData, &req.UserID, &req.RestaurantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrEditRequestNotFound
	}
	if err != nil {
		return err
	}
	if req.Status != models.StatusPending {
		return ErrAlreadyReviewed
	}

	switch req.EditType {
	case models.EditTypeNewRestaurant, models.EditTypeUpdateLocation, models.EditTypeReapproval:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEditType, req.EditType)
	}

	data, err := models.DecodeProposedData(req.EditType, req.ProposedData)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProposedData, err)
	}

	if err := applyProposedData(ctx, tx, &req, data); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE restaurant_edits
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4
	`, models.StatusApproved, adminID, time.Now(), id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// applyProposedData performs the restaurant mutation for an approved request
// inside the approval transaction.
func applyProposedData(ctx context.Context, tx pgx.Tx, req *models.EditRequest, data models.ProposedData) error {
	switch d := data.(type) {
	case models.NewRestaurantData:
		var resID uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO restaurants (res_name, description, detail, phone_no, location, food_type,
				latitude, longitude, res_img, gallery_imgs_urls, promo_imgs_urls, opening_hours,
				has_delivery, has_dine_in, is_open, status, owner_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			RETURNING id
		`, d.Name, d.Description, d.Detail, d.PhoneNo, d.Location, d.FoodType,
			d.Latitude, d.Longitude, d.CoverImageURL, d.GalleryImageURLs, d.PromoImageURLs, d.OpeningHours,
			d.HasDelivery, d.HasDineIn, d.IsOpen, models.RestaurantApproved, req.UserID).Scan(&resID)
		if err != nil {
			return err
		}
		for _, item := range d.Menus {
			if _, err := tx.Exec(ctx, `
				INSERT INTO menus (res_id, name, price) VALUES ($1, $2, $3)
			`, resID, item.Name, item.Price); err != nil {
				return err
			}
		}
		return nil

	case models.LocationUpdateData:
		if req.RestaurantID == nil {
			return ErrMissingRestaurantRef
		}
		result, err := tx.Exec(ctx, `
			UPDATE restaurants
			SET latitude = $1, longitude = $2, location = COALESCE($3, location)
			WHERE id = $4
		`, d.Latitude, d.Longitude, d.Location, *req.RestaurantID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrRestaurantNotFound
		}
		return nil

	case models.ReapprovalData:
		if req.RestaurantID == nil {
			return ErrMissingRestaurantRef
		}
		result, err := tx.Exec(ctx, `
			UPDATE restaurants SET status = $1 WHERE id = $2
		`, models.RestaurantApproved, *req.RestaurantID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrRestaurantNotFound
		}
		return nil

	default:
		return fmt.Errorf("%w: %T", ErrInvalidProposedData, data)
	}
}

// RejectEditRequest rejects a pending edit request with a reason.
// The target restaurant is never touched. A blank reason fails before any
// write occurs.
func (d *DB) RejectEditRequest(ctx context.Context, id int64, adminID uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrBlankReason
	}

	result, err := d.Pool.Exec(ctx, `
		UPDATE restaurant_edits
		SET status = $1, rejection_reason = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $5 AND status = $6
	`, models.StatusRejected, reason, adminID, time.Now(), id, models.StatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.editRequestConflict(ctx, id)
	}
	return nil
}

// editRequestConflict distinguishes a missing request from one that has
// already been reviewed, after an optimistic update matched no rows.
func (d *DB) editRequestConflict(ctx context.Context, id int64) error {
	var status string
	err := d.Pool.QueryRow(ctx, `
		SELECT status FROM restaurant_edits WHERE id = $1
	`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrEditRequestNotFound
	}
	if err != nil {
		return err
	}
	return ErrAlreadyReviewed
}
