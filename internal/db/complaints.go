package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

// GetComplaintByID retrieves a complaint with reporter and target context.
func (d *DB) GetComplaintByID(ctx context.Context, id int64) (*models.Complaint, error) {
	query := `
		SELECT c.id, c.reason, c.status, c.reporter_id, c.comment_id, c.res_id, c.created_at,
			COALESCE(u.user_name, ''), cm.content, r.res_name
		FROM complaints c
		LEFT JOIN user_profiles u ON u.id = c.reporter_id
		LEFT JOIN comments cm ON cm.id = c.comment_id
		LEFT JOIN restaurants r ON r.id = c.res_id
		WHERE c.id = $1
	`
	var complaint models.Complaint
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID, &complaint.Reason, &complaint.Status,
		&complaint.ReporterID, &complaint.CommentID, &complaint.RestaurantID, &complaint.CreatedAt,
		&complaint.ReporterName, &complaint.CommentContent, &complaint.RestaurantName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// GetPendingComplaints returns all pending complaints, oldest first.
func (d *DB) GetPendingComplaints(ctx context.Context) ([]models.Complaint, error) {
	query := `
		SELECT c.id, c.reason, c.status, c.reporter_id, c.comment_id, c.res_id, c.created_at,
			COALESCE(u.user_name, ''), cm.content, r.res_name
		FROM complaints c
		LEFT JOIN user_profiles u ON u.id = c.reporter_id
		LEFT JOIN comments cm ON cm.id = c.comment_id
		LEFT JOIN restaurants r ON r.id = c.res_id
		WHERE c.status = $1
		ORDER BY c.created_at ASC
	`
	rows, err := d.Pool.Query(ctx, query, models.ComplaintPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		var complaint models.Complaint
		if err := rows.Scan(
			&complaint.ID, &complaint.Reason, &complaint.Status,
			&complaint.ReporterID, &complaint.CommentID, &complaint.RestaurantID, &complaint.CreatedAt,
			&complaint.ReporterName, &complaint.CommentContent, &complaint.RestaurantName,
		); err != nil {
			return nil, err
		}
		complaints = append(complaints, complaint)
	}
	return complaints, rows.Err()
}

// DismissComplaint marks a pending complaint as resolved without touching
// any other record. The pending precondition makes concurrent resolutions
// lose cleanly with ErrComplaintResolved.
func (d *DB) DismissComplaint(ctx context.Context, id int64) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE complaints SET status = $1 WHERE id = $2 AND status = $3
	`, models.ComplaintResolved, id, models.ComplaintPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return complaintConflict(ctx, d.Pool, id)
	}
	return nil
}

// ResolveComplaintDeletingComment deletes the reported comment and resolves
// the complaint in a single transaction. A missing comment is a hard failure:
// the moderation intent cannot be fulfilled, so nothing is committed. The
// delete nulls the complaint's comment_id reference; the complaint row itself
// survives as the audit record of the resolution.
func (d *DB) ResolveComplaintDeletingComment(ctx context.Context, complaintID, commentID int64) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCommentNotFound
	}

	result, err = tx.Exec(ctx, `
		UPDATE complaints SET status = $1 WHERE id = $2 AND status = $3
	`, models.ComplaintResolved, complaintID, models.ComplaintPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return complaintConflict(ctx, tx, complaintID)
	}

	return tx.Commit(ctx)
}

// ResolveComplaintSuspendingRestaurant suspends the reported restaurant and
// resolves the complaint in a single transaction. Suspending an
// already-suspended restaurant is a no-op success.
func (d *DB) ResolveComplaintSuspendingRestaurant(ctx context.Context, complaintID int64, restaurantID uuid.UUID) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE restaurants SET status = $1 WHERE id = $2
	`, models.RestaurantSuspended, restaurantID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}

	result, err = tx.Exec(ctx, `
		UPDATE complaints SET status = $1 WHERE id = $2 AND status = $3
	`, models.ComplaintResolved, complaintID, models.ComplaintPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return complaintConflict(ctx, tx, complaintID)
	}

	return tx.Commit(ctx)
}

// rowQuerier is the single-row read surface shared by *pgxpool.Pool and
// pgx.Tx, so diagnostics run inside an open transaction see its writes.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// complaintConflict distinguishes a missing complaint from one already
// resolved, after an optimistic update matched no rows.
func complaintConflict(ctx context.Context, q rowQuerier, id int64) error {
	var status string
	err := q.QueryRow(ctx, `SELECT status FROM complaints WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrComplaintNotFound
	}
	if err != nil {
		return err
	}
	return ErrComplaintResolved
}
