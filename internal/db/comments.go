package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

// GetCommentByID retrieves a single comment.
func (d *DB) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := d.Pool.QueryRow(ctx, `
		SELECT id, res_id, user_id, content, created_at
		FROM comments
		WHERE id = $1
	`, id).Scan(&comment.ID, &comment.RestaurantID, &comment.UserID, &comment.Content, &comment.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
