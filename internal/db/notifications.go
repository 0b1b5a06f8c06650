package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

// InsertNotification inserts one notification row into a user's inbox.
func (d *DB) InsertNotification(ctx context.Context, userID uuid.UUID, title, message string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO notifications (user_id, title, message) VALUES ($1, $2, $3)
	`, userID, title, message)
	return err
}

// GetNotificationsByUser returns a user's notifications, newest first.
func (d *DB) GetNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, user_id, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
