package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one entry in a user's in-app inbox.
// Rows are written by the dispatcher only; the read flag is toggled by the
// user-facing app, never by this service.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
