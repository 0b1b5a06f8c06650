package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user comment on a restaurant.
type Comment struct {
	ID           int64      `json:"id"`
	RestaurantID uuid.UUID  `json:"res_id"`
	UserID       *uuid.UUID `json:"user_id"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at"`
}
