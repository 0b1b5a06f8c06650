package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Complaint status constants
const (
	ComplaintPending  = "pending"
	ComplaintResolved = "resolved"
)

// ErrMalformedTarget is returned when a complaint references neither a
// comment nor a restaurant. Such a row is malformed and no action may be
// taken on it.
var ErrMalformedTarget = errors.New("complaint references neither a comment nor a restaurant")

// Complaint represents an abuse report against a comment or a restaurant.
type Complaint struct {
	ID           int64      `json:"id"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"` // pending, resolved
	ReporterID   *uuid.UUID `json:"reporter_id"`
	CommentID    *int64     `json:"comment_id"`
	RestaurantID *uuid.UUID `json:"res_id"`
	CreatedAt    time.Time  `json:"created_at"`

	// Non-DB fields, populated via JOIN for display
	ReporterName   string  `json:"reporter_name,omitempty"`
	CommentContent *string `json:"comment_content,omitempty"`
	RestaurantName *string `json:"restaurant_name,omitempty"`
}

// ComplaintTarget is the subject of a complaint: exactly one of
// CommentTarget or RestaurantTarget.
type ComplaintTarget interface {
	isComplaintTarget()
}

// CommentTarget identifies a reported comment.
type CommentTarget struct {
	CommentID int64
}

// RestaurantTarget identifies a reported restaurant.
type RestaurantTarget struct {
	RestaurantID uuid.UUID
}

func (CommentTarget) isComplaintTarget()    {}
func (RestaurantTarget) isComplaintTarget() {}

// Target resolves the complaint's mutually-exclusive target references into
// a single typed target. A comment reference wins when both are somehow set;
// neither set yields ErrMalformedTarget before any action is attempted.
func (c *Complaint) Target() (ComplaintTarget, error) {
	if c.CommentID != nil {
		return CommentTarget{CommentID: *c.CommentID}, nil
	}
	if c.RestaurantID != nil {
		return RestaurantTarget{RestaurantID: *c.RestaurantID}, nil
	}
	return nil, ErrMalformedTarget
}
