package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaitoZan/fnm-dashboard/internal/validation"
)

// Edit request status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Edit request type constants
const (
	EditTypeNewRestaurant  = "new_restaurant"
	EditTypeUpdateLocation = "update_location"
	EditTypeReapproval     = "reapproval_from_suspended"
)

// EditRequest represents a user-proposed change to a restaurant record,
// awaiting admin review.
type EditRequest struct {
	ID              int64           `json:"id"`
	EditType        string          `json:"edit_type"` // new_restaurant, update_location, reapproval_from_suspended
	Status          string          `json:"status"`    // pending, approved, rejected
	ProposedData    json.RawMessage `json:"proposed_data"`
	UserID          uuid.UUID       `json:"user_id"`
	RestaurantID    *uuid.UUID      `json:"res_id"`
	RejectionReason *string         `json:"rejection_reason"`
	ReviewedBy      *uuid.UUID      `json:"reviewed_by"`
	ReviewedAt      *time.Time      `json:"reviewed_at"`
	CreatedAt       time.Time       `json:"created_at"`

	// Non-DB fields, populated via JOIN for display
	SubmitterName   string  `json:"submitter_name,omitempty"`
	SubmitterAvatar *string `json:"submitter_avatar,omitempty"`
}

// DisplayTitle maps the edit type to a human-readable label.
// Unrecognized types fall back to a generic label, never an error.
func (r *EditRequest) DisplayTitle() string {
	switch r.EditType {
	case EditTypeNewRestaurant:
		return "New restaurant request"
	case EditTypeUpdateLocation:
		return "Location update request"
	case EditTypeReapproval:
		return "Reapproval request (suspended restaurant)"
	default:
		return "Data change request"
	}
}

// NewRestaurantData is the proposed_data payload for a new_restaurant edit.
type NewRestaurantData struct {
	Name             string             `json:"res_name"`
	Description      string             `json:"description"`
	Detail           *string            `json:"detail"`
	PhoneNo          *string            `json:"phone_no"`
	Location         *string            `json:"location"`
	FoodType         *string            `json:"food_type"`
	Latitude         float64            `json:"latitude"`
	Longitude        float64            `json:"longitude"`
	CoverImageURL    string             `json:"res_img"`
	GalleryImageURLs []string           `json:"gallery_imgs_urls"`
	PromoImageURLs   []string           `json:"promo_imgs_urls"`
	OpeningHours     json.RawMessage    `json:"opening_hours"`
	HasDelivery      bool               `json:"has_delivery"`
	HasDineIn        bool               `json:"has_dine_in"`
	IsOpen           bool               `json:"is_open"`
	Menus            []ProposedMenuItem `json:"menus"`
}

// ProposedMenuItem is one menu entry inside a proposed payload.
type ProposedMenuItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// LocationUpdateData is the proposed_data payload for an update_location edit.
type LocationUpdateData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Location  *string `json:"location"`
}

// ReapprovalData is the proposed_data payload for a reapproval edit.
// The payload carries no fields that matter to the transition; the request's
// res_id identifies the suspended restaurant.
type ReapprovalData struct {
	Note string `json:"note"`
}

// ProposedData is one of NewRestaurantData, LocationUpdateData or
// ReapprovalData, tagged by the request's edit type.
type ProposedData interface {
	isProposedData()
}

func (NewRestaurantData) isProposedData()  {}
func (LocationUpdateData) isProposedData() {}
func (ReapprovalData) isProposedData()     {}

// DecodeProposedData decodes and validates a raw proposed_data payload
// according to the edit type. It is the single point where the schema-less
// payload becomes typed; callers never inspect the raw JSON.
func DecodeProposedData(editType string, raw json.RawMessage) (ProposedData, error) {
	switch editType {
	case EditTypeNewRestaurant:
		var d NewRestaurantData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decoding new_restaurant payload: %w", err)
		}
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("new_restaurant payload: res_name is required")
		}
		if !validation.ValidCoordinates(d.Latitude, d.Longitude) {
			return nil, fmt.Errorf("new_restaurant payload: coordinates out of range")
		}
		return d, nil
	case EditTypeUpdateLocation:
		var d LocationUpdateData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decoding update_location payload: %w", err)
		}
		if !validation.ValidCoordinates(d.Latitude, d.Longitude) {
			return nil, fmt.Errorf("update_location payload: coordinates out of range")
		}
		return d, nil
	case EditTypeReapproval:
		var d ReapprovalData
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("decoding reapproval payload: %w", err)
			}
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown edit type %q", editType)
	}
}
