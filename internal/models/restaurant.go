package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Restaurant status constants
const (
	RestaurantPending   = "pending"
	RestaurantApproved  = "approved"
	RestaurantSuspended = "suspended"
)

// Restaurant represents a restaurant listing.
type Restaurant struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"res_name"`
	Description      string          `json:"description"`
	Detail           *string         `json:"detail"`
	PhoneNo          *string         `json:"phone_no"`
	Location         *string         `json:"location"`
	FoodType         *string         `json:"food_type"`
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	CoverImageURL    string          `json:"res_img"`
	GalleryImageURLs []string        `json:"gallery_imgs_urls"`
	PromoImageURLs   []string        `json:"promo_imgs_urls"`
	OpeningHours     json.RawMessage `json:"opening_hours"`
	HasDelivery      bool            `json:"has_delivery"`
	HasDineIn        bool            `json:"has_dine_in"`
	IsOpen           bool            `json:"is_open"`
	Rating           float64         `json:"rating"`
	Status           string          `json:"status"` // pending, approved, suspended
	OwnerID          *uuid.UUID      `json:"owner_id"`
	CreatedAt        time.Time       `json:"created_at"`
}

// IsSuspended returns true if the restaurant is hidden from public listings.
func (r *Restaurant) IsSuspended() bool {
	return r.Status == RestaurantSuspended
}

// MenuItem represents one dish on a restaurant's menu.
// Menu items are owned by their restaurant and replaced wholesale on edit.
type MenuItem struct {
	ID           int64     `json:"id"`
	RestaurantID uuid.UUID `json:"res_id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
}
