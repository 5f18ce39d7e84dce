package domain

import "time"

// FoodTrail is a curated sequence of stalls.
type FoodTrail struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	CompletionCount int       `json:"completion_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// TrailStop is one ordered stop on a trail.
type TrailStop struct {
	TrailID  string `json:"-"`
	Position int    `json:"position"`
	VendorID string `json:"vendor_id"`
	Note     string `json:"note,omitempty"`
}

// TrailStopDetail is the detail projection: the stop with its vendor
// embedded. Vendor is nil when the stall has since been removed.
type TrailStopDetail struct {
	TrailStop
	Vendor *Vendor `json:"vendor,omitempty"`
}

// FoodTrailDetail is a trail with its stops resolved.
type FoodTrailDetail struct {
	FoodTrail
	Stops []TrailStopDetail `json:"stops"`
}
