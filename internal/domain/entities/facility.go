package entities

import (
	"time"
)

// Facility represents a shared-care residential facility (Pflege-WG).
// Facilities are reference data: they are created by seeding, never at
// runtime, and their rooms are long-lived physical entities.
type Facility struct {
	ID           string    `json:"id" db:"id"`
	ShortName    string    `json:"short_name" db:"short_name"`
	Name         string    `json:"name" db:"name"`
	Address      Address   `json:"address" db:"-"`
	Capacity     int       `json:"capacity" db:"capacity"`
	FloorPlanURL *string   `json:"floor_plan_url,omitempty" db:"floor_plan_url"`
	Description  string    `json:"description" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street     string `json:"street" db:"street"`
	City       string `json:"city" db:"city"`
	PostalCode string `json:"postal_code" db:"postal_code"`
	Country    string `json:"country" db:"country"`
}

// FacilitySummary is a facility enriched with its current room counts,
// computed on read.
type FacilitySummary struct {
	Facility
	RoomCounts RoomCounts `json:"room_counts"`
}

// FacilityDetail is a facility plus its rooms, each enriched with occupant
// information when occupied.
type FacilityDetail struct {
	Facility
	Rooms []*RoomView `json:"rooms"`
}
