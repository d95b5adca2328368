package entities

import (
	"time"
)

// RoomStatus is the occupancy state of a room
type RoomStatus string

const (
	RoomStatusFree       RoomStatus = "free"
	RoomStatusOccupied   RoomStatus = "occupied"
	RoomStatusReserved   RoomStatus = "reserved"
	RoomStatusRenovation RoomStatus = "renovation"
)

// ValidRoomStatus reports whether s is a known room status
func ValidRoomStatus(s RoomStatus) bool {
	switch s {
	case RoomStatusFree, RoomStatusOccupied, RoomStatusReserved, RoomStatusRenovation:
		return true
	}
	return false
}

// Room is a single assignable unit within a facility. The pair
// (Status, CurrentResidentID) is mutated only through the allocation
// service: CurrentResidentID is non-nil exactly when Status is occupied,
// and then the referenced resident's RoomID must equal this room's ID.
type Room struct {
	ID                string     `json:"id" db:"id"`
	FacilityID        string     `json:"facility_id" db:"facility_id"`
	Number            string     `json:"number" db:"number"`
	Name              *string    `json:"name,omitempty" db:"name"`
	AreaSqm           float64    `json:"area_sqm" db:"area_sqm"`
	Status            RoomStatus `json:"status" db:"status"`
	CurrentResidentID *string    `json:"current_resident_id,omitempty" db:"current_resident_id"`
	Layout            RoomLayout `json:"layout" db:"-"`
	Notes             *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// RoomLayout holds floor-plan coordinates, used only by the interactive
// floor-plan visualization.
type RoomLayout struct {
	PositionX float64 `json:"position_x" db:"position_x"`
	PositionY float64 `json:"position_y" db:"position_y"`
	Width     float64 `json:"width" db:"width"`
	Height    float64 `json:"height" db:"height"`
}

// RoomView is a room enriched with occupant details when occupied
// (read-through join, never stored).
type RoomView struct {
	Room
	ResidentName      *string `json:"resident_name,omitempty"`
	ResidentAge       *int    `json:"resident_age,omitempty"`
	ResidentCareLevel *int    `json:"resident_care_level,omitempty"`
}

// RoomCounts holds per-status room counts for a facility.
// Free + Occupied + Reserved always equals Total; rooms under renovation
// are tracked separately and excluded from the identity.
type RoomCounts struct {
	Free       int `json:"free"`
	Occupied   int `json:"occupied"`
	Reserved   int `json:"reserved"`
	Renovation int `json:"renovation"`
	Total      int `json:"total"`
}
