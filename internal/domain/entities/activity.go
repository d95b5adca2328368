package entities

import (
	"time"
)

// Activity is one immutable audit record of a state change affecting a
// resident. Entries are append-only; they are removed only when the owning
// resident is deleted.
type Activity struct {
	ID         string    `json:"id" db:"id"`
	ResidentID string    `json:"resident_id" db:"resident_id"`
	Actor      string    `json:"actor" db:"actor"`
	Action     string    `json:"action" db:"action"`
	Before     *string   `json:"before,omitempty" db:"before_value"`
	After      *string   `json:"after,omitempty" db:"after_value"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
