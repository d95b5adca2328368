package entities

import (
	"time"
)

// ResidentStatus is a resident's stage in the intake-to-departure pipeline
type ResidentStatus string

const (
	StatusNew             ResidentStatus = "new"
	StatusInitialContact  ResidentStatus = "initial_contact"
	StatusViewingSet      ResidentStatus = "viewing_scheduled"
	StatusDocumentsSent   ResidentStatus = "documents_sent"
	StatusDecisionPending ResidentStatus = "decision_pending"
	StatusOfferAccepted   ResidentStatus = "offer_accepted"
	StatusMoveInScheduled ResidentStatus = "move_in_scheduled"
	StatusResident        ResidentStatus = "resident"
	StatusMoveOutPlanned  ResidentStatus = "move_out_scheduled"
	StatusMovedOut        ResidentStatus = "moved_out"
	StatusDeceased        ResidentStatus = "deceased"
	StatusCancelled       ResidentStatus = "cancelled"
)

// PipelineOrder lists the ordered intake stages, excluding the terminal
// side branches deceased and cancelled.
var PipelineOrder = []ResidentStatus{
	StatusNew,
	StatusInitialContact,
	StatusViewingSet,
	StatusDocumentsSent,
	StatusDecisionPending,
	StatusOfferAccepted,
	StatusMoveInScheduled,
	StatusResident,
	StatusMoveOutPlanned,
	StatusMovedOut,
}

// StatusLabels maps each status to its board label.
var StatusLabels = map[ResidentStatus]string{
	StatusNew:             "New",
	StatusInitialContact:  "Initial contact",
	StatusViewingSet:      "Viewing scheduled",
	StatusDocumentsSent:   "Documents sent",
	StatusDecisionPending: "Decision pending",
	StatusOfferAccepted:   "Offer accepted",
	StatusMoveInScheduled: "Move-in scheduled",
	StatusResident:        "Resident",
	StatusMoveOutPlanned:  "Move-out scheduled",
	StatusMovedOut:        "Moved out",
	StatusDeceased:        "Deceased",
	StatusCancelled:       "Cancelled",
}

// ValidResidentStatus reports whether s is a known pipeline status
func ValidResidentStatus(s ResidentStatus) bool {
	_, ok := StatusLabels[s]
	return ok
}

// IsTerminal reports whether s ends the pipeline
func (s ResidentStatus) IsTerminal() bool {
	switch s {
	case StatusMovedOut, StatusDeceased, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next respects the ordered
// pipeline: one stage forward or backward along the main track, or a jump
// to a terminal side branch. Only consulted under the strict transition
// policy; the default policy allows any change.
func (s ResidentStatus) CanTransition(next ResidentStatus) bool {
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusDeceased || next == StatusCancelled {
		return true
	}
	from, to := -1, -1
	for i, st := range PipelineOrder {
		if st == s {
			from = i
		}
		if st == next {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return false
	}
	return to == from+1 || to == from-1
}

// Urgency classifies how soon placement is needed
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// EmergencyContact holds the contact reachable in case of emergency
type EmergencyContact struct {
	Name         string `json:"name" db:"contact_name"`
	Relationship string `json:"relationship" db:"contact_relationship"`
	Phone        string `json:"phone" db:"contact_phone"`
	Email        string `json:"email" db:"contact_email"`
}

// Resident is a person tracked from intake inquiry through residency and
// departure. RoomID is set only while the resident occupies a room, and
// only by the allocation service.
type Resident struct {
	ID                   string           `json:"id" db:"id"`
	FirstName            string           `json:"first_name" db:"first_name"`
	LastName             string           `json:"last_name" db:"last_name"`
	BirthDate            string           `json:"birth_date,omitempty" db:"birth_date"`
	Gender               string           `json:"gender,omitempty" db:"gender"`
	CareLevel            *int             `json:"care_level,omitempty" db:"care_level"`
	CareNotes            string           `json:"care_notes,omitempty" db:"care_notes"`
	EmergencyContact     EmergencyContact `json:"emergency_contact" db:"-"`
	IntakeSource         string           `json:"intake_source,omitempty" db:"intake_source"`
	Referrer             string           `json:"referrer,omitempty" db:"referrer"`
	Urgency              Urgency          `json:"urgency" db:"urgency"`
	PreferredFacilityIDs []string         `json:"preferred_facility_ids" db:"-"`
	Status               ResidentStatus   `json:"status" db:"status"`
	RoomID               *string          `json:"room_id,omitempty" db:"room_id"`
	MoveInDate           *time.Time       `json:"move_in_date,omitempty" db:"move_in_date"`
	MoveOutDate          *time.Time       `json:"move_out_date,omitempty" db:"move_out_date"`
	MoveOutReason        *string          `json:"move_out_reason,omitempty" db:"move_out_reason"`
	RequestedAt          time.Time        `json:"requested_at" db:"requested_at"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at" db:"updated_at"`
}

// FullName returns the resident's display name
func (r *Resident) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Age derives the resident's age from the birth date at the given time.
// An absent or unparseable birth date yields nil rather than an error.
func (r *Resident) Age(now time.Time) *int {
	if r.BirthDate == "" {
		return nil
	}
	born, err := time.Parse("2006-01-02", r.BirthDate)
	if err != nil {
		return nil
	}
	years := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		years--
	}
	if years < 0 {
		return nil
	}
	return &years
}

// ResidentSummary is a list entry enriched with derived age and, when a
// room is assigned, the room number and facility short name.
type ResidentSummary struct {
	Resident
	Age               *int    `json:"age,omitempty"`
	RoomNumber        *string `json:"room_number,omitempty"`
	FacilityShortName *string `json:"facility_short_name,omitempty"`
}

// ResidentDetail is a resident plus full history, most recent first.
type ResidentDetail struct {
	Resident
	Age            *int             `json:"age,omitempty"`
	Communications []*Communication `json:"communications"`
	Activities     []*Activity      `json:"activities"`
}

// StatusChange reports the outcome of a pipeline status update
type StatusChange struct {
	OldStatus ResidentStatus `json:"old_status"`
	NewStatus ResidentStatus `json:"new_status"`
}
