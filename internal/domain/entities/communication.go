package entities

import (
	"time"
)

// CommunicationType is the channel of an external contact event
type CommunicationType string

const (
	CommunicationEmailIn  CommunicationType = "email_in"
	CommunicationEmailOut CommunicationType = "email_out"
	CommunicationPhone    CommunicationType = "phone"
	CommunicationMessage  CommunicationType = "message"
	CommunicationNote     CommunicationType = "note"
	CommunicationViewing  CommunicationType = "viewing"
)

// ValidCommunicationType reports whether t is a known channel
func ValidCommunicationType(t CommunicationType) bool {
	switch t {
	case CommunicationEmailIn, CommunicationEmailOut, CommunicationPhone,
		CommunicationMessage, CommunicationNote, CommunicationViewing:
		return true
	}
	return false
}

// ActivityLabel returns the audit-trail wording for an entry of this type
func (t CommunicationType) ActivityLabel() string {
	switch t {
	case CommunicationEmailIn:
		return "inbound email received"
	case CommunicationEmailOut:
		return "outbound email sent"
	case CommunicationPhone:
		return "phone call logged"
	case CommunicationMessage:
		return "message logged"
	case CommunicationViewing:
		return "viewing visit logged"
	default:
		return "note added"
	}
}

// Communication is one immutable record of an external contact event tied
// to a resident. Like activities, entries are append-only and cascade with
// the owning resident.
type Communication struct {
	ID          string            `json:"id" db:"id"`
	ResidentID  string            `json:"resident_id" db:"resident_id"`
	Type        CommunicationType `json:"type" db:"type"`
	Subject     string            `json:"subject" db:"subject"`
	Body        string            `json:"body" db:"body"`
	Attachments []string          `json:"attachments,omitempty" db:"-"`
	Author      string            `json:"author" db:"author"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}
