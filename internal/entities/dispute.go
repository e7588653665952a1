package entities

import "time"

// DisputeStatus enumerates dispute lifecycle states.
type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "open"
	DisputeInReview DisputeStatus = "in_review"
	DisputeResolved DisputeStatus = "resolved"
	DisputeClosed   DisputeStatus = "closed"
)

// Valid reports whether s is a known status.
func (s DisputeStatus) Valid() bool {
	switch s {
	case DisputeOpen, DisputeInReview, DisputeResolved, DisputeClosed:
		return true
	}
	return false
}

// Terminal reports whether no further changes are allowed.
func (s DisputeStatus) Terminal() bool {
	return s == DisputeResolved || s == DisputeClosed
}

// CanTransition reports whether the lifecycle allows s -> to.
func (s DisputeStatus) CanTransition(to DisputeStatus) bool {
	switch s {
	case DisputeOpen:
		return to == DisputeInReview || to == DisputeResolved || to == DisputeClosed
	case DisputeInReview:
		return to == DisputeResolved || to == DisputeClosed
	}
	return false
}

// Dispute is a complaint between the two parties of a parcel.
type Dispute struct {
	ID               string
	ParcelID         string
	ComplainantID    string
	RespondentID     string
	Subject          string
	Description      string
	Status           DisputeStatus
	Resolution       *string
	RefundAmount     int64
	RefundedToWallet bool
	AdminID          *string
	ResolvedAt       *time.Time
	AutoCloseAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsParty reports whether userID is complainant or respondent.
func (d Dispute) IsParty(userID string) bool {
	return d.ComplainantID == userID || d.RespondentID == userID
}

// DisputeMessage is one entry of a dispute thread.
type DisputeMessage struct {
	ID             string
	DisputeID      string
	SenderID       string
	Message        string
	AttachmentURL  *string
	IsAdminMessage bool
	CreatedAt      time.Time
}

// DisputeResolution is an admin decision.
type DisputeResolution struct {
	AdminID      string
	Resolution   string
	RefundAmount int64
	// RefundReference makes the wallet refund idempotent.
	RefundReference string
}

// DisputeFilter narrows dispute listing.
type DisputeFilter struct {
	Status *DisputeStatus
	// PartyID restricts to disputes where the user is complainant or respondent.
	PartyID *string
	Page    Page
}
