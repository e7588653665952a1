package entities

import "time"

// ParcelStatus enumerates shipment lifecycle states.
type ParcelStatus string

const (
	ParcelPending   ParcelStatus = "Pending"
	ParcelInTransit ParcelStatus = "In Transit"
	ParcelDelivered ParcelStatus = "Delivered"
	ParcelCancelled ParcelStatus = "Cancelled"
	ParcelExpired   ParcelStatus = "Expired"
)

var parcelTransitions = map[ParcelStatus][]ParcelStatus{
	ParcelPending:   {ParcelInTransit, ParcelCancelled, ParcelExpired},
	ParcelInTransit: {ParcelDelivered},
}

// Valid reports whether s is a known status.
func (s ParcelStatus) Valid() bool {
	switch s {
	case ParcelPending, ParcelInTransit, ParcelDelivered, ParcelCancelled, ParcelExpired:
		return true
	}
	return false
}

// CanTransition reports whether the lifecycle allows from -> to.
func (s ParcelStatus) CanTransition(to ParcelStatus) bool {
	for _, next := range parcelTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Payable reports whether a parcel in this state may still be paid for.
func (s ParcelStatus) Payable() bool {
	return s == ParcelPending || s == ParcelInTransit
}

// ParcelSize is a coarse size class.
type ParcelSize string

const (
	SizeSmall  ParcelSize = "small"
	SizeMedium ParcelSize = "medium"
	SizeLarge  ParcelSize = "large"
)

// Valid reports whether z is a known size.
func (z ParcelSize) Valid() bool {
	return z == SizeSmall || z == SizeMedium || z == SizeLarge
}

// Parcel is a shipment posted by a sender for carriers to pick up.
type Parcel struct {
	ID                  string
	SenderID            string
	TransporterID       *string
	ReceiverID          *string
	Origin              string
	Destination         string
	OriginLat           *float64
	OriginLng           *float64
	DestinationLat      *float64
	DestinationLng      *float64
	Size                ParcelSize
	Weight              *float64
	Description         *string
	SpecialInstructions *string
	IsFragile           bool
	Compensation        int64
	DeclaredValue       int64
	InsuranceTier       InsuranceTierName
	InsuranceFee        int64
	PickupDate          time.Time
	ExpiresAt           *time.Time
	ReceiverName        *string
	ReceiverPhone       *string
	ReceiverEmail       *string
	Status              ParcelStatus
	PaidAt              *time.Time
	DeliveryProofURL    *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	SenderName   string
	SenderRating float64
}

// Total is what the sender pays: compensation plus insurance.
func (p Parcel) Total() int64 { return p.Compensation + p.InsuranceFee }

// IsParty reports whether userID is the sender or the transporter.
func (p Parcel) IsParty(userID string) bool {
	return p.SenderID == userID || (p.TransporterID != nil && *p.TransporterID == userID)
}

// Counterparty returns the other side of the delivery for userID.
func (p Parcel) Counterparty(userID string) (string, bool) {
	if p.TransporterID == nil {
		return "", false
	}
	switch userID {
	case p.SenderID:
		return *p.TransporterID, true
	case *p.TransporterID:
		return p.SenderID, true
	}
	return "", false
}

// ParcelFilter narrows parcel listing.
type ParcelFilter struct {
	Status        *ParcelStatus
	SenderID      *string
	TransporterID *string
	// Receiver matches parcels addressed to a user by id or email.
	Receiver *ReceiverMatch
	Page     Page
}

// TrackingEvent records one status change of a parcel.
type TrackingEvent struct {
	ID        string
	ParcelID  string
	Status    ParcelStatus
	Note      *string
	ActorID   *string
	CreatedAt time.Time
}

// StatusChange is a requested parcel lifecycle move.
type StatusChange struct {
	To       ParcelStatus
	ActorID  *string
	Note     string
	ProofURL *string
}

// StatusOutcome is a parcel after a status change and the escrow movement it caused.
type StatusOutcome struct {
	Parcel Parcel
	// Escrow is the carrier payout or the sender refund. It is nil when the
	// parcel was never paid or its payment had already moved.
	Escrow *WalletTransaction
}

// Place is a geocoded location.
type Place struct {
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}
