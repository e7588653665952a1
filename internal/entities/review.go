package entities

import "time"

// ReviewType says which side of a delivery wrote the review.
type ReviewType string

const (
	ReviewSenderToCarrier ReviewType = "sender_to_carrier"
	ReviewCarrierToSender ReviewType = "carrier_to_sender"
)

// Review is a rating left after delivery.
type Review struct {
	ID         string
	ParcelID   string
	ReviewerID string
	RevieweeID string
	Rating     int
	Comment    *string
	Type       ReviewType
	CreatedAt  time.Time
}
