package entities

import "time"

// NotificationKind groups notifications for client routing.
type NotificationKind string

const (
	NotifyParcelAccepted  NotificationKind = "parcel_accepted"
	NotifyParcelStatus    NotificationKind = "parcel_status"
	NotifyPayment         NotificationKind = "payment"
	NotifyMessage         NotificationKind = "message"
	NotifyDisputeOpened   NotificationKind = "dispute_opened"
	NotifyDisputeUpdated  NotificationKind = "dispute_updated"
	NotifyDisputeResolved NotificationKind = "dispute_resolved"
	NotifyDeliveryProof   NotificationKind = "delivery_proof"
	NotifyCarrierNearby   NotificationKind = "carrier_nearby"
)

// Notification is an in-app message to a user.
type Notification struct {
	ID        string
	UserID    string
	Kind      NotificationKind
	Title     string
	Body      string
	ParcelID  *string
	Read      bool
	CreatedAt time.Time
}
