// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"
	"time"

	"parcelpeer/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
	Ping(ctx context.Context) error
}

// UserInterface exposes account operations.
type UserInterface interface {
	CreateUser(ctx context.Context, u entities.User) (*entities.User, error)
	GetUserByID(ctx context.Context, id string) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdateProfile(ctx context.Context, id string, upd entities.ProfileUpdate) (*entities.User, error)
	ListUsers(ctx context.Context, filter entities.UserFilter) ([]entities.User, int64, error)
	AdminUpdateUser(ctx context.Context, id string, upd entities.AdminUserUpdate) (*entities.User, error)
	UpdateSubscription(ctx context.Context, id string, change entities.SubscriptionChange) (*entities.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UserActivity(ctx context.Context, id string) (entities.UserActivity, error)
}

// ParcelInterface exposes shipment operations.
type ParcelInterface interface {
	// CreateParcel enforces the sender's quota and counts the parcel atomically.
	CreateParcel(ctx context.Context, p entities.Parcel, now time.Time) (*entities.Parcel, error)
	GetParcel(ctx context.Context, id string) (*entities.Parcel, error)
	ListParcels(ctx context.Context, filter entities.ParcelFilter) ([]entities.Parcel, int64, error)
	AcceptParcel(ctx context.Context, id, carrierID string) (*entities.Parcel, error)
	// UpdateParcelStatus applies a transition and moves the parcel's escrow with it.
	UpdateParcelStatus(ctx context.Context, id string, change entities.StatusChange) (*entities.StatusOutcome, error)
	TrackingEvents(ctx context.Context, parcelID string) ([]entities.TrackingEvent, error)
	// ExpireParcels moves pending parcels past expires_at to Expired and refunds paid ones.
	ExpireParcels(ctx context.Context, now time.Time) ([]entities.StatusOutcome, error)
}

// ReceiverInterface exposes the receiver's view of parcels.
type ReceiverInterface interface {
	CreateCarrierLocation(ctx context.Context, loc entities.CarrierLocation) (*entities.CarrierLocation, error)
	LatestCarrierLocation(ctx context.Context, parcelID string) (*entities.CarrierLocation, error)
	ReceiverStats(ctx context.Context, receiver entities.ReceiverMatch) (entities.ReceiverStats, error)
}

// PaymentInterface exposes gateway and wallet payment records.
type PaymentInterface interface {
	CreatePayment(ctx context.Context, p entities.Payment) (*entities.Payment, error)
	GetPaymentByReference(ctx context.Context, reference string) (*entities.Payment, error)
	// SettlePayment applies a gateway outcome once; changed is false when the
	// payment was no longer pending.
	SettlePayment(ctx context.Context, reference string, s entities.Settlement) (p *entities.Payment, changed bool, err error)
	PayParcelFromWallet(ctx context.Context, p entities.Payment) (*entities.Payment, *entities.WalletTransaction, error)
	ListPayments(ctx context.Context, userID string, page entities.Page) ([]entities.Payment, int64, error)
	AdminListPayments(ctx context.Context, filter entities.PaymentFilter) ([]entities.Payment, int64, error)
	// PendingParcelPayment returns the open gateway checkout of a parcel, if any.
	PendingParcelPayment(ctx context.Context, parcelID string) (*entities.Payment, error)
}

// WalletInterface exposes the wallet ledger.
type WalletInterface interface {
	WalletBalance(ctx context.Context, userID string) (int64, error)
	ApplyWalletTransaction(ctx context.Context, wt entities.WalletTransaction) (*entities.WalletTransaction, error)
	ListWalletTransactions(ctx context.Context, userID string, limit int) ([]entities.WalletTransaction, error)
}

// DisputeInterface exposes dispute operations.
type DisputeInterface interface {
	CreateDispute(ctx context.Context, d entities.Dispute) (*entities.Dispute, error)
	GetDispute(ctx context.Context, id string) (*entities.Dispute, error)
	ListDisputes(ctx context.Context, filter entities.DisputeFilter) ([]entities.Dispute, int64, error)
	AddDisputeMessage(ctx context.Context, m entities.DisputeMessage) (*entities.DisputeMessage, error)
	DisputeMessages(ctx context.Context, disputeID string) ([]entities.DisputeMessage, error)
	UpdateDisputeStatus(ctx context.Context, id string, to entities.DisputeStatus, adminID *string) (*entities.Dispute, error)
	ResolveDispute(ctx context.Context, id string, res entities.DisputeResolution) (*entities.Dispute, *entities.WalletTransaction, error)
	CloseStaleDisputes(ctx context.Context, now time.Time) (int64, error)
}

// ConversationInterface exposes chat operations.
type ConversationInterface interface {
	GetOrCreateConversation(ctx context.Context, c entities.Conversation) (*entities.Conversation, error)
	GetConversation(ctx context.Context, id string) (*entities.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]entities.Conversation, error)
	CreateMessage(ctx context.Context, m entities.Message) (*entities.Message, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]entities.Message, error)
}

// ReviewInterface exposes rating operations.
type ReviewInterface interface {
	CreateReview(ctx context.Context, r entities.Review) (*entities.Review, error)
	ListReviews(ctx context.Context, revieweeID string) ([]entities.Review, error)
}

// NotificationInterface exposes in-app notifications.
type NotificationInterface interface {
	CreateNotification(ctx context.Context, n entities.Notification) (*entities.Notification, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]entities.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) (*entities.Notification, error)
}

// StatsInterface exposes aggregated dashboard counters.
type StatsInterface interface {
	AdminStats(ctx context.Context, since time.Time) (entities.AdminStats, error)
}
