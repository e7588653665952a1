package usecase

import (
	"context"

	"parcelpeer/internal/entities"
)

// AuthUsecaseInterface abstracts account and session operations.
type AuthUsecaseInterface interface {
	SignUp(ctx context.Context, in entities.SignUp) (*entities.Session, error)
	SignIn(ctx context.Context, email, password string) (*entities.Session, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	Authenticate(ctx context.Context, token string) (entities.Actor, error)
}

// UserUsecaseInterface abstracts profile operations.
type UserUsecaseInterface interface {
	Me(ctx context.Context, userID string) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID string, upd entities.ProfileUpdate) (*entities.User, error)
	PublicProfile(ctx context.Context, userID string) (*entities.User, error)
	UserReviews(ctx context.Context, userID string) ([]entities.Review, error)
}

// SubscriptionUsecaseInterface abstracts plan operations.
type SubscriptionUsecaseInterface interface {
	Plans() []entities.SubscriptionPlan
	SubscriptionStatus(ctx context.Context, userID string) (entities.SubscriptionStatus, error)
	Subscribe(ctx context.Context, userID string, tier entities.SubscriptionTier) (*entities.SubscribeResult, error)
	CancelSubscription(ctx context.Context, userID string) (*entities.User, error)
}

// InsuranceUsecaseInterface abstracts coverage lookups.
type InsuranceUsecaseInterface interface {
	InsuranceTiers() []entities.InsuranceTier
	QuoteInsurance(declared int64) (entities.InsuranceQuote, error)
	ValidateInsurance(declared int64, tier entities.InsuranceTierName) error
}

// ParcelUsecaseInterface abstracts shipment operations.
type ParcelUsecaseInterface interface {
	CreateParcel(ctx context.Context, actor entities.Actor, p entities.Parcel) (*entities.Parcel, error)
	ListParcels(ctx context.Context, filter entities.ParcelFilter) ([]entities.Parcel, entities.Pagination, error)
	GetParcel(ctx context.Context, id string) (*entities.Parcel, error)
	AcceptParcel(ctx context.Context, actor entities.Actor, id string) (*entities.Parcel, error)
	UpdateParcelStatus(ctx context.Context, actor entities.Actor, id string, to entities.ParcelStatus, note string) (*entities.Parcel, error)
	TrackingEvents(ctx context.Context, id string) ([]entities.TrackingEvent, error)
	Geocode(ctx context.Context, query string) ([]entities.Place, error)
}

// ReceiverUsecaseInterface abstracts the receiver's side of a delivery.
type ReceiverUsecaseInterface interface {
	ReceivedParcels(ctx context.Context, actor entities.Actor, status *entities.ParcelStatus, page entities.Page) ([]entities.Parcel, entities.Pagination, error)
	ReceiverStats(ctx context.Context, actor entities.Actor) (entities.ReceiverStats, error)
	RecordCarrierLocation(ctx context.Context, actor entities.Actor, parcelID string, lat, lng float64, speed *float64) (*entities.CarrierLocation, error)
	ParcelETA(ctx context.Context, actor entities.Actor, parcelID string) (entities.ETA, error)
	SubmitDeliveryProof(ctx context.Context, actor entities.Actor, parcelID, photoURL, notes string) (*entities.Parcel, error)
}

// PaymentUsecaseInterface abstracts checkout operations.
type PaymentUsecaseInterface interface {
	InitializeParcelPayment(ctx context.Context, actor entities.Actor, parcelID string) (*entities.Checkout, error)
	PayParcelWithWallet(ctx context.Context, actor entities.Actor, parcelID string) (*entities.Payment, error)
	VerifyPayment(ctx context.Context, actor entities.Actor, reference string) (*entities.Payment, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	PaymentHistory(ctx context.Context, userID string, page entities.Page) ([]entities.Payment, entities.Pagination, error)
}

// WalletUsecaseInterface abstracts wallet operations.
type WalletUsecaseInterface interface {
	WalletBalance(ctx context.Context, userID string) (int64, error)
	WalletTransactions(ctx context.Context, userID string, limit int) ([]entities.WalletTransaction, error)
	InitializeTopup(ctx context.Context, userID string, amount int64) (*entities.Checkout, error)
}

// MessagingUsecaseInterface abstracts chat operations.
type MessagingUsecaseInterface interface {
	StartConversation(ctx context.Context, actor entities.Actor, otherID string, parcelID *string) (*entities.Conversation, error)
	Conversations(ctx context.Context, userID string) ([]entities.Conversation, error)
	Messages(ctx context.Context, actor entities.Actor, conversationID string, limit int) ([]entities.Message, error)
	SendMessage(ctx context.Context, actor entities.Actor, conversationID, text string) (*entities.Message, error)
}

// DisputeUsecaseInterface abstracts dispute operations.
type DisputeUsecaseInterface interface {
	OpenDispute(ctx context.Context, actor entities.Actor, parcelID, subject, description string) (*entities.Dispute, error)
	MyDisputes(ctx context.Context, actor entities.Actor, status *entities.DisputeStatus, page entities.Page) ([]entities.Dispute, entities.Pagination, error)
	GetDispute(ctx context.Context, actor entities.Actor, id string) (*entities.Dispute, []entities.DisputeMessage, error)
	PostDisputeMessage(ctx context.Context, actor entities.Actor, id, text string, attachmentURL *string) (*entities.DisputeMessage, error)
	AdminListDisputes(ctx context.Context, filter entities.DisputeFilter) ([]entities.Dispute, entities.Pagination, error)
	AdminUpdateDisputeStatus(ctx context.Context, actor entities.Actor, id string, to entities.DisputeStatus) (*entities.Dispute, error)
	ResolveDispute(ctx context.Context, actor entities.Actor, id, resolution string, refund int64) (*entities.Dispute, error)
}

// ReviewUsecaseInterface abstracts rating operations.
type ReviewUsecaseInterface interface {
	CreateReview(ctx context.Context, actor entities.Actor, parcelID string, rating int, comment *string) (*entities.Review, error)
}

// NotificationUsecaseInterface abstracts in-app notifications.
type NotificationUsecaseInterface interface {
	Notifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]entities.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string) (*entities.Notification, error)
}

// AdminUsecaseInterface abstracts dashboard operations.
type AdminUsecaseInterface interface {
	AdminStats(ctx context.Context) (entities.AdminStats, error)
	AdminListUsers(ctx context.Context, filter entities.UserFilter) ([]entities.User, entities.Pagination, error)
	AdminUser(ctx context.Context, id string) (*entities.UserDetail, error)
	AdminUpdateUser(ctx context.Context, id string, upd entities.AdminUserUpdate) (*entities.User, error)
	AdminListPayments(ctx context.Context, filter entities.PaymentFilter) ([]entities.Payment, entities.Pagination, error)
}

// MaintenanceUsecaseInterface abstracts background and health operations.
type MaintenanceUsecaseInterface interface {
	Sweep(ctx context.Context) (entities.SweepResult, error)
	Ready(ctx context.Context) error
}
