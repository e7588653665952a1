package domain

import (
	"context"
	"time"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/gateway"
	"parcelpeer/internal/repository"

	"github.com/stretchr/testify/mock"
)

type repoMock struct{ mock.Mock }

var _ repository.Repository = (*repoMock)(nil)

// get returns argument i as T, or the zero value when it is nil.
func get[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

func (m *repoMock) OnStart(_ context.Context) error { return nil }
func (m *repoMock) OnStop(_ context.Context) error  { return nil }

func (m *repoMock) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *repoMock) CreateUser(ctx context.Context, u entities.User) (*entities.User, error) {
	args := m.Called(ctx, u)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) UpdateProfile(ctx context.Context, id string, upd entities.ProfileUpdate) (*entities.User, error) {
	args := m.Called(ctx, id, upd)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) ListUsers(ctx context.Context, filter entities.UserFilter) ([]entities.User, int64, error) {
	args := m.Called(ctx, filter)
	return get[[]entities.User](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *repoMock) AdminUpdateUser(ctx context.Context, id string, upd entities.AdminUserUpdate) (*entities.User, error) {
	args := m.Called(ctx, id, upd)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) UpdateSubscription(ctx context.Context, id string, change entities.SubscriptionChange) (*entities.User, error) {
	args := m.Called(ctx, id, change)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *repoMock) UserActivity(ctx context.Context, id string) (entities.UserActivity, error) {
	args := m.Called(ctx, id)
	return get[entities.UserActivity](args, 0), args.Error(1)
}

func (m *repoMock) CreateParcel(ctx context.Context, p entities.Parcel, now time.Time) (*entities.Parcel, error) {
	args := m.Called(ctx, p, now)
	return get[*entities.Parcel](args, 0), args.Error(1)
}

func (m *repoMock) GetParcel(ctx context.Context, id string) (*entities.Parcel, error) {
	args := m.Called(ctx, id)
	return get[*entities.Parcel](args, 0), args.Error(1)
}

func (m *repoMock) ListParcels(ctx context.Context, filter entities.ParcelFilter) ([]entities.Parcel, int64, error) {
	args := m.Called(ctx, filter)
	return get[[]entities.Parcel](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *repoMock) AcceptParcel(ctx context.Context, id, carrierID string) (*entities.Parcel, error) {
	args := m.Called(ctx, id, carrierID)
	return get[*entities.Parcel](args, 0), args.Error(1)
}

func (m *repoMock) UpdateParcelStatus(ctx context.Context, id string, change entities.StatusChange) (*entities.StatusOutcome, error) {
	args := m.Called(ctx, id, change)
	return get[*entities.StatusOutcome](args, 0), args.Error(1)
}

func (m *repoMock) TrackingEvents(ctx context.Context, parcelID string) ([]entities.TrackingEvent, error) {
	args := m.Called(ctx, parcelID)
	return get[[]entities.TrackingEvent](args, 0), args.Error(1)
}

func (m *repoMock) ExpireParcels(ctx context.Context, now time.Time) ([]entities.StatusOutcome, error) {
	args := m.Called(ctx, now)
	return get[[]entities.StatusOutcome](args, 0), args.Error(1)
}

func (m *repoMock) CreateCarrierLocation(ctx context.Context, loc entities.CarrierLocation) (*entities.CarrierLocation, error) {
	args := m.Called(ctx, loc)
	return get[*entities.CarrierLocation](args, 0), args.Error(1)
}

func (m *repoMock) LatestCarrierLocation(ctx context.Context, parcelID string) (*entities.CarrierLocation, error) {
	args := m.Called(ctx, parcelID)
	return get[*entities.CarrierLocation](args, 0), args.Error(1)
}

func (m *repoMock) ReceiverStats(ctx context.Context, receiver entities.ReceiverMatch) (entities.ReceiverStats, error) {
	args := m.Called(ctx, receiver)
	return get[entities.ReceiverStats](args, 0), args.Error(1)
}

func (m *repoMock) CreatePayment(ctx context.Context, p entities.Payment) (*entities.Payment, error) {
	args := m.Called(ctx, p)
	return get[*entities.Payment](args, 0), args.Error(1)
}

func (m *repoMock) GetPaymentByReference(ctx context.Context, reference string) (*entities.Payment, error) {
	args := m.Called(ctx, reference)
	return get[*entities.Payment](args, 0), args.Error(1)
}

func (m *repoMock) SettlePayment(ctx context.Context, reference string, s entities.Settlement) (*entities.Payment, bool, error) {
	args := m.Called(ctx, reference, s)
	return get[*entities.Payment](args, 0), args.Bool(1), args.Error(2)
}

func (m *repoMock) PayParcelFromWallet(ctx context.Context, p entities.Payment) (*entities.Payment, *entities.WalletTransaction, error) {
	args := m.Called(ctx, p)
	return get[*entities.Payment](args, 0), get[*entities.WalletTransaction](args, 1), args.Error(2)
}

func (m *repoMock) ListPayments(ctx context.Context, userID string, page entities.Page) ([]entities.Payment, int64, error) {
	args := m.Called(ctx, userID, page)
	return get[[]entities.Payment](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *repoMock) AdminListPayments(ctx context.Context, filter entities.PaymentFilter) ([]entities.Payment, int64, error) {
	args := m.Called(ctx, filter)
	return get[[]entities.Payment](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *repoMock) PendingParcelPayment(ctx context.Context, parcelID string) (*entities.Payment, error) {
	args := m.Called(ctx, parcelID)
	return get[*entities.Payment](args, 0), args.Error(1)
}

func (m *repoMock) WalletBalance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return get[int64](args, 0), args.Error(1)
}

func (m *repoMock) ApplyWalletTransaction(ctx context.Context, wt entities.WalletTransaction) (*entities.WalletTransaction, error) {
	args := m.Called(ctx, wt)
	return get[*entities.WalletTransaction](args, 0), args.Error(1)
}

func (m *repoMock) ListWalletTransactions(ctx context.Context, userID string, limit int) ([]entities.WalletTransaction, error) {
	args := m.Called(ctx, userID, limit)
	return get[[]entities.WalletTransaction](args, 0), args.Error(1)
}

func (m *repoMock) CreateDispute(ctx context.Context, d entities.Dispute) (*entities.Dispute, error) {
	args := m.Called(ctx, d)
	return get[*entities.Dispute](args, 0), args.Error(1)
}

func (m *repoMock) GetDispute(ctx context.Context, id string) (*entities.Dispute, error) {
	args := m.Called(ctx, id)
	return get[*entities.Dispute](args, 0), args.Error(1)
}

func (m *repoMock) ListDisputes(ctx context.Context, filter entities.DisputeFilter) ([]entities.Dispute, int64, error) {
	args := m.Called(ctx, filter)
	return get[[]entities.Dispute](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *repoMock) AddDisputeMessage(ctx context.Context, msg entities.DisputeMessage) (*entities.DisputeMessage, error) {
	args := m.Called(ctx, msg)
	return get[*entities.DisputeMessage](args, 0), args.Error(1)
}

func (m *repoMock) DisputeMessages(ctx context.Context, disputeID string) ([]entities.DisputeMessage, error) {
	args := m.Called(ctx, disputeID)
	return get[[]entities.DisputeMessage](args, 0), args.Error(1)
}

func (m *repoMock) UpdateDisputeStatus(ctx context.Context, id string, to entities.DisputeStatus, adminID *string) (*entities.Dispute, error) {
	args := m.Called(ctx, id, to, adminID)
	return get[*entities.Dispute](args, 0), args.Error(1)
}

func (m *repoMock) ResolveDispute(ctx context.Context, id string, res entities.DisputeResolution) (*entities.Dispute, *entities.WalletTransaction, error) {
	args := m.Called(ctx, id, res)
	return get[*entities.Dispute](args, 0), get[*entities.WalletTransaction](args, 1), args.Error(2)
}

func (m *repoMock) CloseStaleDisputes(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return get[int64](args, 0), args.Error(1)
}

func (m *repoMock) GetOrCreateConversation(ctx context.Context, c entities.Conversation) (*entities.Conversation, error) {
	args := m.Called(ctx, c)
	return get[*entities.Conversation](args, 0), args.Error(1)
}

func (m *repoMock) GetConversation(ctx context.Context, id string) (*entities.Conversation, error) {
	args := m.Called(ctx, id)
	return get[*entities.Conversation](args, 0), args.Error(1)
}

func (m *repoMock) ListConversations(ctx context.Context, userID string) ([]entities.Conversation, error) {
	args := m.Called(ctx, userID)
	return get[[]entities.Conversation](args, 0), args.Error(1)
}

func (m *repoMock) CreateMessage(ctx context.Context, msg entities.Message) (*entities.Message, error) {
	args := m.Called(ctx, msg)
	return get[*entities.Message](args, 0), args.Error(1)
}

func (m *repoMock) ListMessages(ctx context.Context, conversationID string, limit int) ([]entities.Message, error) {
	args := m.Called(ctx, conversationID, limit)
	return get[[]entities.Message](args, 0), args.Error(1)
}

func (m *repoMock) CreateReview(ctx context.Context, r entities.Review) (*entities.Review, error) {
	args := m.Called(ctx, r)
	return get[*entities.Review](args, 0), args.Error(1)
}

func (m *repoMock) ListReviews(ctx context.Context, revieweeID string) ([]entities.Review, error) {
	args := m.Called(ctx, revieweeID)
	return get[[]entities.Review](args, 0), args.Error(1)
}

func (m *repoMock) CreateNotification(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	args := m.Called(ctx, n)
	return get[*entities.Notification](args, 0), args.Error(1)
}

func (m *repoMock) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]entities.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	return get[[]entities.Notification](args, 0), args.Error(1)
}

func (m *repoMock) MarkNotificationRead(ctx context.Context, id, userID string) (*entities.Notification, error) {
	args := m.Called(ctx, id, userID)
	return get[*entities.Notification](args, 0), args.Error(1)
}

func (m *repoMock) AdminStats(ctx context.Context, since time.Time) (entities.AdminStats, error) {
	args := m.Called(ctx, since)
	return get[entities.AdminStats](args, 0), args.Error(1)
}

type paymentsMock struct{ mock.Mock }

var _ gateway.PaymentGateway = (*paymentsMock)(nil)

func (m *paymentsMock) Initialize(ctx context.Context, req gateway.InitializeRequest) (entities.Checkout, error) {
	args := m.Called(ctx, req)
	return get[entities.Checkout](args, 0), args.Error(1)
}

func (m *paymentsMock) Verify(ctx context.Context, reference string) (gateway.Transaction, error) {
	args := m.Called(ctx, reference)
	return get[gateway.Transaction](args, 0), args.Error(1)
}

func (m *paymentsMock) VerifySignature(body []byte, signature string) bool {
	return m.Called(body, signature).Bool(0)
}

type geocoderMock struct{ mock.Mock }

var _ gateway.Geocoder = (*geocoderMock)(nil)

func (m *geocoderMock) Search(ctx context.Context, query string, limit int) ([]entities.Place, error) {
	args := m.Called(ctx, query, limit)
	return get[[]entities.Place](args, 0), args.Error(1)
}
