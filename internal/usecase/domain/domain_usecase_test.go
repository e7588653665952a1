package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"parcelpeer/internal/auth"
	"parcelpeer/internal/entities"
	"parcelpeer/internal/gateway"
	"parcelpeer/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc       *Usecase
	repo     *repoMock
	payments *paymentsMock
	geo      *geocoderMock
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	f := fixture{
		repo:     &repoMock{},
		payments: &paymentsMock{},
		geo:      &geocoderMock{},
		metrics:  metrics.New(),
	}
	f.uc = New(zap.NewNop().Sugar(), context.Background(), Dependencies{
		Repo:      f.repo,
		Payments:  f.payments,
		Geocoder:  f.geo,
		Tokens:    auth.NewTokens("test-secret", time.Hour),
		Passwords: auth.NewPasswords(bcrypt.MinCost),
		Metrics:   f.metrics,
	}, time.Second, Settings{CallbackURL: "https://app.test/callback"})
	f.uc.now = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		f.repo.AssertExpectations(t)
		f.payments.AssertExpectations(t)
		f.geo.AssertExpectations(t)
	})
	return f
}

// allowNotifications accepts any notification write.
func (f fixture) allowNotifications() {
	f.repo.On("CreateNotification", mock.Anything, mock.Anything).Return(&entities.Notification{}, nil).Maybe()
}

var (
	sender  = entities.Actor{ID: "sender-1", Role: entities.RoleUser}
	carrier = entities.Actor{ID: "carrier-1", Role: entities.RoleCarrier}
	admin   = entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}
	someone = entities.Actor{ID: "someone", Role: entities.RoleUser}
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func pendingParcel() *entities.Parcel {
	return &entities.Parcel{
		ID:            "p1",
		SenderID:      sender.ID,
		Origin:        "Lagos",
		Destination:   "Abuja",
		Size:          entities.SizeSmall,
		Compensation:  150000,
		InsuranceTier: entities.InsuranceBasic,
		InsuranceFee:  10000,
		Status:        entities.ParcelPending,
	}
}

func transitParcel() *entities.Parcel {
	p := pendingParcel()
	p.TransporterID = strPtr(carrier.ID)
	p.Status = entities.ParcelInTransit
	return p
}

func withStatus(p *entities.Parcel, s entities.ParcelStatus) *entities.Parcel {
	p.Status = s
	return p
}

func settledPayment() *entities.Payment {
	return &entities.Payment{
		ID:            "pay-1",
		Reference:     "ref-1",
		Kind:          entities.PaymentParcel,
		UserID:        sender.ID,
		ParcelID:      strPtr("p1"),
		Amount:        160000,
		PlatformFee:   15000,
		CarrierAmount: 135000,
		InsuranceFee:  10000,
		Status:        entities.PaymentSuccess,
	}
}

func TestUsecase_SignUpValidation(t *testing.T) {
	tests := []struct {
		name string
		in   entities.SignUp
	}{
		{name: "missing name", in: entities.SignUp{Email: "a@b.co", Password: "password1"}},
		{name: "bad email", in: entities.SignUp{Name: "Ada", Email: "not-an-email", Password: "password1"}},
		{name: "short password", in: entities.SignUp{Name: "Ada", Email: "a@b.co", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.SignUp(context.Background(), tt.in)
			require.ErrorIs(t, err, entities.ErrInvalidArgument)
			f.repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestUsecase_SignUpIssuesSession(t *testing.T) {
	f := newFixture(t)

	f.repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u entities.User) bool {
		return u.Email == "ada@example.com" &&
			u.Role == entities.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password1")) == nil
	})).Return(&entities.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: entities.RoleUser}, nil)

	sess, err := f.uc.SignUp(context.Background(), entities.SignUp{Name: " Ada ", Email: "Ada@Example.com", Password: "password1"})
	require.NoError(t, err)
	require.Equal(t, "u1", sess.User.ID)

	f.repo.On("GetUserByID", mock.Anything, "u1").
		Return(&entities.User{ID: "u1", Email: "ada@example.com", Role: entities.RoleUser}, nil).Once()
	actor, err := f.uc.Authenticate(context.Background(), sess.Token)
	require.NoError(t, err)
	require.Equal(t, entities.Actor{ID: "u1", Role: entities.RoleUser, Email: "ada@example.com"}, actor)
}

func TestUsecase_AuthenticateUsesStoredAccount(t *testing.T) {
	f := newFixture(t)
	token, _, err := f.uc.tokens.Issue("a1", entities.RoleAdmin)
	require.NoError(t, err)

	f.repo.On("GetUserByID", mock.Anything, "a1").
		Return(&entities.User{ID: "a1", Role: entities.RoleUser}, nil).Once()
	actor, err := f.uc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, entities.RoleUser, actor.Role, "a demoted admin loses admin rights before the token expires")

	f.repo.On("GetUserByID", mock.Anything, "a1").
		Return(&entities.User{ID: "a1", Role: entities.RoleAdmin, Suspended: true}, nil).Once()
	_, err = f.uc.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, entities.ErrUserSuspended)

	f.repo.On("GetUserByID", mock.Anything, "a1").Return(nil, entities.ErrUserNotFound).Once()
	_, err = f.uc.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, entities.ErrUnauthorized)

	_, err = f.uc.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestUsecase_SignIn(t *testing.T) {
	f := newFixture(t)
	hash, err := f.uc.passwords.Hash("password1")
	require.NoError(t, err)

	f.repo.On("GetUserByEmail", mock.Anything, "missing@example.com").Return(nil, entities.ErrUserNotFound)
	f.repo.On("GetUserByEmail", mock.Anything, "ada@example.com").
		Return(&entities.User{ID: "u1", PasswordHash: hash, Role: entities.RoleUser}, nil)
	f.repo.On("GetUserByEmail", mock.Anything, "banned@example.com").
		Return(&entities.User{ID: "u2", PasswordHash: hash, Suspended: true}, nil)

	_, err = f.uc.SignIn(context.Background(), "missing@example.com", "password1")
	require.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, err = f.uc.SignIn(context.Background(), "ada@example.com", "wrong-password")
	require.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, err = f.uc.SignIn(context.Background(), "banned@example.com", "password1")
	require.ErrorIs(t, err, entities.ErrUserSuspended)

	sess, err := f.uc.SignIn(context.Background(), "ada@example.com", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
}

func TestUsecase_ChangePassword(t *testing.T) {
	f := newFixture(t)
	hash, err := f.uc.passwords.Hash("password1")
	require.NoError(t, err)

	f.repo.On("GetUserByID", mock.Anything, "u1").Return(&entities.User{ID: "u1", PasswordHash: hash}, nil)
	f.repo.On("UpdatePassword", mock.Anything, "u1", mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("new-password")) == nil
	})).Return(nil).Once()

	require.ErrorIs(t, f.uc.ChangePassword(context.Background(), "u1", "wrong", "new-password"), entities.ErrInvalidCredentials)
	require.ErrorIs(t, f.uc.ChangePassword(context.Background(), "u1", "password1", "short"), entities.ErrInvalidArgument)
	require.NoError(t, f.uc.ChangePassword(context.Background(), "u1", "password1", "new-password"))
}

func TestUsecase_SubscribeFreeRevertsImmediately(t *testing.T) {
	f := newFixture(t)

	f.repo.On("GetUserByID", mock.Anything, "u1").
		Return(&entities.User{ID: "u1", SubscriptionTier: entities.TierPremium, SubscriptionStatus: entities.SubscriptionActive}, nil)
	f.repo.On("UpdateSubscription", mock.Anything, "u1", mock.MatchedBy(func(c entities.SubscriptionChange) bool {
		return c.Tier == entities.TierFree && c.Status == entities.SubscriptionActive && c.End == nil
	})).Return(&entities.User{ID: "u1", SubscriptionTier: entities.TierFree}, nil)

	res, err := f.uc.Subscribe(context.Background(), "u1", entities.TierFree)
	require.NoError(t, err)
	require.Nil(t, res.Checkout)
	require.Equal(t, entities.TierFree, res.User.SubscriptionTier)
}

func TestUsecase_SubscribePaidOpensCheckout(t *testing.T) {
	f := newFixture(t)

	f.repo.On("GetUserByID", mock.Anything, "u1").
		Return(&entities.User{ID: "u1", Email: "ada@example.com", SubscriptionTier: entities.TierFree, SubscriptionStatus: entities.SubscriptionActive}, nil)
	f.payments.On("Initialize", mock.Anything, mock.MatchedBy(func(r gateway.InitializeRequest) bool {
		return r.Plan == "PLN_premium_monthly" &&
			r.Amount == 99900 &&
			r.Email == "ada@example.com" &&
			r.CallbackURL == "https://app.test/callback" &&
			r.Metadata["kind"] == "subscription" &&
			strings.HasPrefix(r.Reference, "PP_SUBSCRIPTION_")
	})).Return(entities.Checkout{AuthorizationURL: "https://checkout/x", AccessCode: "ac", Reference: "r"}, nil)
	f.repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p entities.Payment) bool {
		return p.Kind == entities.PaymentSubscription &&
			p.SubscriptionTier != nil && *p.SubscriptionTier == entities.TierPremium &&
			p.Status == entities.PaymentPending &&
			p.AccessCode != nil && *p.AccessCode == "ac"
	})).Return(&entities.Payment{}, nil)

	res, err := f.uc.Subscribe(context.Background(), "u1", entities.TierPremium)
	require.NoError(t, err)
	require.Equal(t, "https://checkout/x", res.Checkout.AuthorizationURL)
}

func TestUsecase_SubscribeRejects(t *testing.T) {
	f := newFixture(t)
	f.repo.On("GetUserByID", mock.Anything, "u1").
		Return(&entities.User{ID: "u1", SubscriptionTier: entities.TierFree, SubscriptionStatus: entities.SubscriptionActive}, nil)

	_, err := f.uc.Subscribe(context.Background(), "u1", "gold")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = f.uc.Subscribe(context.Background(), "u1", entities.TierFree)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = f.uc.CancelSubscription(context.Background(), "u1")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestUsecase_SubscribeRenewsLapsedTier(t *testing.T) {
	f := newFixture(t)
	lapsed := fixedNow.Add(-time.Hour)

	f.repo.On("GetUserByID", mock.Anything, "u1").Return(&entities.User{
		ID:                 "u1",
		Email:              "ada@example.com",
		SubscriptionTier:   entities.TierPremium,
		SubscriptionStatus: entities.SubscriptionActive,
		SubscriptionEnd:    &lapsed,
	}, nil)
	f.payments.On("Initialize", mock.Anything, mock.MatchedBy(func(r gateway.InitializeRequest) bool {
		return r.Plan == "PLN_premium_monthly" && r.Amount == 99900
	})).Return(entities.Checkout{AuthorizationURL: "https://checkout/renew", AccessCode: "ac", Reference: "r"}, nil)
	f.repo.On("CreatePayment", mock.Anything, mock.Anything).Return(&entities.Payment{}, nil)

	res, err := f.uc.Subscribe(context.Background(), "u1", entities.TierPremium)
	require.NoError(t, err)
	require.Equal(t, "https://checkout/renew", res.Checkout.AuthorizationURL)
}

func TestUsecase_SubscribeRejectsCurrentTier(t *testing.T) {
	f := newFixture(t)
	renews := fixedNow.Add(24 * time.Hour)

	f.repo.On("GetUserByID", mock.Anything, "u1").Return(&entities.User{
		ID:                 "u1",
		SubscriptionTier:   entities.TierPremium,
		SubscriptionStatus: entities.SubscriptionActive,
		SubscriptionEnd:    &renews,
	}, nil)

	_, err := f.uc.Subscribe(context.Background(), "u1", entities.TierPremium)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	f.payments.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
}

func TestUsecase_QuoteInsurance(t *testing.T) {
	f := newFixture(t)

	q, err := f.uc.QuoteInsurance(6000000)
	require.NoError(t, err)
	require.Equal(t, entities.InsuranceStandard, q.RecommendedTier)

	_, err = f.uc.QuoteInsurance(-1)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	require.ErrorIs(t, f.uc.ValidateInsurance(6000000, entities.InsuranceBasic), entities.ErrInsuranceCoverage)
}

func TestUsecase_CreateParcelValidation(t *testing.T) {
	valid := func() entities.Parcel {
		return entities.Parcel{
			Origin:         "Lagos",
			Destination:    "Abuja",
			OriginLat:      floatPtr(6.5),
			OriginLng:      floatPtr(3.4),
			DestinationLat: floatPtr(9.1),
			DestinationLng: floatPtr(7.4),
			Size:           entities.SizeSmall,
			Compensation:   150000,
			PickupDate:     fixedNow.Add(24 * time.Hour),
		}
	}

	tests := []struct {
		name   string
		mutate func(p *entities.Parcel)
		err    error
	}{
		{name: "missing origin", mutate: func(p *entities.Parcel) { p.Origin = "  " }, err: entities.ErrInvalidArgument},
		{name: "bad size", mutate: func(p *entities.Parcel) { p.Size = "huge" }, err: entities.ErrInvalidArgument},
		{name: "zero compensation", mutate: func(p *entities.Parcel) { p.Compensation = 0 }, err: entities.ErrInvalidArgument},
		{name: "no pickup date", mutate: func(p *entities.Parcel) { p.PickupDate = time.Time{} }, err: entities.ErrInvalidArgument},
		{name: "past expiry", mutate: func(p *entities.Parcel) { e := fixedNow.Add(-time.Hour); p.ExpiresAt = &e }, err: entities.ErrInvalidArgument},
		{name: "unknown tier", mutate: func(p *entities.Parcel) { p.InsuranceTier = "gold" }, err: entities.ErrInvalidArgument},
		{
			name: "coverage exceeded",
			mutate: func(p *entities.Parcel) {
				p.InsuranceTier = entities.InsuranceBasic
				p.DeclaredValue = 6000000
			},
			err: entities.ErrInsuranceCoverage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := valid()
			tt.mutate(&p)
			_, err := f.uc.CreateParcel(context.Background(), sender, p)
			require.ErrorIs(t, err, tt.err)
			f.repo.AssertNotCalled(t, "CreateParcel", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUsecase_CreateParcelGeocodesBestEffort(t *testing.T) {
	f := newFixture(t)

	f.geo.On("Search", mock.Anything, "Lagos", 1).Return([]entities.Place{{DisplayName: "Lagos", Lat: 6.5, Lng: 3.4}}, nil)
	f.geo.On("Search", mock.Anything, "Abuja", 1).Return(nil, entities.ErrGatewayUnavailable)
	f.repo.On("CreateParcel", mock.Anything, mock.MatchedBy(func(p entities.Parcel) bool {
		return p.SenderID == sender.ID &&
			p.Status == entities.ParcelPending &&
			p.InsuranceTier == entities.InsuranceBasic &&
			p.InsuranceFee == 10000 &&
			p.OriginLat != nil && *p.OriginLat == 6.5 &&
			p.DestinationLat == nil
	}), fixedNow).Return(&entities.Parcel{ID: "p1", InsuranceTier: entities.InsuranceBasic}, nil)

	created, err := f.uc.CreateParcel(context.Background(), sender, entities.Parcel{
		SenderID:      "spoofed",
		Origin:        "Lagos",
		Destination:   "Abuja",
		Size:          entities.SizeMedium,
		Compensation:  150000,
		DeclaredValue: 4000000,
		InsuranceTier: entities.InsuranceBasic,
		PickupDate:    fixedNow.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, "p1", created.ID)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ParcelsCreated.WithLabelValues("basic")))
}

func TestUsecase_AcceptParcelNotifiesSender(t *testing.T) {
	f := newFixture(t)

	f.repo.On("AcceptParcel", mock.Anything, "p1", carrier.ID).Return(transitParcel(), nil)
	f.repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
		return n.UserID == sender.ID && n.Kind == entities.NotifyParcelAccepted
	})).Return(nil, errors.New("db down"))

	p, err := f.uc.AcceptParcel(context.Background(), carrier, "p1")
	require.NoError(t, err, "notification failures must not fail the operation")
	require.Equal(t, entities.ParcelInTransit, p.Status)
}

func TestUsecase_UpdateParcelStatusPermissions(t *testing.T) {
	tests := []struct {
		name   string
		actor  entities.Actor
		parcel *entities.Parcel
		to     entities.ParcelStatus
	}{
		{name: "carrier cancels", actor: carrier, parcel: transitParcel(), to: entities.ParcelCancelled},
		{name: "sender delivers", actor: sender, parcel: transitParcel(), to: entities.ParcelDelivered},
		{name: "outsider delivers", actor: someone, parcel: transitParcel(), to: entities.ParcelDelivered},
		{name: "sender sets in transit", actor: sender, parcel: pendingParcel(), to: entities.ParcelInTransit},
		{name: "sender expires", actor: sender, parcel: pendingParcel(), to: entities.ParcelExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.On("GetParcel", mock.Anything, "p1").Return(tt.parcel, nil)

			_, err := f.uc.UpdateParcelStatus(context.Background(), tt.actor, "p1", tt.to, "")
			require.ErrorIs(t, err, entities.ErrForbidden)
			f.repo.AssertNotCalled(t, "UpdateParcelStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func outcome(p *entities.Parcel, escrow *entities.WalletTransaction) *entities.StatusOutcome {
	return &entities.StatusOutcome{Parcel: *p, Escrow: escrow}
}

func TestUsecase_DeliverReleasesEscrow(t *testing.T) {
	f := newFixture(t)
	f.allowNotifications()

	release := &entities.WalletTransaction{
		UserID:    carrier.ID,
		Type:      entities.WalletCredit,
		Amount:    135000,
		Reference: entities.ReleaseReference("ref-1"),
	}
	f.repo.On("GetParcel", mock.Anything, "p1").Return(transitParcel(), nil)
	f.repo.On("UpdateParcelStatus", mock.Anything, "p1", mock.MatchedBy(func(c entities.StatusChange) bool {
		return c.To == entities.ParcelDelivered && c.ActorID != nil && *c.ActorID == carrier.ID && c.ProofURL == nil
	})).Return(outcome(withStatus(transitParcel(), entities.ParcelDelivered), release), nil)

	p, err := f.uc.UpdateParcelStatus(context.Background(), carrier, "p1", entities.ParcelDelivered, "handed over")
	require.NoError(t, err)
	require.Equal(t, entities.ParcelDelivered, p.Status)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.WalletTransactions.WithLabelValues("credit")))
	f.repo.AssertNotCalled(t, "ApplyWalletTransaction", mock.Anything, mock.Anything)
}

func TestUsecase_CancelRefundsPaidParcel(t *testing.T) {
	f := newFixture(t)
	f.allowNotifications()

	refund := &entities.WalletTransaction{
		UserID:    sender.ID,
		Type:      entities.WalletRefund,
		Amount:    160000,
		Reference: entities.RefundReference("ref-1"),
	}
	f.repo.On("GetParcel", mock.Anything, "p1").Return(pendingParcel(), nil)
	f.repo.On("UpdateParcelStatus", mock.Anything, "p1", mock.Anything).
		Return(outcome(withStatus(pendingParcel(), entities.ParcelCancelled), refund), nil)

	_, err := f.uc.UpdateParcelStatus(context.Background(), sender, "p1", entities.ParcelCancelled, "")
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.WalletTransactions.WithLabelValues("refund")))
}

func TestUsecase_CancelUnpaidSkipsRefund(t *testing.T) {
	f := newFixture(t)
	f.allowNotifications()

	f.repo.On("GetParcel", mock.Anything, "p1").Return(pendingParcel(), nil)
	f.repo.On("UpdateParcelStatus", mock.Anything, "p1", mock.Anything).
		Return(outcome(withStatus(pendingParcel(), entities.ParcelCancelled), nil), nil)

	_, err := f.uc.UpdateParcelStatus(context.Background(), sender, "p1", entities.ParcelCancelled, "")
	require.NoError(t, err)
	require.Equal(t, 0.0, testutil.ToFloat64(f.metrics.WalletTransactions.WithLabelValues("refund")))
}

func TestUsecase_StatusChangeFailsWithEscrow(t *testing.T) {
	f := newFixture(t)

	f.repo.On("GetParcel", mock.Anything, "p1").Return(transitParcel(), nil)
	f.repo.On("UpdateParcelStatus", mock.Anything, "p1", mock.Anything).
		Return(nil, errors.New("release escrow: connection reset"))

	_, err := f.uc.UpdateParcelStatus(context.Background(), carrier, "p1", entities.ParcelDelivered, "")
	require.Error(t, err, "a failed payout must fail the status change")
	f.repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestUsecase_StatusChangeNotifiesLinkedReceiver(t *testing.T) {
	f := newFixture(t)

	p := transitParcel()
	p.ReceiverID = strPtr("receiver-1")
	f.repo.On("GetParcel", mock.Anything, "p1").Return(p, nil)
	f.repo.On("UpdateParcelStatus", mock.Anything, "p1", mock.Anything).
		Return(outcome(withStatus(p, entities.ParcelDelivered), nil), nil)
	for _, uid := range []string{sender.ID, "receiver-1"} {
		uid := uid
		f.repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
			return n.UserID == uid && n.Kind == entities.NotifyParcelStatus && n.Title == "Parcel delivered"
		})).Return(&entities.Notification{}, nil).Once()
	}

	_, err := f.uc.UpdateParcelStatus(context.Background(), carrier, "p1", entities.ParcelDelivered, "")
	require.NoError(t, err)
}

func TestUsecase_InitializeParcelPayment(t *testing.T) {
	f := newFixture(t)

	f.repo.On("GetParcel", mock.Anything, "p1").Return(pendingParcel(), nil)
	f.repo.On("GetUserByID", mock.Anything, sender.ID).
		Return(&entities.User{ID: sender.ID, Email: "s@example.com", SubscriptionTier: entities.TierPremium}, nil)
	f.repo.On("PendingParcelPayment", mock.Anything, "p1").Return(nil, entities.ErrPaymentNotFound)
	f.payments.On("Initialize", mock.Anything, mock.MatchedBy(func(r gateway.InitializeRequest) bool {
		return r.Amount == 160000 && r.Metadata["parcelId"] == "p1" && r.Metadata["kind"] == "parcel"
	})).Return(entities.Checkout{AuthorizationURL: "https://checkout/p1", AccessCode: "ac", Reference: "r"}, nil)
	f.repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p entities.Payment) bool {
		return p.Kind == entities.PaymentParcel &&
			p.Amount == 160000 &&
			p.PlatformFee == 7500 &&
			p.CarrierAmount == 142500 &&
			p.InsuranceFee == 10000 &&
			p.Method == entities.MethodPaystack &&
			p.Status == entities.PaymentPending
	})).Return(&entities.Payment{}, nil)

	co, err := f.uc.InitializeParcelPayment(context.Background(), sender, "p1")
	require.NoError(t, err)
	require.Equal(t, "https://checkout/p1", co.AuthorizationURL)
}

func TestUsecase_InitializeParcelPaymentRejects(t *testing.T) {
	paid := pendingParcel()
	paid.PaidAt = &fixedNow

	tests := []struct {
		name   string
		actor  entities.Actor
		parcel *entities.Parcel
		err    error
	}{
		{name: "not sender", actor: carrier, parcel: pendingParcel(), err: entities.ErrForbidden},
		{name: "already paid", actor: sender, parcel: paid, err: entities.ErrAlreadyPaid},
		{name: "delivered", actor: sender, parcel: withStatus(pendingParcel(), entities.ParcelDelivered), err: entities.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.On("GetParcel", mock.Anything, "p1").Return(tt.parcel, nil)

			_, err := f.uc.InitializeParcelPayment(context.Background(), tt.actor, "p1")
			require.ErrorIs(t, err, tt.err)
			f.payments.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
		})
	}
}

func pendingCheckout() *entities.Payment {
	pm := settledPayment()
	pm.Status = entities.PaymentPending
	pm.AuthorizationURL = strPtr("https://checkout/open")
	pm.AccessCode = strPtr("ac-open")
	return pm
}

func TestUsecase_InitializeParcelPaymentReusesOpenCheckout(t *testing.T) {
	f := newFixture(t)

	f.repo.On("GetParcel", mock.Anything, "p1").Return(pendingParcel(), nil)
	f.repo.On("GetUserByID", mock.Anything, sender.ID).Return(&entities.User{ID: sender.ID, Email: "s@example.com"}, nil)
	f.repo.On("PendingParcelPayment", mock.Anything, "p1").Return(pendingCheckout(), nil)
	f.payments.On("Verify", mock.Anything, "ref-1").
		Return(gateway.Transaction{Reference: "ref-1", Status: "ongoing", Amount: 160000}, nil)

	co, err := f.uc.InitializeParcelPayment(context.Background(), sender, "p1")
	require.NoError(t, err)
	require.Equal(t, entities.Checkout{AuthorizationURL: "https://checkout/open", AccessCode: "ac-open", Reference: "ref-1"}, *co)
	f.payments.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestUsecase_InitializeParcelPaymentSettlesOpenCheckout(t *testing.T) {
	f := newFixture(t)
	f.allowNotifications()

	f.repo.On("GetParcel", mock.Anything, "p1").Return(pendingParcel(), nil)
	f.repo.On("GetUserByID", mock.Anything, sender.ID).Return(&entities.User{ID: sender.ID, Email: "s@example.com"}, nil)
	f.repo.On("PendingParcelPayment", mock.Anything, "p1").Return(pendingCheckout(), nil)
	f.payments.On("Verify", mock.Anything, "ref-1").
		Return(gateway.Transaction{Reference: "ref-1", Status: gateway.TxSuccess, Amount: 160000, Raw: "{}"}, nil)
	f.repo.On("SettlePayment", mock.Anything, "ref-1", mock.Anything).Return(settledPayment(), true, nil)

	_, err := f.uc.InitializeParcelPayment(context.Background(), sender, "p1")
	require.ErrorIs(t, err, entities.ErrAlreadyPaid)
	f.payments.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
}

func TestUsecase_InitializeParcelPaymentReplacesFailedCheckout(t *testing.T) {
	f := newFixture(t)
	f.allowNotifications()

	f.repo.On("GetParcel", mock.Anything, "p1").Return(pendingParcel(), nil)
	f.repo.On("GetUserByID", mock.Anything, sender.ID).Return(&entities.User{ID: sender.ID, Email: "s@example.com"}, nil)
	f.repo.On("PendingParcelPayment", mock.Anything, "p1").Return(pendingCheckout(), nil)
	f.payments.On("Verify", mock.Anything, "ref-1").
		Return(gateway.Transaction{Reference: "ref-1", Status: gateway.TxAbandoned, Amount: 160000, Raw: "{}"}, nil)
	abandoned := pendingCheckout()
	abandoned.Status = entities.PaymentCancelled
	f.repo.On("SettlePayment", mock.Anything, "ref-1", mock.Anything).Return(abandoned, true, nil)
	f.payments.On("Initialize", mock.Anything, mock.Anything).
		Return(entities.Checkout{AuthorizationURL: "https://checkout/new", AccessCode: "ac-new", Reference: "r2"}, nil)
	f.repo.On("CreatePayment", mock.Anything, mock.Anything).Return(&entities.Payment{}, nil)

	co, err := f.uc.InitializeParcelPayment(context.Background(), sender, "p1")
	require.NoError(t, err)
	require.Equal(t, "https://checkout/new", co.AuthorizationURL)
}

func TestUsecase_LateChargeNotifiesRefund(t *testing.T) {
	f := newFixture(t)

	pending := settledPayment()
	pending.Status = entities.PaymentPending
	refunded := settledPayment()
	refunded.ReleasedAt = &fixedNow

	f.repo.On("GetPaymentByReference", mock.Anything, "ref-1").Return(pending, nil)
	f.payments.On("Verify", mock.Anything, "ref-1").
		Return(gateway.Transaction{Reference: "ref-1", Status: gateway.TxSuccess, Amount: 160000, Raw: "{}"}, nil)
	f.repo.On("SettlePayment", mock.Anything, "ref-1", mock.Anything).Return(refunded, true, nil)
	f.repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
		return n.UserID == sender.ID && n.Title == "Payment refunded" && strings.Contains(n.Body, "refunded to your wallet")
	})).Return(&entities.Notification{}, nil).Once()

	pm, err := f.uc.VerifyPayment(context.Background(), sender, "ref-1")
	require.NoError(t, err)
	require.NotNil(t, pm.ReleasedAt)
}

func TestUsecase_VerifyPaymentOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		gwStatus string
		amount   int64
		want     entities.PaymentStatus
	}{
		{name: "success", gwStatus: gateway.TxSuccess, amount: 160000, want: entities.PaymentSuccess},
		{name: "amount mismatch", gwStatus: gateway.TxSuccess, amount: 100, want: entities.PaymentFailed},
		{name: "failed", gwStatus: gateway.TxFailed, amount: 160000, want: entities.PaymentFailed},
		{name: "abandoned", gwStatus: gateway.TxAbandoned, amount: 160000, want: entities.PaymentCancelled},
		{name: "ongoing", gwStatus: "ongoing", amount: 160000, want: entities.PaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.allowNotifications()

			pending := settledPayment()
			pending.Status = entities.PaymentPending
			f.repo.On("GetPaymentByReference", mock.Anything, "ref-1").Return(pending, nil)
			f.payments.On("Verify", mock.Anything, "ref-1").
				Return(gateway.Transaction{Reference: "ref-1", Status: tt.gwStatus, Amount: tt.amount, Raw: "{}"}, nil)

			if tt.want != entities.PaymentPending {
				settled := settledPayment()
				settled.Status = tt.want
				f.repo.On("SettlePayment", mock.Anything, "ref-1", mock.MatchedBy(func(s entities.Settlement) bool {
					return s.Status == tt.want && s.PaidAt.Equal(fixedNow) && s.GatewayData == "{}"
				})).Return(settled, true, nil)
			}

			pm, err := f.uc.VerifyPayment(context.Background(), sender, "ref-1")
			require.NoError(t, err)
			require.Equal(t, tt.want, pm.Status)
		})
	}
}

func TestUsecase_VerifyPaymentSettledIsNoop(t *testing.T) {
	f := newFixture(t)
	f.repo.On("GetPaymentByReference", mock.Anything, "ref-1").Return(settledPayment(), nil)

	pm, err := f.uc.VerifyPayment(context.Background(), sender, "ref-1")
	require.NoError(t, err)
	require.Equal(t, entities.PaymentSuccess, pm.Status)
	f.payments.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)

	_, err = f.uc.VerifyPayment(context.Background(), someone, "ref-1")
	require.ErrorIs(t, err, entities.ErrForbidden)
}

func TestUsecase_HandleWebhook(t *testing.T) {
	f := newFixture(t)

	bad := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)
	f.payments.On("VerifySignature", bad, "bad").Return(false)
	require.ErrorIs(t, f.uc.HandleWebhook(context.Background(), bad, "bad"), entities.ErrUnauthorized)

	other := []byte(`{"event":"transfer.success","data":{"reference":"ref-1"}}`)
	f.payments.On("VerifySignature", other, "sig").Return(true)
	require.NoError(t, f.uc.HandleWebhook(context.Background(), other, "sig"))

	unknown := []byte(`{"event":"charge.success","data":{"reference":"ref-x"}}`)
	f.payments.On("VerifySignature", unknown, "sig").Return(true)
	f.repo.On("GetPaymentByReference", mock.Anything, "ref-x").Return(nil, entities.ErrPaymentNotFound)
	require.NoError(t, f.uc.HandleWebhook(context.Background(), unknown, "sig"))

	f.payments.On("VerifySignature", bad, "sig").Return(true)
	f.repo.On("GetPaymentByReference", mock.Anything, "ref-1").Return(settledPayment(), nil)
	require.NoError(t, f.uc.HandleWebhook(context.Background(), bad, "sig"))
	f.payments.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestUsecase_InitializeTopupMinimum(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.InitializeTopup(context.Background(), "u1", entities.MinTopup-1)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	f.repo.On("GetUserByID", mock.Anything, "u1").Return(&entities.User{ID: "u1", Email: "u@example.com"}, nil)
	f.payments.On("Initialize", mock.Anything, mock.MatchedBy(func(r gateway.InitializeRequest) bool {
		return r.Amount == entities.MinTopup && r.Metadata["kind"] == "topup"
	})).Return(entities.Checkout{Reference: "r"}, nil)
	f.repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p entities.Payment) bool {
		return p.Kind == entities.PaymentTopup && p.Amount == entities.MinTopup
	})).Return(&entities.Payment{}, nil)

	_, err = f.uc.InitializeTopup(context.Background(), "u1", entities.MinTopup)
	require.NoError(t, err)
}

func TestUsecase_StartConversationSortsParticipants(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.StartConversation(context.Background(), sender, sender.ID, nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	f.repo.On("GetUserByID", mock.Anything, "a-user").Return(&entities.User{ID: "a-user"}, nil)
	f.repo.On("GetOrCreateConversation", mock.Anything, entities.Conversation{
		Participant1ID: "a-user",
		Participant2ID: sender.ID,
	}).Return(&entities.Conversation{ID: "c1"}, nil)

	conv, err := f.uc.StartConversation(context.Background(), sender, "a-user", strPtr(""))
	require.NoError(t, err)
	require.Equal(t, "c1", conv.ID)
}

func TestUsecase_SendMessage(t *testing.T) {
	f := newFixture(t)
	conv := &entities.Conversation{ID: "c1", Participant1ID: carrier.ID, Participant2ID: sender.ID}
	f.repo.On("GetConversation", mock.Anything, "c1").Return(conv, nil)

	_, err := f.uc.SendMessage(context.Background(), sender, "c1", strings.Repeat("x", entities.MaxMessageLength+1))
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = f.uc.SendMessage(context.Background(), someone, "c1", "hello")
	require.ErrorIs(t, err, entities.ErrForbidden)

	f.repo.On("CreateMessage", mock.Anything, entities.Message{ConversationID: "c1", SenderID: sender.ID, Text: "hello"}).
		Return(&entities.Message{ID: "m1"}, nil)
	f.repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
		return n.UserID == carrier.ID && n.Kind == entities.NotifyMessage && n.Body == "hello"
	})).Return(&entities.Notification{}, nil)

	msg, err := f.uc.SendMessage(context.Background(), sender, "c1", "  hello ")
	require.NoError(t, err)
	require.Equal(t, "m1", msg.ID)
}

func TestUsecase_OpenDispute(t *testing.T) {
	f := newFixture(t)
	f.allowNotifications()

	f.repo.On("GetParcel", mock.Anything, "pending").Return(pendingParcel(), nil)
	f.repo.On("GetParcel", mock.Anything, "p1").Return(transitParcel(), nil)

	_, err := f.uc.OpenDispute(context.Background(), sender, "pending", "Late", "Never arrived")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = f.uc.OpenDispute(context.Background(), someone, "p1", "Late", "Never arrived")
	require.ErrorIs(t, err, entities.ErrForbidden)

	_, err = f.uc.OpenDispute(context.Background(), sender, "p1", "", "Never arrived")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	f.repo.On("CreateDispute", mock.Anything, mock.MatchedBy(func(d entities.Dispute) bool {
		return d.ComplainantID == sender.ID &&
			d.RespondentID == carrier.ID &&
			d.AutoCloseAt != nil && d.AutoCloseAt.Equal(fixedNow.Add(14*24*time.Hour))
	})).Return(&entities.Dispute{ID: "d1", ParcelID: "p1"}, nil)

	d, err := f.uc.OpenDispute(context.Background(), sender, "p1", "Late", "Never arrived")
	require.NoError(t, err)
	require.Equal(t, "d1", d.ID)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DisputesOpened))
}

func TestUsecase_DisputeMessages(t *testing.T) {
	f := newFixture(t)
	f.allowNotifications()

	open := &entities.Dispute{ID: "d1", ParcelID: "p1", ComplainantID: sender.ID, RespondentID: carrier.ID, Status: entities.DisputeOpen}
	closed := &entities.Dispute{ID: "d2", ParcelID: "p1", ComplainantID: sender.ID, RespondentID: carrier.ID, Status: entities.DisputeClosed}
	f.repo.On("GetDispute", mock.Anything, "d1").Return(open, nil)
	f.repo.On("GetDispute", mock.Anything, "d2").Return(closed, nil)

	_, err := f.uc.PostDisputeMessage(context.Background(), sender, "d2", "hi", nil)
	require.ErrorIs(t, err, entities.ErrDisputeClosed)

	_, _, err = f.uc.GetDispute(context.Background(), someone, "d1")
	require.ErrorIs(t, err, entities.ErrForbidden)

	f.repo.On("AddDisputeMessage", mock.Anything, mock.MatchedBy(func(m entities.DisputeMessage) bool {
		return m.SenderID == admin.ID && m.IsAdminMessage
	})).Return(&entities.DisputeMessage{ID: "dm1"}, nil)

	msg, err := f.uc.PostDisputeMessage(context.Background(), admin, "d1", "Looking into it", nil)
	require.NoError(t, err)
	require.Equal(t, "dm1", msg.ID)
}

func TestUsecase_ResolveDispute(t *testing.T) {
	f := newFixture(t)
	f.allowNotifications()

	_, err := f.uc.ResolveDispute(context.Background(), admin, "d1", "", 0)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = f.uc.ResolveDispute(context.Background(), admin, "d1", "Refund", -5)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	f.repo.On("ResolveDispute", mock.Anything, "d1", entities.DisputeResolution{
		AdminID:         admin.ID,
		Resolution:      "Partial refund",
		RefundAmount:    50000,
		RefundReference: "dispute-refund-d1",
	}).Return(&entities.Dispute{ID: "d1", Status: entities.DisputeResolved, ComplainantID: sender.ID, RespondentID: carrier.ID},
		&entities.WalletTransaction{Type: entities.WalletRefund}, nil)

	d, err := f.uc.ResolveDispute(context.Background(), admin, "d1", "Partial refund", 50000)
	require.NoError(t, err)
	require.Equal(t, entities.DisputeResolved, d.Status)

	_, err = f.uc.AdminUpdateDisputeStatus(context.Background(), admin, "d1", entities.DisputeResolved)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestUsecase_CreateReview(t *testing.T) {
	f := newFixture(t)

	f.repo.On("GetParcel", mock.Anything, "transit").Return(transitParcel(), nil)
	f.repo.On("GetParcel", mock.Anything, "p1").Return(withStatus(transitParcel(), entities.ParcelDelivered), nil)

	_, err := f.uc.CreateReview(context.Background(), sender, "p1", 6, nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = f.uc.CreateReview(context.Background(), sender, "transit", 5, nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = f.uc.CreateReview(context.Background(), someone, "p1", 5, nil)
	require.ErrorIs(t, err, entities.ErrForbidden)

	f.repo.On("CreateReview", mock.Anything, entities.Review{
		ParcelID:   "p1",
		ReviewerID: carrier.ID,
		RevieweeID: sender.ID,
		Rating:     4,
		Type:       entities.ReviewCarrierToSender,
	}).Return(&entities.Review{ID: "r1"}, nil)

	r, err := f.uc.CreateReview(context.Background(), carrier, "p1", 4, nil)
	require.NoError(t, err)
	require.Equal(t, "r1", r.ID)
}

func TestUsecase_SweepRefundsExpiredAndClosesDisputes(t *testing.T) {
	f := newFixture(t)
	f.allowNotifications()

	paid := withStatus(pendingParcel(), entities.ParcelExpired)
	unpaid := withStatus(pendingParcel(), entities.ParcelExpired)
	unpaid.ID = "p2"
	refund := &entities.WalletTransaction{
		UserID:    sender.ID,
		Type:      entities.WalletRefund,
		Amount:    160000,
		Reference: entities.RefundReference("ref-1"),
	}

	f.repo.On("ExpireParcels", mock.Anything, fixedNow).
		Return([]entities.StatusOutcome{*outcome(paid, refund), *outcome(unpaid, nil)}, nil)
	f.repo.On("CloseStaleDisputes", mock.Anything, fixedNow).Return(int64(3), nil)

	res, err := f.uc.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, entities.SweepResult{ExpiredParcels: 2, Refunded: 1, ClosedDisputes: 3}, res)
	require.Equal(t, 3.0, testutil.ToFloat64(f.metrics.SweptItems.WithLabelValues("dispute")))
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.WalletTransactions.WithLabelValues("refund")))
}

func TestUsecase_SweepStopsWhenExpiryFails(t *testing.T) {
	f := newFixture(t)

	f.repo.On("ExpireParcels", mock.Anything, fixedNow).Return(nil, errors.New("refund escrow: deadlock detected"))

	_, err := f.uc.Sweep(context.Background())
	require.Error(t, err)
	f.repo.AssertNotCalled(t, "CloseStaleDisputes", mock.Anything, mock.Anything)
}

func TestUsecase_AdminStatsWindow(t *testing.T) {
	f := newFixture(t)
	f.repo.On("AdminStats", mock.Anything, fixedNow.Add(-30*24*time.Hour)).Return(entities.AdminStats{Users: entities.UserCounters{Total: 4}}, nil)

	stats, err := f.uc.AdminStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Users.Total)
}

func TestUsecase_AdminUpdateUserValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.AdminUpdateUser(context.Background(), "u1", entities.AdminUserUpdate{})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	bad := entities.Role("root")
	_, err = f.uc.AdminUpdateUser(context.Background(), "u1", entities.AdminUserUpdate{Role: &bad})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	f.repo.AssertNotCalled(t, "AdminUpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

var receiver = entities.Actor{ID: "receiver-1", Role: entities.RoleUser, Email: "ada@example.com"}

// routedParcel is in transit towards a drop-off point addressed to receiver by email.
func routedParcel() *entities.Parcel {
	p := transitParcel()
	p.ReceiverEmail = strPtr("Ada@Example.com")
	p.DestinationLat = floatPtr(6.5244)
	p.DestinationLng = floatPtr(3.3792)
	return p
}

func locationAt(lat, lng float64) *entities.CarrierLocation {
	return &entities.CarrierLocation{ID: "loc", ParcelID: "p1", CarrierID: carrier.ID, Lat: lat, Lng: lng, CreatedAt: fixedNow}
}

func TestUsecase_ParcelETA(t *testing.T) {
	t.Run("receiver sees estimate", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetParcel", mock.Anything, "p1").Return(routedParcel(), nil)
		f.repo.On("LatestCarrierLocation", mock.Anything, "p1").Return(locationAt(6.5334, 3.3792), nil)

		eta, err := f.uc.ParcelETA(context.Background(), receiver, "p1")
		require.NoError(t, err)
		require.True(t, eta.Available)
		require.InDelta(t, 1.0, eta.DistanceKm, 0.05)
		require.Equal(t, 2, eta.Minutes)
		require.True(t, eta.Nearby())
	})

	t.Run("no carrier location", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetParcel", mock.Anything, "p1").Return(routedParcel(), nil)
		f.repo.On("LatestCarrierLocation", mock.Anything, "p1").Return(nil, entities.ErrLocationNotFound)

		eta, err := f.uc.ParcelETA(context.Background(), receiver, "p1")
		require.NoError(t, err)
		require.False(t, eta.Available)
		require.Equal(t, "Carrier location not available", eta.Message)
	})

	t.Run("no drop-off point", func(t *testing.T) {
		f := newFixture(t)
		p := routedParcel()
		p.DestinationLat = nil
		f.repo.On("GetParcel", mock.Anything, "p1").Return(p, nil)

		eta, err := f.uc.ParcelETA(context.Background(), receiver, "p1")
		require.NoError(t, err)
		require.False(t, eta.Available)
		f.repo.AssertNotCalled(t, "LatestCarrierLocation", mock.Anything, mock.Anything)
	})

	t.Run("delivered parcel", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetParcel", mock.Anything, "p1").Return(withStatus(routedParcel(), entities.ParcelDelivered), nil)

		eta, err := f.uc.ParcelETA(context.Background(), receiver, "p1")
		require.NoError(t, err)
		require.False(t, eta.Available)
		require.Equal(t, "Parcel is delivered", eta.Message)
	})

	t.Run("outsider", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetParcel", mock.Anything, "p1").Return(routedParcel(), nil)

		_, err := f.uc.ParcelETA(context.Background(), someone, "p1")
		require.ErrorIs(t, err, entities.ErrForbidden)
	})
}

func TestUsecase_RecordCarrierLocation(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.RecordCarrierLocation(context.Background(), carrier, "p1", 91, 0, nil)
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
		_, err = f.uc.RecordCarrierLocation(context.Background(), carrier, "p1", 0, 0, floatPtr(-1))
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
		f.repo.AssertNotCalled(t, "GetParcel", mock.Anything, mock.Anything)
	})

	t.Run("only the carrier", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetParcel", mock.Anything, "p1").Return(routedParcel(), nil)

		_, err := f.uc.RecordCarrierLocation(context.Background(), receiver, "p1", 6.5, 3.3, nil)
		require.ErrorIs(t, err, entities.ErrForbidden)
	})

	t.Run("only in transit", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetParcel", mock.Anything, "p1").Return(withStatus(routedParcel(), entities.ParcelDelivered), nil)

		_, err := f.uc.RecordCarrierLocation(context.Background(), carrier, "p1", 6.5, 3.3, nil)
		require.ErrorIs(t, err, entities.ErrInvalidTransition)
	})

	t.Run("alerts receiver when arriving", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetParcel", mock.Anything, "p1").Return(routedParcel(), nil)
		f.repo.On("LatestCarrierLocation", mock.Anything, "p1").Return(locationAt(6.6, 3.3792), nil)
		f.repo.On("CreateCarrierLocation", mock.Anything, mock.MatchedBy(func(l entities.CarrierLocation) bool {
			return l.ParcelID == "p1" && l.CarrierID == carrier.ID && l.Lat == 6.5334
		})).Return(locationAt(6.5334, 3.3792), nil)
		f.repo.On("GetUserByEmail", mock.Anything, "Ada@Example.com").Return(&entities.User{ID: receiver.ID}, nil)
		f.repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
			return n.UserID == receiver.ID && n.Kind == entities.NotifyCarrierNearby
		})).Return(&entities.Notification{}, nil).Once()

		loc, err := f.uc.RecordCarrierLocation(context.Background(), carrier, "p1", 6.5334, 3.3792, nil)
		require.NoError(t, err)
		require.Equal(t, "loc", loc.ID)
	})

	t.Run("already nearby stays quiet", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetParcel", mock.Anything, "p1").Return(routedParcel(), nil)
		f.repo.On("LatestCarrierLocation", mock.Anything, "p1").Return(locationAt(6.5334, 3.3792), nil)
		f.repo.On("CreateCarrierLocation", mock.Anything, mock.Anything).Return(locationAt(6.5300, 3.3792), nil)

		_, err := f.uc.RecordCarrierLocation(context.Background(), carrier, "p1", 6.53, 3.3792, nil)
		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})
}

func TestUsecase_SubmitDeliveryProof(t *testing.T) {
	isProof := func(c entities.StatusChange) bool {
		return c.To == entities.ParcelDelivered && c.ProofURL != nil && *c.ProofURL == "https://cdn.test/proof.jpg"
	}

	t.Run("receiver confirms", func(t *testing.T) {
		f := newFixture(t)
		delivered := withStatus(routedParcel(), entities.ParcelDelivered)
		delivered.DeliveryProofURL = strPtr("https://cdn.test/proof.jpg")

		f.repo.On("GetParcel", mock.Anything, "p1").Return(routedParcel(), nil)
		f.repo.On("UpdateParcelStatus", mock.Anything, "p1", mock.MatchedBy(func(c entities.StatusChange) bool {
			return isProof(c) && *c.ActorID == receiver.ID && c.Note == "left at reception"
		})).Return(outcome(delivered, nil), nil)
		for _, uid := range []string{sender.ID, carrier.ID} {
			uid := uid
			f.repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
				return n.UserID == uid && n.Kind == entities.NotifyDeliveryProof
			})).Return(&entities.Notification{}, nil).Once()
		}

		p, err := f.uc.SubmitDeliveryProof(context.Background(), receiver, "p1", " https://cdn.test/proof.jpg ", "left at reception")
		require.NoError(t, err)
		require.Equal(t, "https://cdn.test/proof.jpg", *p.DeliveryProofURL)
		f.repo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("carrier proof reaches email receiver", func(t *testing.T) {
		f := newFixture(t)
		f.allowNotifications()

		f.repo.On("GetParcel", mock.Anything, "p1").Return(routedParcel(), nil)
		f.repo.On("UpdateParcelStatus", mock.Anything, "p1", mock.MatchedBy(func(c entities.StatusChange) bool {
			return isProof(c) && c.Note == "Delivery proof uploaded"
		})).Return(outcome(withStatus(routedParcel(), entities.ParcelDelivered), nil), nil)
		f.repo.On("GetUserByEmail", mock.Anything, "Ada@Example.com").Return(&entities.User{ID: receiver.ID}, nil)

		_, err := f.uc.SubmitDeliveryProof(context.Background(), carrier, "p1", "https://cdn.test/proof.jpg", "")
		require.NoError(t, err)
		f.repo.AssertCalled(t, "CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
			return n.UserID == receiver.ID && n.Kind == entities.NotifyDeliveryProof
		}))
	})

	t.Run("rejects", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.SubmitDeliveryProof(context.Background(), receiver, "p1", "  ", "")
		require.ErrorIs(t, err, entities.ErrInvalidArgument)

		f.repo.On("GetParcel", mock.Anything, "p1").Return(routedParcel(), nil)
		_, err = f.uc.SubmitDeliveryProof(context.Background(), sender, "p1", "https://cdn.test/proof.jpg", "")
		require.ErrorIs(t, err, entities.ErrForbidden)
		f.repo.AssertNotCalled(t, "UpdateParcelStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUsecase_ReceiverViews(t *testing.T) {
	f := newFixture(t)
	match := entities.ReceiverMatch{ID: receiver.ID, Email: receiver.Email}

	f.repo.On("ListParcels", mock.Anything, mock.MatchedBy(func(fl entities.ParcelFilter) bool {
		return fl.Receiver != nil && *fl.Receiver == match && fl.SenderID == nil && fl.Page.Limit > 0
	})).Return([]entities.Parcel{*routedParcel()}, int64(1), nil)
	f.repo.On("ReceiverStats", mock.Anything, match).
		Return(entities.ReceiverStats{TotalReceived: 3, Delivered: 1, InTransit: 1, Pending: 1}, nil)

	parcels, pg, err := f.uc.ReceivedParcels(context.Background(), receiver, nil, entities.Page{})
	require.NoError(t, err)
	require.Len(t, parcels, 1)
	require.Equal(t, int64(1), pg.Total)

	stats, err := f.uc.ReceiverStats(context.Background(), receiver)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TotalReceived)
}
