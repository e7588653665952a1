package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func ptrTime(t time.Time) *time.Time { return &t }

func TestPlanFallsBackToFree(t *testing.T) {
	require.Equal(t, TierFree, Plan("").Tier)
	require.Equal(t, TierFree, Plan("gold").Tier)
	require.Equal(t, int64(3), Plan(TierBusiness).PlatformFeePercentage)
	require.True(t, Plan(TierBusiness).Unlimited())
	require.Len(t, Plans(), 3)
}

func TestCanCreateParcel(t *testing.T) {
	tests := []struct {
		name string
		user User
		err  error
	}{
		{
			name: "active free under limit",
			user: User{SubscriptionTier: TierFree, SubscriptionStatus: SubscriptionActive, MonthlyParcelCount: 4},
		},
		{
			name: "inactive",
			user: User{SubscriptionTier: TierPremium, SubscriptionStatus: SubscriptionCancelled},
			err:  ErrSubscriptionInactive,
		},
		{
			name: "expired",
			user: User{SubscriptionTier: TierPremium, SubscriptionStatus: SubscriptionActive, SubscriptionEnd: ptrTime(now.Add(-time.Hour))},
			err:  ErrSubscriptionExpired,
		},
		{
			name: "free at limit",
			user: User{SubscriptionTier: TierFree, SubscriptionStatus: SubscriptionActive, MonthlyParcelCount: 5},
			err:  ErrParcelLimitReached,
		},
		{
			name: "business unlimited",
			user: User{SubscriptionTier: TierBusiness, SubscriptionStatus: SubscriptionActive, MonthlyParcelCount: 10_000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanCreateParcel(tt.user, now)
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCanCreateParcelLimitMessage(t *testing.T) {
	err := CanCreateParcel(User{SubscriptionTier: TierPremium, SubscriptionStatus: SubscriptionActive, MonthlyParcelCount: 20}, now)
	require.ErrorContains(t, err, "monthly limit of 20 parcels")
}

func TestCalculatePlatformFee(t *testing.T) {
	fee := CalculatePlatformFee(150000, TierFree)
	require.Equal(t, PlatformFee{PlatformFee: 15000, CarrierAmount: 135000, PlatformFeePercentage: 10}, fee)

	// 3% of 1250 is 37.5 and rounds half up.
	fee = CalculatePlatformFee(1250, TierBusiness)
	require.Equal(t, int64(38), fee.PlatformFee)
	require.Equal(t, int64(1212), fee.CarrierAmount)

	fee = CalculatePlatformFee(0, TierPremium)
	require.Zero(t, fee.PlatformFee)
}

func TestShouldResetParcelCount(t *testing.T) {
	require.True(t, ShouldResetParcelCount(User{}, now))
	require.False(t, ShouldResetParcelCount(User{LastParcelResetDate: ptrTime(now.Add(-29 * 24 * time.Hour))}, now))
	require.True(t, ShouldResetParcelCount(User{LastParcelResetDate: ptrTime(now.Add(-30 * 24 * time.Hour))}, now))
}

func TestStatusOf(t *testing.T) {
	st := StatusOf(User{SubscriptionTier: TierFree, MonthlyParcelCount: 2}, now)
	require.Equal(t, SubscriptionActive, st.Status)
	require.Equal(t, "Free", st.Name)
	require.NotNil(t, st.ParcelsRemaining)
	require.Equal(t, 3, *st.ParcelsRemaining)
	require.Nil(t, st.DaysUntilRenewal)

	st = StatusOf(User{
		SubscriptionTier:   TierBusiness,
		SubscriptionStatus: SubscriptionActive,
		SubscriptionEnd:    ptrTime(now.Add(36 * time.Hour)),
	}, now)
	require.Nil(t, st.ParcelsRemaining)
	require.NotNil(t, st.DaysUntilRenewal)
	require.Equal(t, 2, *st.DaysUntilRenewal)

	st = StatusOf(User{SubscriptionTier: TierFree, MonthlyParcelCount: 9}, now)
	require.Equal(t, 0, *st.ParcelsRemaining)
}
