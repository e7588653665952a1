package entities

import (
	"fmt"
	"math"
	"time"
)

// SubscriptionTier names a plan.
type SubscriptionTier string

const (
	TierFree     SubscriptionTier = "free"
	TierPremium  SubscriptionTier = "premium"
	TierBusiness SubscriptionTier = "business"
)

// SubscriptionState is the billing state of a subscription.
type SubscriptionState string

const (
	SubscriptionActive    SubscriptionState = "active"
	SubscriptionCancelled SubscriptionState = "cancelled"
	SubscriptionPastDue   SubscriptionState = "past_due"
)

// SubscriptionPeriod is the length of one paid billing cycle.
const SubscriptionPeriod = 30 * 24 * time.Hour

const parcelCountResetDays = 30

// SubscriptionPlan describes a tier's price and quota.
type SubscriptionPlan struct {
	Tier                  SubscriptionTier `json:"tier"`
	Name                  string           `json:"name"`
	Price                 int64            `json:"price"`
	PriceInKobo           int64            `json:"priceInKobo"`
	MonthlyParcelLimit    int              `json:"-"` // 0 means unlimited
	PlatformFeePercentage int64            `json:"platformFeePercentage"`
	Features              []string         `json:"features"`
	PaystackPlanCode      string           `json:"paystackPlanCode"`
}

// Unlimited reports whether the plan has no monthly quota.
func (p SubscriptionPlan) Unlimited() bool { return p.MonthlyParcelLimit == 0 }

var subscriptionPlans = map[SubscriptionTier]SubscriptionPlan{
	TierFree: {
		Tier:                  TierFree,
		Name:                  "Free",
		MonthlyParcelLimit:    5,
		PlatformFeePercentage: 10,
		Features:              []string{"Up to 5 parcels per month", "10% platform fee", "Basic support", "Standard matching"},
	},
	TierPremium: {
		Tier:                  TierPremium,
		Name:                  "Premium",
		Price:                 999,
		PriceInKobo:           99900,
		MonthlyParcelLimit:    20,
		PlatformFeePercentage: 5,
		Features:              []string{"Up to 20 parcels per month", "5% platform fee", "Priority support", "Priority matching", "Verified badge"},
		PaystackPlanCode:      "PLN_premium_monthly",
	},
	TierBusiness: {
		Tier:                  TierBusiness,
		Name:                  "Business",
		Price:                 2999,
		PriceInKobo:           299900,
		PlatformFeePercentage: 3,
		Features:              []string{"Unlimited parcels", "3% platform fee", "Dedicated support", "Priority matching", "API access", "Business verified badge"},
		PaystackPlanCode:      "PLN_business_monthly",
	},
}

// Valid reports whether t is a known tier.
func (t SubscriptionTier) Valid() bool {
	_, ok := subscriptionPlans[t]
	return ok
}

// Plan returns the plan for tier, falling back to free.
func Plan(tier SubscriptionTier) SubscriptionPlan {
	if p, ok := subscriptionPlans[tier]; ok {
		return p
	}
	return subscriptionPlans[TierFree]
}

// Plans lists all plans from cheapest to most expensive.
func Plans() []SubscriptionPlan {
	return []SubscriptionPlan{Plan(TierFree), Plan(TierPremium), Plan(TierBusiness)}
}

// CanCreateParcel checks subscription state and monthly quota.
func CanCreateParcel(u User, now time.Time) error {
	plan := Plan(u.SubscriptionTier)

	if u.SubscriptionStatus != SubscriptionActive {
		return fmt.Errorf("%w: your subscription is not active, please update your subscription", ErrSubscriptionInactive)
	}
	if u.SubscriptionEnd != nil && u.SubscriptionEnd.Before(now) {
		return fmt.Errorf("%w: please renew to continue", ErrSubscriptionExpired)
	}
	if !plan.Unlimited() && u.MonthlyParcelCount >= plan.MonthlyParcelLimit {
		return fmt.Errorf("%w: you've reached your monthly limit of %d parcels, upgrade to Premium or Business for more parcels",
			ErrParcelLimitReached, plan.MonthlyParcelLimit)
	}
	return nil
}

// PlatformFee is the split of a carrier compensation.
type PlatformFee struct {
	PlatformFee           int64 `json:"platformFee"`
	CarrierAmount         int64 `json:"carrierAmount"`
	PlatformFeePercentage int64 `json:"platformFeePercentage"`
}

// CalculatePlatformFee takes the tier's percentage of amount, rounded half up.
func CalculatePlatformFee(amount int64, tier SubscriptionTier) PlatformFee {
	pct := Plan(tier).PlatformFeePercentage
	fee := (amount*pct + 50) / 100
	return PlatformFee{
		PlatformFee:           fee,
		CarrierAmount:         amount - fee,
		PlatformFeePercentage: pct,
	}
}

// ShouldResetParcelCount reports whether the monthly counter is due a reset.
func ShouldResetParcelCount(u User, now time.Time) bool {
	if u.LastParcelResetDate == nil {
		return true
	}
	days := int(now.Sub(*u.LastParcelResetDate).Hours() / 24)
	return days >= parcelCountResetDays
}

// SubscriptionStatus is a user-facing summary of a subscription.
type SubscriptionStatus struct {
	Tier                  SubscriptionTier  `json:"tier"`
	Name                  string            `json:"name"`
	Status                SubscriptionState `json:"status"`
	ParcelsRemaining      *int              `json:"parcelsRemaining"`
	PlatformFeePercentage int64             `json:"platformFeePercentage"`
	DaysUntilRenewal      *int              `json:"daysUntilRenewal"`
}

// StatusOf summarizes u's subscription at now.
func StatusOf(u User, now time.Time) SubscriptionStatus {
	plan := Plan(u.SubscriptionTier)

	status := u.SubscriptionStatus
	if status == "" {
		status = SubscriptionActive
	}

	res := SubscriptionStatus{
		Tier:                  plan.Tier,
		Name:                  plan.Name,
		Status:                status,
		PlatformFeePercentage: plan.PlatformFeePercentage,
	}

	if !plan.Unlimited() {
		remaining := plan.MonthlyParcelLimit - u.MonthlyParcelCount
		if remaining < 0 {
			remaining = 0
		}
		res.ParcelsRemaining = &remaining
	}

	if u.SubscriptionEnd != nil {
		days := int(math.Ceil(u.SubscriptionEnd.Sub(now).Hours() / 24))
		res.DaysUntilRenewal = &days
	}

	return res
}

// SubscribeResult is either an immediate plan change or a checkout to pay for one.
type SubscribeResult struct {
	User     *User
	Checkout *Checkout
}
