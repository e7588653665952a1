package entities

import "time"

// PaymentKind is what a gateway checkout pays for.
type PaymentKind string

const (
	PaymentParcel       PaymentKind = "parcel"
	PaymentSubscription PaymentKind = "subscription"
	PaymentTopup        PaymentKind = "topup"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSuccess   PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentSuccess, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}

// PaymentMethod is how the payer funded a payment.
type PaymentMethod string

const (
	MethodPaystack PaymentMethod = "paystack"
	MethodWallet   PaymentMethod = "wallet"
)

// Currency is the single settlement currency.
const Currency = "NGN"

// Payment is a charge against a payer. Amounts are in kobo.
type Payment struct {
	ID               string
	Reference        string
	Kind             PaymentKind
	UserID           string
	ParcelID         *string
	CarrierID        *string
	SubscriptionTier *SubscriptionTier
	Amount           int64
	PlatformFee      int64
	CarrierAmount    int64
	InsuranceFee     int64
	Currency         string
	Status           PaymentStatus
	Method           PaymentMethod
	AccessCode       *string
	AuthorizationURL *string
	GatewayData      *string
	PaidAt           *time.Time
	ReleasedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Checkout is a hosted payment page handed to the client.
type Checkout struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}

// Settlement is the gateway outcome applied to a pending payment.
type Settlement struct {
	Status      PaymentStatus
	PaidAt      time.Time
	GatewayData string
	// SubscriptionEnd is the new period end for subscription payments.
	SubscriptionEnd time.Time
}

// PaymentFilter narrows admin payment listing.
type PaymentFilter struct {
	Status *PaymentStatus
	Page   Page
}
