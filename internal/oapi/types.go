// Package oapi declares the HTTP contract: DTOs, ServerInterface and route registration.
package oapi

import "time"

// ErrorResponseErrorCode is a machine-readable error code.
type ErrorResponseErrorCode string

const (
	INVALIDARGUMENT      ErrorResponseErrorCode = "INVALID_ARGUMENT"
	UNAUTHORIZED         ErrorResponseErrorCode = "UNAUTHORIZED"
	FORBIDDEN            ErrorResponseErrorCode = "FORBIDDEN"
	NOTFOUND             ErrorResponseErrorCode = "NOT_FOUND"
	USEREXISTS           ErrorResponseErrorCode = "USER_EXISTS"
	INVALIDCREDENTIALS   ErrorResponseErrorCode = "INVALID_CREDENTIALS"
	USERSUSPENDED        ErrorResponseErrorCode = "USER_SUSPENDED"
	SUBSCRIPTIONINACTIVE ErrorResponseErrorCode = "SUBSCRIPTION_INACTIVE"
	SUBSCRIPTIONEXPIRED  ErrorResponseErrorCode = "SUBSCRIPTION_EXPIRED"
	PARCELLIMITREACHED   ErrorResponseErrorCode = "PARCEL_LIMIT_REACHED"
	INSURANCECOVERAGE    ErrorResponseErrorCode = "INSURANCE_COVERAGE"
	PARCELUNAVAILABLE    ErrorResponseErrorCode = "PARCEL_UNAVAILABLE"
	INVALIDTRANSITION    ErrorResponseErrorCode = "INVALID_TRANSITION"
	ALREADYPAID          ErrorResponseErrorCode = "ALREADY_PAID"
	GATEWAYUNAVAILABLE   ErrorResponseErrorCode = "GATEWAY_UNAVAILABLE"
	INSUFFICIENTFUNDS    ErrorResponseErrorCode = "INSUFFICIENT_FUNDS"
	DUPLICATEREFERENCE   ErrorResponseErrorCode = "DUPLICATE_REFERENCE"
	DISPUTEEXISTS        ErrorResponseErrorCode = "DISPUTE_EXISTS"
	DISPUTECLOSED        ErrorResponseErrorCode = "DISPUTE_CLOSED"
	REVIEWEXISTS         ErrorResponseErrorCode = "REVIEW_EXISTS"
	RATELIMITED          ErrorResponseErrorCode = "RATE_LIMITED"
	INTERNAL             ErrorResponseErrorCode = "INTERNAL"
)

// ErrorBody is the payload of ErrorResponse.
type ErrorBody struct {
	Code    ErrorResponseErrorCode `json:"code"`
	Message string                 `json:"message"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Pagination describes a returned page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// User is the account as seen by its owner or an admin.
type User struct {
	Id                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              *string    `json:"phone"`
	Rating             float64    `json:"rating"`
	Verified           bool       `json:"verified"`
	Role               string     `json:"role"`
	Suspended          bool       `json:"suspended"`
	SubscriptionTier   string     `json:"subscriptionTier"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	SubscriptionEnd    *time.Time `json:"subscriptionEndDate"`
	MonthlyParcelCount int        `json:"monthlyParcelCount"`
	WalletBalance      int64      `json:"walletBalance"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// PublicUser is a profile visible to other users.
type PublicUser struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Rating    float64   `json:"rating"`
	Verified  bool      `json:"verified"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is a signed-in user with their token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// SignUpRequest registers an account.
type SignUpRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

// SignInRequest opens a session.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest replaces the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// ProfileUpdateRequest edits the caller's profile.
type ProfileUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

// SubscribeRequest changes the subscription tier.
type SubscribeRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free premium business"`
}

// SubscriptionPlan is a tier's price and quota. A nil limit means unlimited.
type SubscriptionPlan struct {
	Tier                  string   `json:"tier"`
	Name                  string   `json:"name"`
	Price                 int64    `json:"price"`
	PriceInKobo           int64    `json:"priceInKobo"`
	MonthlyParcelLimit    *int     `json:"monthlyParcelLimit"`
	PlatformFeePercentage int64    `json:"platformFeePercentage"`
	Features              []string `json:"features"`
	PaystackPlanCode      string   `json:"paystackPlanCode"`
}

// PlansResponse lists the plans on offer.
type PlansResponse struct {
	Plans []SubscriptionPlan `json:"plans"`
}

// SubscribeResponse carries either the updated user or a checkout.
type SubscribeResponse struct {
	User     *User     `json:"user,omitempty"`
	Checkout *Checkout `json:"checkout,omitempty"`
}

// InsuranceCalculateRequest asks for a tier recommendation.
type InsuranceCalculateRequest struct {
	DeclaredValue int64 `json:"declaredValue" validate:"gte=0"`
}

// InsuranceValidateRequest checks a tier against a declared value.
type InsuranceValidateRequest struct {
	DeclaredValue int64  `json:"declaredValue" validate:"gte=0"`
	Tier          string `json:"tier" validate:"required,oneof=none basic standard premium"`
}

// InsuranceValidateResponse reports a coverage check.
type InsuranceValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Parcel is a shipment.
type Parcel struct {
	Id                  string     `json:"id"`
	SenderId            string     `json:"senderId"`
	SenderName          string     `json:"senderName"`
	SenderRating        float64    `json:"senderRating"`
	TransporterId       *string    `json:"transporterId"`
	ReceiverId          *string    `json:"receiverId"`
	Origin              string     `json:"origin"`
	Destination         string     `json:"destination"`
	OriginLat           *float64   `json:"originLat"`
	OriginLng           *float64   `json:"originLng"`
	DestinationLat      *float64   `json:"destinationLat"`
	DestinationLng      *float64   `json:"destinationLng"`
	Size                string     `json:"size"`
	Weight              *float64   `json:"weight"`
	Description         *string    `json:"description"`
	SpecialInstructions *string    `json:"specialInstructions"`
	IsFragile           bool       `json:"isFragile"`
	Compensation        int64      `json:"compensation"`
	DeclaredValue       int64      `json:"declaredValue"`
	InsuranceTier       string     `json:"insuranceTier"`
	InsuranceFee        int64      `json:"insuranceFee"`
	Total               int64      `json:"total"`
	PickupDate          time.Time  `json:"pickupDate"`
	ExpiresAt           *time.Time `json:"expiresAt"`
	ReceiverName        *string    `json:"receiverName"`
	ReceiverPhone       *string    `json:"receiverPhone"`
	ReceiverEmail       *string    `json:"receiverEmail"`
	Status              string     `json:"status"`
	PaidAt              *time.Time `json:"paidAt"`
	DeliveryProofUrl    *string    `json:"deliveryProofUrl"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// CreateParcelRequest posts a parcel.
type CreateParcelRequest struct {
	Origin              string     `json:"origin" validate:"required,max=200"`
	Destination         string     `json:"destination" validate:"required,max=200"`
	OriginLat           *float64   `json:"originLat" validate:"omitempty,latitude"`
	OriginLng           *float64   `json:"originLng" validate:"omitempty,longitude"`
	DestinationLat      *float64   `json:"destinationLat" validate:"omitempty,latitude"`
	DestinationLng      *float64   `json:"destinationLng" validate:"omitempty,longitude"`
	Size                string     `json:"size" validate:"required,oneof=small medium large"`
	Weight              *float64   `json:"weight" validate:"omitempty,gt=0"`
	Description         *string    `json:"description" validate:"omitempty,max=1000"`
	SpecialInstructions *string    `json:"specialInstructions" validate:"omitempty,max=1000"`
	IsFragile           bool       `json:"isFragile"`
	Compensation        int64      `json:"compensation" validate:"required,gt=0"`
	DeclaredValue       int64      `json:"declaredValue" validate:"gte=0"`
	InsuranceTier       string     `json:"insuranceTier" validate:"omitempty,oneof=none basic standard premium"`
	PickupDate          time.Time  `json:"pickupDate" validate:"required"`
	ExpiresAt           *time.Time `json:"expiresAt"`
	ReceiverName        *string    `json:"receiverName" validate:"omitempty,max=100"`
	ReceiverPhone       *string    `json:"receiverPhone" validate:"omitempty,max=20"`
	ReceiverEmail       *string    `json:"receiverEmail" validate:"omitempty,email"`
}

// UpdateParcelStatusRequest moves a parcel along its lifecycle.
type UpdateParcelStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending 'In Transit' Delivered Cancelled Expired"`
	Note   string `json:"note" validate:"max=500"`
}

// CarrierLocationRequest reports the carrier's position.
type CarrierLocationRequest struct {
	Lat   *float64 `json:"lat" validate:"required,latitude"`
	Lng   *float64 `json:"lng" validate:"required,longitude"`
	Speed *float64 `json:"speed" validate:"omitempty,gte=0"`
}

// CarrierLocation is a stored position report.
type CarrierLocation struct {
	Id        string    `json:"id"`
	ParcelId  string    `json:"parcelId"`
	CarrierId string    `json:"carrierId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Speed     *float64  `json:"speed"`
	CreatedAt time.Time `json:"createdAt"`
}

// ETA is the receiver-facing delivery estimate.
type ETA struct {
	Available       bool             `json:"available"`
	Message         string           `json:"message,omitempty"`
	DistanceKm      float64          `json:"distanceKm"`
	EtaMinutes      int              `json:"etaMinutes"`
	Nearby          bool             `json:"nearby"`
	CarrierLocation *CarrierLocation `json:"carrierLocation"`
}

// DeliveryProofRequest confirms a handover with a photo.
type DeliveryProofRequest struct {
	PhotoUrl string `json:"photoUrl" validate:"required,url,max=2048"`
	Notes    string `json:"notes" validate:"max=500"`
}

// ReceiverStats counts incoming parcels.
type ReceiverStats struct {
	TotalReceived int64 `json:"totalReceived"`
	Delivered     int64 `json:"delivered"`
	InTransit     int64 `json:"inTransit"`
	Pending       int64 `json:"pending"`
}

// ParcelList is a page of parcels.
type ParcelList struct {
	Parcels    []Parcel   `json:"parcels"`
	Pagination Pagination `json:"pagination"`
}

// TrackingEvent is one status change of a parcel.
type TrackingEvent struct {
	Id        string    `json:"id"`
	ParcelId  string    `json:"parcelId"`
	Status    string    `json:"status"`
	Note      *string   `json:"note"`
	ActorId   *string   `json:"actorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Checkout is a hosted payment page.
type Checkout struct {
	AuthorizationUrl string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}

// Payment is a charge record.
type Payment struct {
	Id               string     `json:"id"`
	Reference        string     `json:"reference"`
	Kind             string     `json:"kind"`
	UserId           string     `json:"userId"`
	ParcelId         *string    `json:"parcelId"`
	SubscriptionTier *string    `json:"subscriptionTier"`
	Amount           int64      `json:"amount"`
	PlatformFee      int64      `json:"platformFee"`
	CarrierAmount    int64      `json:"carrierAmount"`
	InsuranceFee     int64      `json:"insuranceFee"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	Method           string     `json:"paymentMethod"`
	PaidAt           *time.Time `json:"paidAt"`
	ReleasedAt       *time.Time `json:"releasedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// ParcelPaymentRequest pays for a parcel.
type ParcelPaymentRequest struct {
	ParcelId string `json:"parcelId" validate:"required"`
}

// PaymentList is a page of payments.
type PaymentList struct {
	Payments   []Payment  `json:"payments"`
	Pagination Pagination `json:"pagination"`
}

// TopupRequest starts a wallet top-up.
type TopupRequest struct {
	Amount int64 `json:"amount" validate:"required,gte=10000"`
}

// WalletBalance is the wallet balance in kobo.
type WalletBalance struct {
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// WalletTransaction is a ledger entry.
type WalletTransaction struct {
	Id            string    `json:"id"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	BalanceBefore int64     `json:"balanceBefore"`
	BalanceAfter  int64     `json:"balanceAfter"`
	Reference     string    `json:"reference"`
	Description   string    `json:"description"`
	ParcelId      *string   `json:"parcelId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StartConversationRequest opens a chat.
type StartConversationRequest struct {
	ParticipantId string  `json:"participantId" validate:"required"`
	ParcelId      *string `json:"parcelId"`
}

// Conversation is a two-party chat.
type Conversation struct {
	Id              string     `json:"id"`
	ParcelId        *string    `json:"parcelId"`
	Participant1Id  string     `json:"participant1Id"`
	Participant2Id  string     `json:"participant2Id"`
	OtherUserName   string     `json:"otherUserName,omitempty"`
	LastMessage     string     `json:"lastMessage,omitempty"`
	LastMessageTime *time.Time `json:"lastMessageTime,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// SendMessageRequest posts a chat message.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// Message is a chat message.
type Message struct {
	Id             string    `json:"id"`
	ConversationId string    `json:"conversationId"`
	SenderId       string    `json:"senderId"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OpenDisputeRequest files a dispute.
type OpenDisputeRequest struct {
	ParcelId    string `json:"parcelId" validate:"required"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
}

// Dispute is a complaint about a parcel.
type Dispute struct {
	Id               string     `json:"id"`
	ParcelId         string     `json:"parcelId"`
	ComplainantId    string     `json:"complainantId"`
	RespondentId     string     `json:"respondentId"`
	Subject          string     `json:"subject"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	Resolution       *string    `json:"resolution"`
	RefundAmount     int64      `json:"refundAmount"`
	RefundedToWallet bool       `json:"refundedToWallet"`
	AdminId          *string    `json:"adminId"`
	ResolvedAt       *time.Time `json:"resolvedAt"`
	AutoCloseAt      *time.Time `json:"autoCloseAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// DisputeList is a page of disputes.
type DisputeList struct {
	Disputes   []Dispute  `json:"disputes"`
	Pagination Pagination `json:"pagination"`
}

// DisputeDetail is a dispute with its thread.
type DisputeDetail struct {
	Dispute  Dispute          `json:"dispute"`
	Messages []DisputeMessage `json:"messages"`
}

// DisputeMessageRequest posts to a dispute thread.
type DisputeMessageRequest struct {
	Message       string  `json:"message" validate:"required,max=2000"`
	AttachmentUrl *string `json:"attachmentUrl" validate:"omitempty,url"`
}

// DisputeMessage is one entry of a dispute thread.
type DisputeMessage struct {
	Id             string    `json:"id"`
	DisputeId      string    `json:"disputeId"`
	SenderId       string    `json:"senderId"`
	Message        string    `json:"message"`
	AttachmentUrl  *string   `json:"attachmentUrl"`
	IsAdminMessage bool      `json:"isAdminMessage"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DisputeStatusRequest moves a dispute to in_review or closed.
type DisputeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_review closed"`
}

// ResolveDisputeRequest records an admin decision.
type ResolveDisputeRequest struct {
	Resolution   string `json:"resolution" validate:"required,max=5000"`
	RefundAmount int64  `json:"refundAmount" validate:"gte=0"`
}

// ReviewRequest rates the other party of a delivered parcel.
type ReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

// Review is a rating.
type Review struct {
	Id         string    `json:"id"`
	ParcelId   string    `json:"parcelId"`
	ReviewerId string    `json:"reviewerId"`
	RevieweeId string    `json:"revieweeId"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	Type       string    `json:"reviewType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Notification is an in-app message.
type Notification struct {
	Id        string    `json:"id"`
	Kind      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ParcelId  *string   `json:"parcelId"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminUserUpdateRequest edits an account.
type AdminUserUpdateRequest struct {
	Verified  *bool   `json:"verified"`
	Suspended *bool   `json:"suspended"`
	Role      *string `json:"role" validate:"omitempty,oneof=user carrier admin"`
}

// UserList is a page of users.
type UserList struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// AdminUserDetail is an account with activity counters.
type AdminUserDetail struct {
	User  User         `json:"user"`
	Stats UserActivity `json:"stats"`
}

// UserActivity counts a user's footprint.
type UserActivity struct {
	SentParcels        int64 `json:"sentParcels"`
	TransportedParcels int64 `json:"transportedParcels"`
	Reviews            int64 `json:"reviews"`
	Disputes           int64 `json:"disputes"`
}

// PageParams selects a page.
type PageParams struct {
	Page  *int `query:"page"`
	Limit *int `query:"limit"`
}

// GetParcelsParams filters parcel listing.
type GetParcelsParams struct {
	Status        *string `query:"status"`
	SenderId      *string `query:"senderId"`
	TransporterId *string `query:"transporterId"`
	Page          *int    `query:"page"`
	Limit         *int    `query:"limit"`
}

// GetReceivedParcelsParams filters the caller's incoming parcels.
type GetReceivedParcelsParams struct {
	Status *string `query:"status"`
	Page   *int    `query:"page"`
	Limit  *int    `query:"limit"`
}

// GetGeocodeParams is a place search.
type GetGeocodeParams struct {
	Q string `query:"q"`
}

// LimitParams bounds a listing.
type LimitParams struct {
	Limit *int `query:"limit"`
}

// GetNotificationsParams filters notifications.
type GetNotificationsParams struct {
	UnreadOnly *bool `query:"unreadOnly"`
	Limit      *int  `query:"limit"`
}

// GetDisputesParams filters dispute listing.
type GetDisputesParams struct {
	Status *string `query:"status"`
	Page   *int    `query:"page"`
	Limit  *int    `query:"limit"`
}

// GetAdminUsersParams filters user listing.
type GetAdminUsersParams struct {
	Search    *string `query:"search"`
	Role      *string `query:"role"`
	Verified  *bool   `query:"verified"`
	Suspended *bool   `query:"suspended"`
	Page      *int    `query:"page"`
	Limit     *int    `query:"limit"`
}

// GetAdminPaymentsParams filters payment listing.
type GetAdminPaymentsParams struct {
	Status *string `query:"status"`
	Page   *int    `query:"page"`
	Limit  *int    `query:"limit"`
}
