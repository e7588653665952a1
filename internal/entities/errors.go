// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized signals missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals an authenticated caller acting outside their rights.
	ErrForbidden = errors.New("forbidden")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists signals email conflict on sign up.
	ErrUserExists = errors.New("user exists")
	// ErrInvalidCredentials signals a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserSuspended signals an account blocked by an admin.
	ErrUserSuspended = errors.New("user suspended")

	// ErrSubscriptionInactive signals a subscription that is not active.
	ErrSubscriptionInactive = errors.New("subscription inactive")
	// ErrSubscriptionExpired signals a subscription past its end date.
	ErrSubscriptionExpired = errors.New("subscription expired")
	// ErrParcelLimitReached signals the monthly parcel quota is used up.
	ErrParcelLimitReached = errors.New("monthly parcel limit reached")
	// ErrInsuranceCoverage signals a declared value above tier coverage.
	ErrInsuranceCoverage = errors.New("insurance coverage exceeded")

	// ErrParcelNotFound signals missing parcel.
	ErrParcelNotFound = errors.New("parcel not found")
	// ErrParcelUnavailable signals a parcel that can no longer be accepted.
	ErrParcelUnavailable = errors.New("parcel unavailable")
	// ErrInvalidTransition signals a status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrLocationNotFound signals a parcel with no carrier position yet.
	ErrLocationNotFound = errors.New("carrier location not found")

	// ErrPaymentNotFound signals missing payment reference.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrAlreadyPaid signals a parcel with a settled payment.
	ErrAlreadyPaid = errors.New("parcel already paid")
	// ErrGatewayUnavailable signals the payment provider cannot be reached.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInsufficientFunds signals a wallet debit above the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDuplicateReference signals a wallet transaction already applied.
	ErrDuplicateReference = errors.New("duplicate transaction reference")

	// ErrConversationNotFound signals missing conversation.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrDisputeNotFound signals missing dispute.
	ErrDisputeNotFound = errors.New("dispute not found")
	// ErrDisputeExists signals an unresolved dispute already open for the parcel.
	ErrDisputeExists = errors.New("dispute exists")
	// ErrDisputeClosed signals modification of a resolved or closed dispute.
	ErrDisputeClosed = errors.New("dispute closed")

	// ErrReviewExists signals a second review of the same parcel.
	ErrReviewExists = errors.New("review exists")

	// ErrNotificationNotFound signals missing notification.
	ErrNotificationNotFound = errors.New("notification not found")
)
