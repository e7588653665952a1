// Package gateway declares the external services the usecases depend on.
package gateway

import (
	"context"
	"time"

	"parcelpeer/internal/entities"
)

// Gateway transaction statuses as reported by the payment provider.
const (
	TxSuccess   = "success"
	TxFailed    = "failed"
	TxAbandoned = "abandoned"
)

// InitializeRequest starts a hosted checkout. Amount is in kobo.
type InitializeRequest struct {
	Email       string
	Amount      int64
	Reference   string
	CallbackURL string
	Plan        string
	Metadata    map[string]string
}

// Transaction is the provider's view of a checkout.
type Transaction struct {
	Reference string
	Status    string
	Amount    int64
	PaidAt    *time.Time
	// Raw is the provider response kept for audit.
	Raw string
}

// PaymentGateway is a hosted card checkout provider.
type PaymentGateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (entities.Checkout, error)
	Verify(ctx context.Context, reference string) (Transaction, error)
	VerifySignature(body []byte, signature string) bool
}

// Geocoder resolves free-text addresses.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]entities.Place, error)
}
