package entities

import "time"

// WalletTxType classifies wallet movements.
type WalletTxType string

const (
	WalletTopup  WalletTxType = "topup"
	WalletDebit  WalletTxType = "debit"
	WalletCredit WalletTxType = "credit"
	WalletRefund WalletTxType = "refund"
)

// MinTopup is the smallest wallet top-up in kobo.
const MinTopup int64 = 10000

// ReleaseReference is the ledger reference of the carrier payout for a payment.
func ReleaseReference(paymentRef string) string { return "release-" + paymentRef }

// RefundReference is the ledger reference of the full refund of a payment.
func RefundReference(paymentRef string) string { return "refund-" + paymentRef }

// Sign returns +1 for money in and -1 for money out.
func (t WalletTxType) Sign() int64 {
	if t == WalletDebit {
		return -1
	}
	return 1
}

// Valid reports whether t is a known type.
func (t WalletTxType) Valid() bool {
	switch t {
	case WalletTopup, WalletDebit, WalletCredit, WalletRefund:
		return true
	}
	return false
}

// WalletTransaction is an immutable ledger entry.
type WalletTransaction struct {
	ID            string
	UserID        string
	Type          WalletTxType
	Amount        int64
	BalanceBefore int64
	BalanceAfter  int64
	Reference     string
	Description   string
	ParcelID      *string
	CreatedAt     time.Time
}
