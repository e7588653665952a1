package domain

import (
	"context"
	"fmt"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/gateway"
)

const (
	defaultWalletTxLimit = 50
	maxWalletTxLimit     = 100
)

// WalletBalance returns the balance in kobo.
func (u *Usecase) WalletBalance(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.WalletBalance(ctx, userID)
}

// WalletTransactions lists ledger entries newest first.
func (u *Usecase) WalletTransactions(ctx context.Context, userID string, limit int) ([]entities.WalletTransaction, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultWalletTxLimit
	}
	if limit > maxWalletTxLimit {
		limit = maxWalletTxLimit
	}
	return u.repo.ListWalletTransactions(ctx, userID, limit)
}

// InitializeTopup opens a checkout crediting the wallet once verified.
func (u *Usecase) InitializeTopup(ctx context.Context, userID string, amount int64) (*entities.Checkout, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if amount < entities.MinTopup {
		return nil, fmt.Errorf("%w: minimum top-up is ₦%d", entities.ErrInvalidArgument, entities.MinTopup/100)
	}
	usr, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return u.checkout(ctx, *usr, entities.Payment{
		Reference: newReference(string(entities.PaymentTopup)),
		Kind:      entities.PaymentTopup,
		UserID:    userID,
		Amount:    amount,
		Status:    entities.PaymentPending,
		Method:    entities.MethodPaystack,
	}, gateway.InitializeRequest{})
}
