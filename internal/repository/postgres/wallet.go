package postgres

import (
	"context"
	"errors"
	"fmt"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	selectWalletBalanceQuery     = `SELECT wallet_balance FROM users WHERE id = $1`
	lockWalletBalanceQuery       = `SELECT wallet_balance FROM users WHERE id = $1 FOR UPDATE`
	updateWalletBalanceQuery     = `UPDATE users SET wallet_balance = $2 WHERE id = $1`
	walletReferenceExistsQuery   = `SELECT EXISTS (SELECT 1 FROM wallet_transactions WHERE reference = $1)`
	insertWalletTransactionQuery = `
INSERT INTO wallet_transactions (id, user_id, type, amount, balance_before, balance_after, reference, description, parcel_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at`
	selectWalletTransactionsQuery = `
SELECT id, user_id, type, amount, balance_before, balance_after, reference, description, parcel_id, created_at
FROM wallet_transactions
WHERE user_id = $1
ORDER BY created_at DESC, id
LIMIT $2`
)

// WalletBalance returns the user's balance in kobo.
func (p *Postgres) WalletBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	if err := p.db.QueryRow(ctx, selectWalletBalanceQuery, userID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, entities.ErrUserNotFound
		}
		return 0, fmt.Errorf("wallet balance: %w", err)
	}
	return balance, nil
}

// ApplyWalletTransaction records a ledger entry and moves the balance atomically.
func (p *Postgres) ApplyWalletTransaction(ctx context.Context, wt entities.WalletTransaction) (*entities.WalletTransaction, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	applied, err := p.applyWalletTx(ctx, tx, wt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("wallet transaction applied", "user_id", applied.UserID, "type", applied.Type,
		"amount", applied.Amount, "balance_after", applied.BalanceAfter, "reference", applied.Reference)
	return applied, nil
}

// applyWalletTx runs inside the caller's transaction so payments and refunds share it.
func (p *Postgres) applyWalletTx(ctx context.Context, tx pgx.Tx, wt entities.WalletTransaction) (*entities.WalletTransaction, error) {
	if !wt.Type.Valid() || wt.Amount <= 0 || wt.Reference == "" {
		return nil, fmt.Errorf("%w: wallet transaction needs a type, positive amount and reference", entities.ErrInvalidArgument)
	}

	var exists bool
	if err := tx.QueryRow(ctx, walletReferenceExistsQuery, wt.Reference).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check wallet reference: %w", err)
	}
	if exists {
		return nil, entities.ErrDuplicateReference
	}

	if err := tx.QueryRow(ctx, lockWalletBalanceQuery, wt.UserID).Scan(&wt.BalanceBefore); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("lock wallet: %w", err)
	}
	wt.BalanceAfter = wt.BalanceBefore + wt.Type.Sign()*wt.Amount
	if wt.BalanceAfter < 0 {
		return nil, entities.ErrInsufficientFunds
	}

	wt.ID = orNewID(wt.ID)
	err := tx.QueryRow(ctx, insertWalletTransactionQuery,
		wt.ID, wt.UserID, wt.Type, wt.Amount, wt.BalanceBefore, wt.BalanceAfter, wt.Reference, wt.Description, wt.ParcelID,
	).Scan(&wt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrDuplicateReference
		}
		p.log.Errorw("failed to insert wallet transaction", "error", err, "reference", wt.Reference)
		return nil, fmt.Errorf("insert wallet transaction: %w", err)
	}
	if _, err := tx.Exec(ctx, updateWalletBalanceQuery, wt.UserID, wt.BalanceAfter); err != nil {
		return nil, fmt.Errorf("update wallet balance: %w", err)
	}
	return &wt, nil
}

// ListWalletTransactions returns the newest ledger entries of a user.
func (p *Postgres) ListWalletTransactions(ctx context.Context, userID string, limit int) ([]entities.WalletTransaction, error) {
	rows, err := p.db.Query(ctx, selectWalletTransactionsQuery, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]entities.WalletTransaction, 0, limit)
	for rows.Next() {
		var wt entities.WalletTransaction
		if err := rows.Scan(&wt.ID, &wt.UserID, &wt.Type, &wt.Amount, &wt.BalanceBefore, &wt.BalanceAfter,
			&wt.Reference, &wt.Description, &wt.ParcelID, &wt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		txs = append(txs, wt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet transactions: %w", err)
	}
	return txs, nil
}
