package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, reference, kind, user_id, parcel_id, carrier_id, subscription_tier, amount, platform_fee,
carrier_amount, insurance_fee, currency, status, method, access_code, authorization_url, gateway_data,
paid_at, released_at, created_at, updated_at`

const (
	insertPaymentQuery = `
INSERT INTO payments (
    id, reference, kind, user_id, parcel_id, carrier_id, subscription_tier, amount, platform_fee,
    carrier_amount, insurance_fee, currency, status, method, access_code, authorization_url, paid_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
RETURNING ` + paymentColumns
	selectPaymentByReferenceQuery = `SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1`
	lockPaymentByReferenceQuery   = `SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1 FOR UPDATE`
	settlePaymentQuery            = `
UPDATE payments
SET status = $2, paid_at = $3, gateway_data = $4, updated_at = NOW()
WHERE id = $1
RETURNING ` + paymentColumns
	markParcelPaidQuery       = `UPDATE parcels SET paid_at = COALESCE(paid_at, $2), updated_at = NOW() WHERE id = $1`
	activateSubscriptionQuery = `
UPDATE users
SET subscription_tier = $2, subscription_status = 'active', subscription_start = $3, subscription_end = $4
WHERE id = $1`
	selectPendingParcelPaymentQuery = `
SELECT ` + paymentColumns + `
FROM payments
WHERE parcel_id = $1 AND kind = 'parcel' AND status = 'pending' AND method = 'paystack'
ORDER BY created_at DESC
LIMIT 1`
)

func scanPayment(row scanner) (*entities.Payment, error) {
	var pm entities.Payment
	err := row.Scan(
		&pm.ID, &pm.Reference, &pm.Kind, &pm.UserID, &pm.ParcelID, &pm.CarrierID, &pm.SubscriptionTier,
		&pm.Amount, &pm.PlatformFee, &pm.CarrierAmount, &pm.InsuranceFee, &pm.Currency, &pm.Status, &pm.Method,
		&pm.AccessCode, &pm.AuthorizationURL, &pm.GatewayData, &pm.PaidAt, &pm.ReleasedAt, &pm.CreatedAt, &pm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func insertPayment(ctx context.Context, q pgx.Tx, pm entities.Payment) (*entities.Payment, error) {
	return scanPayment(q.QueryRow(ctx, insertPaymentQuery,
		orNewID(pm.ID), pm.Reference, pm.Kind, pm.UserID, pm.ParcelID, pm.CarrierID, pm.SubscriptionTier,
		pm.Amount, pm.PlatformFee, pm.CarrierAmount, pm.InsuranceFee, currencyOrDefault(pm.Currency),
		pm.Status, pm.Method, pm.AccessCode, pm.AuthorizationURL, pm.PaidAt,
	))
}

func currencyOrDefault(c string) string {
	if c == "" {
		return entities.Currency
	}
	return c
}

// CreatePayment records a new payment attempt.
func (p *Postgres) CreatePayment(ctx context.Context, pm entities.Payment) (*entities.Payment, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := insertPayment(ctx, tx, pm)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrDuplicateReference
		}
		p.log.Errorw("failed to insert payment", "error", err, "reference", pm.Reference)
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("payment created", "reference", created.Reference, "kind", created.Kind, "amount", created.Amount)
	return created, nil
}

// GetPaymentByReference loads a payment by its gateway reference.
func (p *Postgres) GetPaymentByReference(ctx context.Context, reference string) (*entities.Payment, error) {
	pm, err := scanPayment(p.db.QueryRow(ctx, selectPaymentByReferenceQuery, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return pm, nil
}

// SettlePayment applies the gateway outcome and its side effect in one transaction.
func (p *Postgres) SettlePayment(ctx context.Context, reference string, s entities.Settlement) (*entities.Payment, bool, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pm, err := scanPayment(tx.QueryRow(ctx, lockPaymentByReferenceQuery, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, entities.ErrPaymentNotFound
		}
		return nil, false, fmt.Errorf("lock payment: %w", err)
	}
	if pm.Status != entities.PaymentPending || s.Status == entities.PaymentPending {
		return pm, false, nil
	}

	var paidAt *time.Time
	if s.Status == entities.PaymentSuccess {
		paidAt = &s.PaidAt
	}
	var gatewayData *string
	if s.GatewayData != "" {
		gatewayData = &s.GatewayData
	}
	settled, err := scanPayment(tx.QueryRow(ctx, settlePaymentQuery, pm.ID, s.Status, paidAt, gatewayData))
	if err != nil {
		p.log.Errorw("failed to settle payment", "error", err, "reference", reference)
		return nil, false, fmt.Errorf("settle payment: %w", err)
	}

	if s.Status == entities.PaymentSuccess {
		if err := p.applySettlementEffect(ctx, tx, settled, s); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	p.log.Infow("payment settled", "reference", reference, "kind", settled.Kind, "status", settled.Status)
	return settled, true, nil
}

func (p *Postgres) applySettlementEffect(ctx context.Context, tx pgx.Tx, pm *entities.Payment, s entities.Settlement) error {
	switch pm.Kind {
	case entities.PaymentParcel:
		return p.settleParcelCharge(ctx, tx, pm, s.PaidAt)
	case entities.PaymentSubscription:
		if pm.SubscriptionTier == nil {
			return fmt.Errorf("%w: subscription payment without tier", entities.ErrInvalidArgument)
		}
		if _, err := tx.Exec(ctx, activateSubscriptionQuery, pm.UserID, *pm.SubscriptionTier, s.PaidAt, s.SubscriptionEnd); err != nil {
			return fmt.Errorf("activate subscription: %w", err)
		}
	case entities.PaymentTopup:
		_, err := p.applyWalletTx(ctx, tx, entities.WalletTransaction{
			UserID:      pm.UserID,
			Type:        entities.WalletTopup,
			Amount:      pm.Amount,
			Reference:   pm.Reference,
			Description: "Wallet top-up",
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// PayParcelFromWallet debits the sender and records a settled wallet payment in one transaction.
func (p *Postgres) PayParcelFromWallet(ctx context.Context, pm entities.Payment) (*entities.Payment, *entities.WalletTransaction, error) {
	if pm.ParcelID == nil {
		return nil, nil, fmt.Errorf("%w: parcel id is required", entities.ErrInvalidArgument)
	}

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	status, paidAt, err := lockParcelPaymentState(ctx, tx, *pm.ParcelID)
	if err != nil {
		return nil, nil, err
	}
	if paidAt != nil {
		return nil, nil, entities.ErrAlreadyPaid
	}
	if !status.Payable() {
		return nil, nil, fmt.Errorf("%w: parcel is %s", entities.ErrInvalidArgument, status)
	}

	wt, err := p.applyWalletTx(ctx, tx, entities.WalletTransaction{
		UserID:      pm.UserID,
		Type:        entities.WalletDebit,
		Amount:      pm.Amount,
		Reference:   pm.Reference,
		Description: "Parcel payment",
		ParcelID:    pm.ParcelID,
	})
	if err != nil {
		return nil, nil, err
	}

	now := wt.CreatedAt
	pm.Status = entities.PaymentSuccess
	pm.Method = entities.MethodWallet
	pm.PaidAt = &now
	created, err := insertPayment(ctx, tx, pm)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, entities.ErrDuplicateReference
		}
		p.log.Errorw("failed to insert wallet payment", "error", err, "reference", pm.Reference)
		return nil, nil, fmt.Errorf("insert payment: %w", err)
	}
	if _, err := tx.Exec(ctx, markParcelPaidQuery, *pm.ParcelID, now); err != nil {
		return nil, nil, fmt.Errorf("mark parcel paid: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	p.log.Infow("parcel paid from wallet", "parcel_id", *pm.ParcelID, "user_id", pm.UserID, "amount", pm.Amount)
	return created, wt, nil
}

// ListPayments returns the payer's payments newest first.
func (p *Postgres) ListPayments(ctx context.Context, userID string, page entities.Page) ([]entities.Payment, int64, error) {
	return p.listPayments(ctx, []string{"user_id = $1"}, []any{userID}, page)
}

// AdminListPayments returns all payments, optionally by status.
func (p *Postgres) AdminListPayments(ctx context.Context, filter entities.PaymentFilter) ([]entities.Payment, int64, error) {
	if filter.Status != nil {
		return p.listPayments(ctx, []string{"status = $1"}, []any{*filter.Status}, filter.Page)
	}
	return p.listPayments(ctx, nil, nil, filter.Page)
}

func (p *Postgres) listPayments(ctx context.Context, where []string, args []any, page entities.Page) ([]entities.Payment, int64, error) {
	clause := whereClause(where)

	var total int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	page = page.Normalize()
	args = append(args, page.Limit, page.Offset())
	query := `SELECT ` + paymentColumns + ` FROM payments` + clause +
		fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]entities.Payment, 0, page.Limit)
	for rows.Next() {
		pm, err := scanPayment(rows)
		if err != nil {
			p.log.Errorw("failed to scan payment", "error", err)
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *pm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, total, nil
}

// PendingParcelPayment returns the newest open gateway checkout of a parcel.
func (p *Postgres) PendingParcelPayment(ctx context.Context, parcelID string) (*entities.Payment, error) {
	pm, err := scanPayment(p.db.QueryRow(ctx, selectPendingParcelPaymentQuery, parcelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("pending parcel payment: %w", err)
	}
	return pm, nil
}
