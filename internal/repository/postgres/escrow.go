package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	lockParcelPaymentStateQuery = `SELECT status, paid_at FROM parcels WHERE id = $1 FOR UPDATE`
	lockEscrowPaymentQuery      = `
SELECT ` + paymentColumns + `
FROM payments
WHERE parcel_id = $1 AND kind = 'parcel' AND status = 'success' AND released_at IS NULL
ORDER BY paid_at
LIMIT 1
FOR UPDATE`
	releasePaymentQuery = `
UPDATE payments SET released_at = NOW(), updated_at = NOW()
WHERE id = $1
RETURNING released_at`
)

// lockParcelPaymentState returns the status and paid time of a parcel, locking its row.
func lockParcelPaymentState(ctx context.Context, tx pgx.Tx, parcelID string) (entities.ParcelStatus, *time.Time, error) {
	var (
		status entities.ParcelStatus
		paidAt *time.Time
	)
	if err := tx.QueryRow(ctx, lockParcelPaymentStateQuery, parcelID).Scan(&status, &paidAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, entities.ErrParcelNotFound
		}
		return "", nil, fmt.Errorf("lock parcel: %w", err)
	}
	return status, paidAt, nil
}

// settleParcelCharge marks the parcel paid. A charge that lands on a parcel that
// is already paid or no longer payable goes back to the payer's wallet instead.
func (p *Postgres) settleParcelCharge(ctx context.Context, tx pgx.Tx, pm *entities.Payment, paidAt time.Time) error {
	if pm.ParcelID == nil {
		return fmt.Errorf("%w: parcel payment without parcel", entities.ErrInvalidArgument)
	}
	status, parcelPaidAt, err := lockParcelPaymentState(ctx, tx, *pm.ParcelID)
	if err != nil {
		return err
	}
	if parcelPaidAt == nil && status.Payable() {
		if _, err := tx.Exec(ctx, markParcelPaidQuery, *pm.ParcelID, paidAt); err != nil {
			return fmt.Errorf("mark parcel paid: %w", err)
		}
		return nil
	}

	reason := "parcel " + strings.ToLower(string(status))
	if parcelPaidAt != nil {
		reason = "parcel already paid"
	}
	_, err = p.applyWalletTx(ctx, tx, entities.WalletTransaction{
		UserID:      pm.UserID,
		Type:        entities.WalletRefund,
		Amount:      pm.Amount,
		Reference:   entities.RefundReference(pm.Reference),
		Description: "Refund: " + reason,
		ParcelID:    pm.ParcelID,
	})
	if err != nil && !errors.Is(err, entities.ErrDuplicateReference) {
		return err
	}
	if err := tx.QueryRow(ctx, releasePaymentQuery, pm.ID).Scan(&pm.ReleasedAt); err != nil {
		return fmt.Errorf("release payment: %w", err)
	}
	p.log.Warnw("late parcel charge refunded", "reference", pm.Reference, "parcel_id", *pm.ParcelID, "reason", reason)
	return nil
}

// moveEscrow pays the carrier of a delivered parcel or refunds the sender of a
// cancelled or expired one. Each settled payment moves at most once.
func (p *Postgres) moveEscrow(ctx context.Context, tx pgx.Tx, parcel entities.Parcel) (*entities.WalletTransaction, error) {
	var wt entities.WalletTransaction
	switch parcel.Status {
	case entities.ParcelDelivered, entities.ParcelCancelled, entities.ParcelExpired:
	default:
		return nil, nil
	}

	pm, err := scanPayment(tx.QueryRow(ctx, lockEscrowPaymentQuery, parcel.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock escrow payment: %w", err)
	}

	if parcel.Status == entities.ParcelDelivered {
		if parcel.TransporterID == nil {
			return nil, fmt.Errorf("%w: delivered parcel %s has no carrier", entities.ErrInvalidArgument, parcel.ID)
		}
		wt = entities.WalletTransaction{
			UserID:      *parcel.TransporterID,
			Type:        entities.WalletCredit,
			Amount:      pm.CarrierAmount,
			Reference:   entities.ReleaseReference(pm.Reference),
			Description: fmt.Sprintf("Delivery payout: %s to %s", parcel.Origin, parcel.Destination),
			ParcelID:    &parcel.ID,
		}
	} else {
		wt = entities.WalletTransaction{
			UserID:      parcel.SenderID,
			Type:        entities.WalletRefund,
			Amount:      pm.Amount,
			Reference:   entities.RefundReference(pm.Reference),
			Description: fmt.Sprintf("Refund: %s to %s %s", parcel.Origin, parcel.Destination, strings.ToLower(string(parcel.Status))),
			ParcelID:    &parcel.ID,
		}
	}

	var applied *entities.WalletTransaction
	if wt.Amount > 0 {
		applied, err = p.applyWalletTx(ctx, tx, wt)
		if err != nil && !errors.Is(err, entities.ErrDuplicateReference) {
			return nil, err
		}
	}
	if err := tx.QueryRow(ctx, releasePaymentQuery, pm.ID).Scan(&pm.ReleasedAt); err != nil {
		return nil, fmt.Errorf("release payment: %w", err)
	}

	p.log.Infow("escrow moved", "parcel_id", parcel.ID, "payment", pm.Reference, "type", wt.Type, "amount", wt.Amount)
	return applied, nil
}
