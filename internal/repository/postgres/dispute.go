package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const disputeColumns = `id, parcel_id, complainant_id, respondent_id, subject, description, status, resolution,
refund_amount, refunded_to_wallet, admin_id, resolved_at, auto_close_at, created_at, updated_at`

const (
	insertDisputeQuery = `
INSERT INTO disputes (id, parcel_id, complainant_id, respondent_id, subject, description, auto_close_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + disputeColumns
	selectDisputeQuery       = `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`
	lockDisputeQuery         = `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1 FOR UPDATE`
	updateDisputeStatusQuery = `
UPDATE disputes
SET status = $2, admin_id = COALESCE($3, admin_id), updated_at = NOW()
WHERE id = $1
RETURNING ` + disputeColumns
	resolveDisputeQuery = `
UPDATE disputes
SET status = 'resolved', resolution = $2, refund_amount = $3, refunded_to_wallet = $4,
    admin_id = $5, resolved_at = NOW(), updated_at = NOW()
WHERE id = $1
RETURNING ` + disputeColumns
	settledParcelAmountQuery  = `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE parcel_id = $1 AND kind = 'parcel' AND status = 'success'`
	refundedParcelAmountQuery = `SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE parcel_id = $1 AND type = 'refund'`
	insertDisputeMessageQuery = `
INSERT INTO dispute_messages (id, dispute_id, sender_id, message, attachment_url, is_admin_message)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	touchDisputeQuery          = `UPDATE disputes SET updated_at = NOW() WHERE id = $1`
	selectDisputeMessagesQuery = `
SELECT id, dispute_id, sender_id, message, attachment_url, is_admin_message, created_at
FROM dispute_messages
WHERE dispute_id = $1
ORDER BY created_at, id`
	closeStaleDisputesQuery = `
UPDATE disputes
SET status = 'closed', resolution = COALESCE(resolution, 'Closed automatically after inactivity'), updated_at = NOW()
WHERE status IN ('open', 'in_review') AND auto_close_at IS NOT NULL AND auto_close_at <= $1`
)

func scanDispute(row scanner) (*entities.Dispute, error) {
	var d entities.Dispute
	err := row.Scan(
		&d.ID, &d.ParcelID, &d.ComplainantID, &d.RespondentID, &d.Subject, &d.Description, &d.Status, &d.Resolution,
		&d.RefundAmount, &d.RefundedToWallet, &d.AdminID, &d.ResolvedAt, &d.AutoCloseAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDispute opens a dispute; one unresolved dispute per parcel and complainant.
func (p *Postgres) CreateDispute(ctx context.Context, d entities.Dispute) (*entities.Dispute, error) {
	created, err := scanDispute(p.db.QueryRow(ctx, insertDisputeQuery,
		orNewID(d.ID), d.ParcelID, d.ComplainantID, d.RespondentID, d.Subject, d.Description, d.AutoCloseAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrDisputeExists
		}
		p.log.Errorw("failed to insert dispute", "error", err, "parcel_id", d.ParcelID)
		return nil, fmt.Errorf("insert dispute: %w", err)
	}

	p.log.Infow("dispute opened", "dispute_id", created.ID, "parcel_id", created.ParcelID)
	return created, nil
}

// GetDispute loads a dispute.
func (p *Postgres) GetDispute(ctx context.Context, id string) (*entities.Dispute, error) {
	d, err := scanDispute(p.db.QueryRow(ctx, selectDisputeQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrDisputeNotFound
		}
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	return d, nil
}

// ListDisputes returns one page of disputes newest first plus the total count.
func (p *Postgres) ListDisputes(ctx context.Context, filter entities.DisputeFilter) ([]entities.Dispute, int64, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.PartyID != nil {
		args = append(args, *filter.PartyID)
		where = append(where, fmt.Sprintf("(complainant_id = $%[1]d OR respondent_id = $%[1]d)", len(args)))
	}
	clause := whereClause(where)

	var total int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM disputes`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count disputes: %w", err)
	}

	page := filter.Page.Normalize()
	args = append(args, page.Limit, page.Offset())
	query := `SELECT ` + disputeColumns + ` FROM disputes` + clause +
		fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list disputes: %w", err)
	}
	defer rows.Close()

	disputes := make([]entities.Dispute, 0, page.Limit)
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			p.log.Errorw("failed to scan dispute", "error", err)
			return nil, 0, fmt.Errorf("scan dispute: %w", err)
		}
		disputes = append(disputes, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate disputes: %w", err)
	}
	return disputes, total, nil
}

// AddDisputeMessage appends to the thread of a dispute that is still open.
func (p *Postgres) AddDisputeMessage(ctx context.Context, m entities.DisputeMessage) (*entities.DisputeMessage, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	d, err := scanDispute(tx.QueryRow(ctx, lockDisputeQuery, m.DisputeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrDisputeNotFound
		}
		return nil, fmt.Errorf("lock dispute: %w", err)
	}
	if d.Status.Terminal() {
		return nil, entities.ErrDisputeClosed
	}

	m.ID = orNewID(m.ID)
	if err := tx.QueryRow(ctx, insertDisputeMessageQuery,
		m.ID, m.DisputeID, m.SenderID, m.Message, m.AttachmentURL, m.IsAdminMessage,
	).Scan(&m.CreatedAt); err != nil {
		p.log.Errorw("failed to insert dispute message", "error", err, "dispute_id", m.DisputeID)
		return nil, fmt.Errorf("insert dispute message: %w", err)
	}
	if _, err := tx.Exec(ctx, touchDisputeQuery, m.DisputeID); err != nil {
		return nil, fmt.Errorf("touch dispute: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &m, nil
}

// DisputeMessages returns a dispute thread oldest first.
func (p *Postgres) DisputeMessages(ctx context.Context, disputeID string) ([]entities.DisputeMessage, error) {
	rows, err := p.db.Query(ctx, selectDisputeMessagesQuery, disputeID)
	if err != nil {
		return nil, fmt.Errorf("dispute messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]entities.DisputeMessage, 0)
	for rows.Next() {
		var m entities.DisputeMessage
		if err := rows.Scan(&m.ID, &m.DisputeID, &m.SenderID, &m.Message, &m.AttachmentURL, &m.IsAdminMessage, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dispute message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispute messages: %w", err)
	}
	return msgs, nil
}

// UpdateDisputeStatus moves a dispute along its lifecycle.
func (p *Postgres) UpdateDisputeStatus(ctx context.Context, id string, to entities.DisputeStatus, adminID *string) (*entities.Dispute, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	d, err := scanDispute(tx.QueryRow(ctx, lockDisputeQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrDisputeNotFound
		}
		return nil, fmt.Errorf("lock dispute: %w", err)
	}
	if d.Status.Terminal() {
		return nil, entities.ErrDisputeClosed
	}
	if !d.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, d.Status, to)
	}

	updated, err := scanDispute(tx.QueryRow(ctx, updateDisputeStatusQuery, id, to, adminID))
	if err != nil {
		p.log.Errorw("failed to update dispute status", "error", err, "dispute_id", id)
		return nil, fmt.Errorf("update dispute status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("dispute status updated", "dispute_id", id, "from", d.Status, "to", to)
	return updated, nil
}

// ResolveDispute records the decision and credits any refund to the complainant atomically.
func (p *Postgres) ResolveDispute(ctx context.Context, id string, res entities.DisputeResolution) (*entities.Dispute, *entities.WalletTransaction, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	d, err := scanDispute(tx.QueryRow(ctx, lockDisputeQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, entities.ErrDisputeNotFound
		}
		return nil, nil, fmt.Errorf("lock dispute: %w", err)
	}
	if d.Status.Terminal() {
		return nil, nil, entities.ErrDisputeClosed
	}

	var refund *entities.WalletTransaction
	if res.RefundAmount > 0 {
		refundable, err := p.refundableAmount(ctx, tx, d.ParcelID)
		if err != nil {
			return nil, nil, err
		}
		if refundable <= 0 {
			return nil, nil, fmt.Errorf("%w: parcel has no settled payment left to refund", entities.ErrInvalidArgument)
		}
		if res.RefundAmount > refundable {
			return nil, nil, fmt.Errorf("%w: refund %d exceeds refundable amount %d", entities.ErrInvalidArgument, res.RefundAmount, refundable)
		}
		refund, err = p.applyWalletTx(ctx, tx, entities.WalletTransaction{
			UserID:      d.ComplainantID,
			Type:        entities.WalletRefund,
			Amount:      res.RefundAmount,
			Reference:   res.RefundReference,
			Description: "Dispute refund",
			ParcelID:    &d.ParcelID,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	resolved, err := scanDispute(tx.QueryRow(ctx, resolveDisputeQuery,
		id, res.Resolution, res.RefundAmount, refund != nil, res.AdminID))
	if err != nil {
		p.log.Errorw("failed to resolve dispute", "error", err, "dispute_id", id)
		return nil, nil, fmt.Errorf("resolve dispute: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	p.log.Infow("dispute resolved", "dispute_id", id, "refund", res.RefundAmount, "admin_id", res.AdminID)
	return resolved, refund, nil
}

// refundableAmount is what was paid for a parcel minus every refund already made
// against it. The parcel row stays locked so concurrent resolutions serialize.
func (p *Postgres) refundableAmount(ctx context.Context, tx pgx.Tx, parcelID string) (int64, error) {
	if _, _, err := lockParcelPaymentState(ctx, tx, parcelID); err != nil {
		return 0, err
	}
	var settled, refunded int64
	if err := tx.QueryRow(ctx, settledParcelAmountQuery, parcelID).Scan(&settled); err != nil {
		return 0, fmt.Errorf("settled amount: %w", err)
	}
	if err := tx.QueryRow(ctx, refundedParcelAmountQuery, parcelID).Scan(&refunded); err != nil {
		return 0, fmt.Errorf("refunded amount: %w", err)
	}
	return settled - refunded, nil
}

// CloseStaleDisputes closes unresolved disputes past their auto-close time.
func (p *Postgres) CloseStaleDisputes(ctx context.Context, now time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, closeStaleDisputesQuery, now)
	if err != nil {
		return 0, fmt.Errorf("close stale disputes: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		p.log.Infow("stale disputes closed", "count", n)
	}
	return tag.RowsAffected(), nil
}
