package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const parcelColumns = `p.id, p.sender_id, p.transporter_id, p.receiver_id, p.origin, p.destination,
p.origin_lat, p.origin_lng, p.destination_lat, p.destination_lng, p.size, p.weight, p.description,
p.special_instructions, p.is_fragile, p.compensation, p.declared_value, p.insurance_tier, p.insurance_fee,
p.pickup_date, p.expires_at, p.receiver_name, p.receiver_phone, p.receiver_email, p.status, p.paid_at,
p.delivery_proof_url, p.created_at, p.updated_at, s.name, s.rating`

const (
	selectParcelQuery = `SELECT ` + parcelColumns + `
FROM parcels p
JOIN users s ON s.id = p.sender_id
WHERE p.id = $1`
	selectSenderForUpdateQuery = `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1 FOR UPDATE`
	resetParcelCountQuery      = `UPDATE users SET monthly_parcel_count = 0, last_parcel_reset_date = $2 WHERE id = $1`
	incrementParcelCountQuery  = `UPDATE users SET monthly_parcel_count = monthly_parcel_count + 1 WHERE id = $1`
	insertParcelQuery          = `
INSERT INTO parcels (
    id, sender_id, receiver_id, origin, destination, origin_lat, origin_lng, destination_lat, destination_lng,
    size, weight, description, special_instructions, is_fragile, compensation, declared_value,
    insurance_tier, insurance_fee, pickup_date, expires_at, receiver_name, receiver_phone, receiver_email,
    status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,'Pending',$24,$24)`
	acceptParcelQuery = `
UPDATE parcels
SET transporter_id = $2, status = 'In Transit', updated_at = NOW()
WHERE id = $1 AND status = 'Pending' AND transporter_id IS NULL AND sender_id <> $2
RETURNING id`
	parcelExistsQuery           = `SELECT sender_id FROM parcels WHERE id = $1`
	selectParcelStatusForUpdate = `SELECT status FROM parcels WHERE id = $1 FOR UPDATE`
	updateParcelStatusQuery     = `
UPDATE parcels
SET status = $2, delivery_proof_url = COALESCE($3, delivery_proof_url), updated_at = NOW()
WHERE id = $1`
	insertTrackingEventQuery    = `
INSERT INTO parcel_tracking_events (id, parcel_id, status, note, actor_id)
VALUES ($1, $2, $3, $4, $5)`
	selectTrackingEventsQuery = `
SELECT id, parcel_id, status, note, actor_id, created_at
FROM parcel_tracking_events
WHERE parcel_id = $1
ORDER BY created_at, id`
	expireParcelsQuery = `
UPDATE parcels
SET status = 'Expired', updated_at = NOW()
WHERE status = 'Pending' AND expires_at IS NOT NULL AND expires_at <= $1
RETURNING id`
)

func scanParcel(row scanner) (*entities.Parcel, error) {
	var pr entities.Parcel
	err := row.Scan(
		&pr.ID, &pr.SenderID, &pr.TransporterID, &pr.ReceiverID, &pr.Origin, &pr.Destination,
		&pr.OriginLat, &pr.OriginLng, &pr.DestinationLat, &pr.DestinationLng, &pr.Size, &pr.Weight, &pr.Description,
		&pr.SpecialInstructions, &pr.IsFragile, &pr.Compensation, &pr.DeclaredValue, &pr.InsuranceTier, &pr.InsuranceFee,
		&pr.PickupDate, &pr.ExpiresAt, &pr.ReceiverName, &pr.ReceiverPhone, &pr.ReceiverEmail, &pr.Status, &pr.PaidAt,
		&pr.DeliveryProofURL, &pr.CreatedAt, &pr.UpdatedAt, &pr.SenderName, &pr.SenderRating,
	)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// CreateParcel checks the sender quota, inserts the parcel and bumps the monthly counter in one transaction.
func (p *Postgres) CreateParcel(ctx context.Context, parcel entities.Parcel, now time.Time) (*entities.Parcel, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sender, err := scanUser(tx.QueryRow(ctx, selectSenderForUpdateQuery, parcel.SenderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		p.log.Errorw("failed to lock sender", "error", err, "user_id", parcel.SenderID)
		return nil, fmt.Errorf("lock sender: %w", err)
	}
	if sender.Suspended {
		return nil, entities.ErrUserSuspended
	}

	if entities.ShouldResetParcelCount(*sender, now) {
		if _, err := tx.Exec(ctx, resetParcelCountQuery, sender.ID, now); err != nil {
			return nil, fmt.Errorf("reset parcel count: %w", err)
		}
		sender.MonthlyParcelCount = 0
		sender.LastParcelResetDate = &now
	}
	if err := entities.CanCreateParcel(*sender, now); err != nil {
		return nil, err
	}

	parcel.ID = orNewID(parcel.ID)
	_, err = tx.Exec(ctx, insertParcelQuery,
		parcel.ID, parcel.SenderID, parcel.ReceiverID, parcel.Origin, parcel.Destination,
		parcel.OriginLat, parcel.OriginLng, parcel.DestinationLat, parcel.DestinationLng,
		parcel.Size, parcel.Weight, parcel.Description, parcel.SpecialInstructions, parcel.IsFragile,
		parcel.Compensation, parcel.DeclaredValue, parcel.InsuranceTier, parcel.InsuranceFee,
		parcel.PickupDate, parcel.ExpiresAt, parcel.ReceiverName, parcel.ReceiverPhone, parcel.ReceiverEmail,
		now,
	)
	if err != nil {
		p.log.Errorw("failed to insert parcel", "error", err, "sender_id", parcel.SenderID)
		return nil, fmt.Errorf("insert parcel: %w", err)
	}
	if _, err := tx.Exec(ctx, incrementParcelCountQuery, sender.ID); err != nil {
		return nil, fmt.Errorf("increment parcel count: %w", err)
	}
	note := "Parcel created"
	if _, err := tx.Exec(ctx, insertTrackingEventQuery, newID(), parcel.ID, entities.ParcelPending, &note, &parcel.SenderID); err != nil {
		return nil, fmt.Errorf("insert tracking event: %w", err)
	}

	created, err := scanParcel(tx.QueryRow(ctx, selectParcelQuery, parcel.ID))
	if err != nil {
		return nil, fmt.Errorf("reload parcel: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("parcel created", "parcel_id", created.ID, "sender_id", created.SenderID,
		"monthly_count", sender.MonthlyParcelCount+1)
	return created, nil
}

// GetParcel loads a parcel with sender details.
func (p *Postgres) GetParcel(ctx context.Context, id string) (*entities.Parcel, error) {
	parcel, err := scanParcel(p.db.QueryRow(ctx, selectParcelQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrParcelNotFound
		}
		return nil, fmt.Errorf("get parcel: %w", err)
	}
	return parcel, nil
}

// ListParcels returns one page of parcels newest first plus the total count.
func (p *Postgres) ListParcels(ctx context.Context, filter entities.ParcelFilter) ([]entities.Parcel, int64, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.SenderID != nil {
		args = append(args, *filter.SenderID)
		where = append(where, fmt.Sprintf("p.sender_id = $%d", len(args)))
	}
	if filter.TransporterID != nil {
		args = append(args, *filter.TransporterID)
		where = append(where, fmt.Sprintf("p.transporter_id = $%d", len(args)))
	}
	if r := filter.Receiver; r != nil {
		args = append(args, r.ID, r.Email)
		where = append(where, fmt.Sprintf("(p.receiver_id = $%d OR ($%d <> '' AND LOWER(p.receiver_email) = LOWER($%d)))",
			len(args)-1, len(args), len(args)))
	}
	clause := whereClause(where)

	var total int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM parcels p`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count parcels: %w", err)
	}

	page := filter.Page.Normalize()
	args = append(args, page.Limit, page.Offset())
	query := `SELECT ` + parcelColumns + ` FROM parcels p JOIN users s ON s.id = p.sender_id` + clause +
		fmt.Sprintf(" ORDER BY p.created_at DESC, p.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list parcels: %w", err)
	}
	defer rows.Close()

	parcels := make([]entities.Parcel, 0, page.Limit)
	for rows.Next() {
		parcel, err := scanParcel(rows)
		if err != nil {
			p.log.Errorw("failed to scan parcel", "error", err)
			return nil, 0, fmt.Errorf("scan parcel: %w", err)
		}
		parcels = append(parcels, *parcel)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate parcels: %w", err)
	}
	return parcels, total, nil
}

// AcceptParcel assigns the carrier and starts the delivery if the parcel is still open.
func (p *Postgres) AcceptParcel(ctx context.Context, id, carrierID string) (*entities.Parcel, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var acceptedID string
	if err := tx.QueryRow(ctx, acceptParcelQuery, id, carrierID).Scan(&acceptedID); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			p.log.Errorw("failed to accept parcel", "error", err, "parcel_id", id)
			return nil, fmt.Errorf("accept parcel: %w", err)
		}
		var senderID string
		if err := tx.QueryRow(ctx, parcelExistsQuery, id).Scan(&senderID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, entities.ErrParcelNotFound
			}
			return nil, fmt.Errorf("lookup parcel: %w", err)
		}
		if senderID == carrierID {
			return nil, fmt.Errorf("%w: sender cannot accept own parcel", entities.ErrForbidden)
		}
		return nil, entities.ErrParcelUnavailable
	}

	note := "Parcel accepted by carrier"
	if _, err := tx.Exec(ctx, insertTrackingEventQuery, newID(), id, entities.ParcelInTransit, &note, &carrierID); err != nil {
		return nil, fmt.Errorf("insert tracking event: %w", err)
	}

	parcel, err := scanParcel(tx.QueryRow(ctx, selectParcelQuery, id))
	if err != nil {
		return nil, fmt.Errorf("reload parcel: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("parcel accepted", "parcel_id", id, "carrier_id", carrierID)
	return parcel, nil
}

// UpdateParcelStatus moves a parcel along its lifecycle, records a tracking event
// and releases or refunds its escrow in the same transaction.
func (p *Postgres) UpdateParcelStatus(ctx context.Context, id string, change entities.StatusChange) (*entities.StatusOutcome, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current entities.ParcelStatus
	if err := tx.QueryRow(ctx, selectParcelStatusForUpdate, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrParcelNotFound
		}
		return nil, fmt.Errorf("lock parcel: %w", err)
	}
	if !current.CanTransition(change.To) {
		return nil, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, current, change.To)
	}

	if _, err := tx.Exec(ctx, updateParcelStatusQuery, id, change.To, change.ProofURL); err != nil {
		p.log.Errorw("failed to update parcel status", "error", err, "parcel_id", id)
		return nil, fmt.Errorf("update parcel status: %w", err)
	}
	var note *string
	if change.Note != "" {
		note = &change.Note
	}
	if _, err := tx.Exec(ctx, insertTrackingEventQuery, newID(), id, change.To, note, change.ActorID); err != nil {
		return nil, fmt.Errorf("insert tracking event: %w", err)
	}

	parcel, err := scanParcel(tx.QueryRow(ctx, selectParcelQuery, id))
	if err != nil {
		return nil, fmt.Errorf("reload parcel: %w", err)
	}
	escrow, err := p.moveEscrow(ctx, tx, *parcel)
	if err != nil {
		p.log.Errorw("failed to move escrow", "error", err, "parcel_id", id, "to", change.To)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("parcel status updated", "parcel_id", id, "from", current, "to", change.To)
	return &entities.StatusOutcome{Parcel: *parcel, Escrow: escrow}, nil
}

// TrackingEvents returns a parcel's history oldest first.
func (p *Postgres) TrackingEvents(ctx context.Context, parcelID string) ([]entities.TrackingEvent, error) {
	rows, err := p.db.Query(ctx, selectTrackingEventsQuery, parcelID)
	if err != nil {
		return nil, fmt.Errorf("tracking events: %w", err)
	}
	defer rows.Close()

	events := make([]entities.TrackingEvent, 0)
	for rows.Next() {
		var e entities.TrackingEvent
		if err := rows.Scan(&e.ID, &e.ParcelID, &e.Status, &e.Note, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tracking event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracking events: %w", err)
	}
	return events, nil
}

// ExpireParcels expires overdue pending parcels and refunds any that were paid.
func (p *Postgres) ExpireParcels(ctx context.Context, now time.Time) ([]entities.StatusOutcome, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, expireParcelsQuery, now)
	if err != nil {
		return nil, fmt.Errorf("expire parcels: %w", err)
	}
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan expired parcel: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired parcels: %w", err)
	}

	note := "Parcel expired"
	expired := make([]entities.StatusOutcome, 0, len(ids))
	for _, id := range ids {
		if _, err := tx.Exec(ctx, insertTrackingEventQuery, newID(), id, entities.ParcelExpired, &note, nil); err != nil {
			return nil, fmt.Errorf("insert tracking event: %w", err)
		}
		parcel, err := scanParcel(tx.QueryRow(ctx, selectParcelQuery, id))
		if err != nil {
			return nil, fmt.Errorf("reload parcel: %w", err)
		}
		escrow, err := p.moveEscrow(ctx, tx, *parcel)
		if err != nil {
			return nil, fmt.Errorf("refund expired parcel %s: %w", id, err)
		}
		expired = append(expired, entities.StatusOutcome{Parcel: *parcel, Escrow: escrow})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	if len(expired) > 0 {
		p.log.Infow("parcels expired", "count", len(expired))
	}
	return expired, nil
}
