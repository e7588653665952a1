package postgres

import (
	"context"
	"errors"
	"fmt"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	insertCarrierLocationQuery = `
INSERT INTO carrier_locations (id, parcel_id, carrier_id, lat, lng, speed)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	selectLatestCarrierLocationQuery = `
SELECT id, parcel_id, carrier_id, lat, lng, speed, created_at
FROM carrier_locations
WHERE parcel_id = $1
ORDER BY created_at DESC, id
LIMIT 1`
	receiverStatsQuery = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'Delivered'),
       COUNT(*) FILTER (WHERE status = 'In Transit'),
       COUNT(*) FILTER (WHERE status = 'Pending')
FROM parcels
WHERE receiver_id = $1 OR ($2 <> '' AND LOWER(receiver_email) = LOWER($2))`
)

// CreateCarrierLocation stores a position report.
func (p *Postgres) CreateCarrierLocation(ctx context.Context, loc entities.CarrierLocation) (*entities.CarrierLocation, error) {
	loc.ID = orNewID(loc.ID)
	err := p.db.QueryRow(ctx, insertCarrierLocationQuery,
		loc.ID, loc.ParcelID, loc.CarrierID, loc.Lat, loc.Lng, loc.Speed,
	).Scan(&loc.CreatedAt)
	if err != nil {
		p.log.Errorw("failed to insert carrier location", "error", err, "parcel_id", loc.ParcelID)
		return nil, fmt.Errorf("insert carrier location: %w", err)
	}
	return &loc, nil
}

// LatestCarrierLocation returns the newest position report of a parcel.
func (p *Postgres) LatestCarrierLocation(ctx context.Context, parcelID string) (*entities.CarrierLocation, error) {
	var loc entities.CarrierLocation
	err := p.db.QueryRow(ctx, selectLatestCarrierLocationQuery, parcelID).Scan(
		&loc.ID, &loc.ParcelID, &loc.CarrierID, &loc.Lat, &loc.Lng, &loc.Speed, &loc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrLocationNotFound
		}
		return nil, fmt.Errorf("latest carrier location: %w", err)
	}
	return &loc, nil
}

// ReceiverStats counts the parcels addressed to a receiver by status.
func (p *Postgres) ReceiverStats(ctx context.Context, receiver entities.ReceiverMatch) (entities.ReceiverStats, error) {
	var s entities.ReceiverStats
	err := p.db.QueryRow(ctx, receiverStatsQuery, receiver.ID, receiver.Email).
		Scan(&s.TotalReceived, &s.Delivered, &s.InTransit, &s.Pending)
	if err != nil {
		return s, fmt.Errorf("receiver stats: %w", err)
	}
	return s, nil
}
