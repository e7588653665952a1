package postgres

import (
	"context"
	"fmt"
	"time"

	"parcelpeer/internal/entities"
)

const (
	userCountersQuery   = `SELECT COUNT(*), COUNT(*) FILTER (WHERE created_at >= $1) FROM users`
	parcelCountersQuery = `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'Pending') FROM parcels`
	parcelByStatusQuery = `SELECT status, COUNT(*) FROM parcels GROUP BY status ORDER BY status`
	paymentCounters     = `
SELECT COUNT(*),
       COALESCE(SUM(amount) FILTER (WHERE status = 'success'), 0),
       COALESCE(SUM(platform_fee) FILTER (WHERE status = 'success'), 0)
FROM payments`
	paymentByStatusQuery = `SELECT status, COUNT(*) FROM payments GROUP BY status ORDER BY status`
	openDisputesQuery    = `SELECT COUNT(*) FROM disputes WHERE status IN ('open', 'in_review')`
)

// AdminStats returns dashboard counters; users created at or after since count as recent.
func (p *Postgres) AdminStats(ctx context.Context, since time.Time) (entities.AdminStats, error) {
	res := entities.AdminStats{}

	if err := p.db.QueryRow(ctx, userCountersQuery, since).Scan(&res.Users.Total, &res.Users.Recent); err != nil {
		return res, fmt.Errorf("user counters: %w", err)
	}
	if err := p.db.QueryRow(ctx, parcelCountersQuery).Scan(&res.Parcels.Total, &res.Parcels.Pending); err != nil {
		return res, fmt.Errorf("parcel counters: %w", err)
	}

	rows, err := p.db.Query(ctx, parcelByStatusQuery)
	if err != nil {
		return res, fmt.Errorf("parcels by status: %w", err)
	}
	defer rows.Close()
	res.Parcels.StatusBreakdown = make([]entities.ParcelStatusCnt, 0)
	for rows.Next() {
		var s entities.ParcelStatusCnt
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return res, fmt.Errorf("scan parcel status: %w", err)
		}
		res.Parcels.StatusBreakdown = append(res.Parcels.StatusBreakdown, s)
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("iterate parcel status: %w", err)
	}

	if err := p.db.QueryRow(ctx, paymentCounters).
		Scan(&res.Payments.Total, &res.Payments.Revenue, &res.Payments.PlatformFees); err != nil {
		return res, fmt.Errorf("payment counters: %w", err)
	}

	rows2, err := p.db.Query(ctx, paymentByStatusQuery)
	if err != nil {
		return res, fmt.Errorf("payments by status: %w", err)
	}
	defer rows2.Close()
	res.Payments.StatusBreakdown = make([]entities.PaymentStatusCnt, 0)
	for rows2.Next() {
		var s entities.PaymentStatusCnt
		if err := rows2.Scan(&s.Status, &s.Count); err != nil {
			return res, fmt.Errorf("scan payment status: %w", err)
		}
		res.Payments.StatusBreakdown = append(res.Payments.StatusBreakdown, s)
	}
	if err := rows2.Err(); err != nil {
		return res, fmt.Errorf("iterate payment status: %w", err)
	}

	if err := p.db.QueryRow(ctx, openDisputesQuery).Scan(&res.Disputes.Open); err != nil {
		return res, fmt.Errorf("open disputes: %w", err)
	}

	return res, nil
}
