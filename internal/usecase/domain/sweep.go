package domain

import (
	"context"
	"fmt"

	"parcelpeer/internal/entities"
)

// Sweep expires overdue parcels, refunds paid ones and closes stale disputes.
func (u *Usecase) Sweep(ctx context.Context) (entities.SweepResult, error) {
	var res entities.SweepResult
	now := u.now()

	expired, err := u.repo.ExpireParcels(ctx, now)
	if err != nil {
		return res, fmt.Errorf("expire parcels: %w", err)
	}
	res.ExpiredParcels = len(expired)

	for _, out := range expired {
		p := out.Parcel
		if out.Escrow != nil {
			res.Refunded++
			u.recordEscrow(p, out.Escrow)
		}
		u.notify(ctx, entities.Notification{
			UserID:   p.SenderID,
			Kind:     entities.NotifyParcelStatus,
			Title:    "Parcel expired",
			Body:     fmt.Sprintf("Your parcel from %s to %s expired without a carrier", p.Origin, p.Destination),
			ParcelID: &p.ID,
		})
	}

	closed, err := u.repo.CloseStaleDisputes(ctx, now)
	if err != nil {
		return res, fmt.Errorf("close stale disputes: %w", err)
	}
	res.ClosedDisputes = int(closed)

	u.metrics.SweptItems.WithLabelValues("parcel").Add(float64(res.ExpiredParcels))
	u.metrics.SweptItems.WithLabelValues("refund").Add(float64(res.Refunded))
	u.metrics.SweptItems.WithLabelValues("dispute").Add(float64(res.ClosedDisputes))
	return res, nil
}

// Ready reports whether storage is reachable.
func (u *Usecase) Ready(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.Ping(ctx)
}
