package domain

import (
	"context"
	"fmt"

	"parcelpeer/internal/entities"
)

// CreateReview rates the other party of a delivered parcel.
func (u *Usecase) CreateReview(
	ctx context.Context,
	actor entities.Actor,
	parcelID string,
	rating int,
	comment *string,
) (*entities.Review, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", entities.ErrInvalidArgument)
	}

	p, err := u.repo.GetParcel(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	if p.Status != entities.ParcelDelivered {
		return nil, fmt.Errorf("%w: only delivered parcels can be reviewed", entities.ErrInvalidArgument)
	}
	reviewee, ok := p.Counterparty(actor.ID)
	if !ok {
		return nil, fmt.Errorf("%w: only the sender or carrier can review", entities.ErrForbidden)
	}

	kind := entities.ReviewSenderToCarrier
	if actor.ID != p.SenderID {
		kind = entities.ReviewCarrierToSender
	}
	return u.repo.CreateReview(ctx, entities.Review{
		ParcelID:   p.ID,
		ReviewerID: actor.ID,
		RevieweeID: reviewee,
		Rating:     rating,
		Comment:    comment,
		Type:       kind,
	})
}
