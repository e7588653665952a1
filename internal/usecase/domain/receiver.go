package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parcelpeer/internal/entities"
)

func receiverOf(actor entities.Actor) entities.ReceiverMatch {
	return entities.ReceiverMatch{ID: actor.ID, Email: actor.Email}
}

// ReceivedParcels lists the parcels addressed to the caller.
func (u *Usecase) ReceivedParcels(
	ctx context.Context,
	actor entities.Actor,
	status *entities.ParcelStatus,
	page entities.Page,
) ([]entities.Parcel, entities.Pagination, error) {
	m := receiverOf(actor)
	return u.ListParcels(ctx, entities.ParcelFilter{Status: status, Receiver: &m, Page: page})
}

// ReceiverStats counts the caller's incoming parcels by status.
func (u *Usecase) ReceiverStats(ctx context.Context, actor entities.Actor) (entities.ReceiverStats, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ReceiverStats(ctx, receiverOf(actor))
}

// RecordCarrierLocation stores the carrier's position on an in-transit parcel
// and alerts the receiver once the carrier comes within reach.
func (u *Usecase) RecordCarrierLocation(
	ctx context.Context,
	actor entities.Actor,
	parcelID string,
	lat, lng float64,
	speed *float64,
) (*entities.CarrierLocation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", entities.ErrInvalidArgument)
	}
	if speed != nil && *speed < 0 {
		return nil, fmt.Errorf("%w: speed cannot be negative", entities.ErrInvalidArgument)
	}

	p, err := u.repo.GetParcel(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	if p.TransporterID == nil || *p.TransporterID != actor.ID {
		return nil, fmt.Errorf("%w: only the carrier can report a location", entities.ErrForbidden)
	}
	if p.Status != entities.ParcelInTransit {
		return nil, fmt.Errorf("%w: parcel is %s", entities.ErrInvalidTransition, p.Status)
	}

	before := u.estimate(ctx, *p)
	loc, err := u.repo.CreateCarrierLocation(ctx, entities.CarrierLocation{
		ParcelID:  p.ID,
		CarrierID: actor.ID,
		Lat:       lat,
		Lng:       lng,
		Speed:     speed,
	})
	if err != nil {
		return nil, err
	}

	if p.DestinationLat != nil && p.DestinationLng != nil && !before.Nearby() {
		eta := entities.EstimateETA(*loc, *p.DestinationLat, *p.DestinationLng)
		if eta.Nearby() {
			u.notifyReceiver(ctx, *p, entities.Notification{
				Kind:     entities.NotifyCarrierNearby,
				Title:    "Carrier nearby",
				Body:     fmt.Sprintf("Your parcel from %s is about %d minutes away", p.Origin, eta.Minutes),
				ParcelID: &p.ID,
			})
		}
	}
	return loc, nil
}

// ParcelETA estimates when the carrier reaches the drop-off point.
func (u *Usecase) ParcelETA(ctx context.Context, actor entities.Actor, parcelID string) (entities.ETA, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	p, err := u.repo.GetParcel(ctx, parcelID)
	if err != nil {
		return entities.ETA{}, err
	}
	if !actor.IsAdmin() && p.SenderID != actor.ID && !p.IsReceiver(actor.ID, actor.Email) {
		return entities.ETA{}, fmt.Errorf("%w: not the receiver of this parcel", entities.ErrForbidden)
	}
	if p.Status != entities.ParcelInTransit {
		return entities.ETA{Message: "Parcel is " + strings.ToLower(string(p.Status))}, nil
	}
	return u.estimate(ctx, *p), nil
}

// estimate returns an unavailable ETA when either end is unknown.
func (u *Usecase) estimate(ctx context.Context, p entities.Parcel) entities.ETA {
	if p.DestinationLat == nil || p.DestinationLng == nil {
		return entities.ETA{Message: "Drop-off location not available"}
	}
	loc, err := u.repo.LatestCarrierLocation(ctx, p.ID)
	if err != nil {
		if !errors.Is(err, entities.ErrLocationNotFound) {
			u.log.Warnw("failed to load carrier location", "error", err, "parcel_id", p.ID)
		}
		return entities.ETA{Message: "Carrier location not available"}
	}
	return entities.EstimateETA(*loc, *p.DestinationLat, *p.DestinationLng)
}

// SubmitDeliveryProof marks an in-transit parcel delivered with a photo of the
// handover. The carrier or the receiver may submit it.
func (u *Usecase) SubmitDeliveryProof(
	ctx context.Context,
	actor entities.Actor,
	parcelID, photoURL, notes string,
) (*entities.Parcel, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	photoURL = strings.TrimSpace(photoURL)
	if photoURL == "" {
		return nil, fmt.Errorf("%w: photo url is required", entities.ErrInvalidArgument)
	}

	p, err := u.repo.GetParcel(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	isCarrier := p.TransporterID != nil && *p.TransporterID == actor.ID
	if !actor.IsAdmin() && !isCarrier && !p.IsReceiver(actor.ID, actor.Email) {
		return nil, fmt.Errorf("%w: only the carrier or receiver can confirm delivery", entities.ErrForbidden)
	}

	note := strings.TrimSpace(notes)
	if note == "" {
		note = "Delivery proof uploaded"
	}
	n := entities.Notification{
		Kind:  entities.NotifyDeliveryProof,
		Title: "Delivery proof uploaded",
		Body:  fmt.Sprintf("Your parcel from %s to %s was delivered with proof of handover", p.Origin, p.Destination),
	}
	delivered, err := u.changeStatus(ctx, actor, parcelID, entities.StatusChange{
		To:       entities.ParcelDelivered,
		ActorID:  &actor.ID,
		Note:     note,
		ProofURL: &photoURL,
	}, n)
	if err != nil {
		return nil, err
	}
	// notifyParties only reaches receivers linked by account.
	if delivered.ReceiverID == nil && !delivered.IsReceiver(actor.ID, actor.Email) {
		n.ParcelID = &delivered.ID
		u.notifyReceiver(ctx, *delivered, n)
	}
	return delivered, nil
}

// notifyReceiver reaches a receiver known only by email through their account.
func (u *Usecase) notifyReceiver(ctx context.Context, p entities.Parcel, n entities.Notification) {
	switch {
	case p.ReceiverID != nil:
		n.UserID = *p.ReceiverID
	case p.ReceiverEmail != nil && *p.ReceiverEmail != "":
		usr, err := u.repo.GetUserByEmail(ctx, *p.ReceiverEmail)
		if err != nil {
			if !errors.Is(err, entities.ErrUserNotFound) {
				u.log.Warnw("failed to resolve receiver", "error", err, "parcel_id", p.ID)
			}
			return
		}
		n.UserID = usr.ID
	}
	u.notify(ctx, n)
}
