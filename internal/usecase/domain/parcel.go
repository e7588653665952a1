package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parcelpeer/internal/entities"
)

const (
	geocodeLimit   = 5
	geocodeTimeout = 2 * time.Second
)

// CreateParcel validates and posts a parcel on behalf of the sender.
func (u *Usecase) CreateParcel(ctx context.Context, actor entities.Actor, p entities.Parcel) (*entities.Parcel, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	now := u.now()
	if err := validateParcel(&p, now); err != nil {
		return nil, err
	}
	p.SenderID = actor.ID
	p.TransporterID = nil
	p.Status = entities.ParcelPending
	p.PaidAt = nil

	u.fillCoordinates(ctx, &p)

	created, err := u.repo.CreateParcel(ctx, p, now)
	if err != nil {
		u.log.Warnw("parcel rejected", "error", err, "sender_id", actor.ID)
		return nil, err
	}
	u.metrics.ParcelsCreated.WithLabelValues(string(created.InsuranceTier)).Inc()
	u.log.Infow("parcel created", "parcel_id", created.ID, "sender_id", actor.ID)
	return created, nil
}

func validateParcel(p *entities.Parcel, now time.Time) error {
	p.Origin = strings.TrimSpace(p.Origin)
	p.Destination = strings.TrimSpace(p.Destination)

	switch {
	case p.Origin == "" || p.Destination == "":
		return fmt.Errorf("%w: origin and destination are required", entities.ErrInvalidArgument)
	case !p.Size.Valid():
		return fmt.Errorf("%w: size must be small, medium or large", entities.ErrInvalidArgument)
	case p.Compensation <= 0:
		return fmt.Errorf("%w: compensation must be positive", entities.ErrInvalidArgument)
	case p.PickupDate.IsZero():
		return fmt.Errorf("%w: pickup date is required", entities.ErrInvalidArgument)
	case p.DeclaredValue < 0:
		return fmt.Errorf("%w: declared value cannot be negative", entities.ErrInvalidArgument)
	case p.Weight != nil && *p.Weight <= 0:
		return fmt.Errorf("%w: weight must be positive", entities.ErrInvalidArgument)
	case p.ExpiresAt != nil && !p.ExpiresAt.After(now):
		return fmt.Errorf("%w: expiry must be in the future", entities.ErrInvalidArgument)
	}

	if p.InsuranceTier == "" {
		p.InsuranceTier = entities.InsuranceNone
	}
	if err := entities.ValidateInsurance(p.DeclaredValue, p.InsuranceTier); err != nil {
		return err
	}
	tier, _ := entities.Insurance(p.InsuranceTier)
	p.InsuranceFee = tier.Fee
	return nil
}

// fillCoordinates geocodes missing endpoints; failures leave them empty.
func (u *Usecase) fillCoordinates(ctx context.Context, p *entities.Parcel) {
	if u.geocoder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	if p.OriginLat == nil || p.OriginLng == nil {
		if place, ok := u.firstPlace(ctx, p.Origin); ok {
			p.OriginLat, p.OriginLng = &place.Lat, &place.Lng
		}
	}
	if p.DestinationLat == nil || p.DestinationLng == nil {
		if place, ok := u.firstPlace(ctx, p.Destination); ok {
			p.DestinationLat, p.DestinationLng = &place.Lat, &place.Lng
		}
	}
}

func (u *Usecase) firstPlace(ctx context.Context, query string) (entities.Place, bool) {
	places, err := u.geocoder.Search(ctx, query, 1)
	if err != nil {
		u.log.Warnw("geocoding failed", "error", err, "query", query)
		return entities.Place{}, false
	}
	if len(places) == 0 {
		return entities.Place{}, false
	}
	return places[0], true
}

// ListParcels returns a page of parcels matching filter.
func (u *Usecase) ListParcels(ctx context.Context, filter entities.ParcelFilter) ([]entities.Parcel, entities.Pagination, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, entities.Pagination{}, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, *filter.Status)
	}
	filter.Page = filter.Page.Normalize()

	items, total, err := u.repo.ListParcels(ctx, filter)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return items, entities.NewPagination(filter.Page, total), nil
}

// GetParcel returns a parcel by id.
func (u *Usecase) GetParcel(ctx context.Context, id string) (*entities.Parcel, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, fmt.Errorf("%w: parcel id is required", entities.ErrInvalidArgument)
	}
	return u.repo.GetParcel(ctx, id)
}

// AcceptParcel assigns the caller as transporter of a pending parcel.
func (u *Usecase) AcceptParcel(ctx context.Context, actor entities.Actor, id string) (*entities.Parcel, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, fmt.Errorf("%w: parcel id is required", entities.ErrInvalidArgument)
	}

	p, err := u.repo.AcceptParcel(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	u.log.Infow("parcel accepted", "parcel_id", id, "carrier_id", actor.ID)

	u.notify(ctx, entities.Notification{
		UserID:   p.SenderID,
		Kind:     entities.NotifyParcelAccepted,
		Title:    "Parcel accepted",
		Body:     fmt.Sprintf("A carrier accepted your parcel from %s to %s", p.Origin, p.Destination),
		ParcelID: &p.ID,
	})
	return p, nil
}

// UpdateParcelStatus moves a parcel along its lifecycle and settles escrow.
func (u *Usecase) UpdateParcelStatus(
	ctx context.Context,
	actor entities.Actor,
	id string,
	to entities.ParcelStatus,
	note string,
) (*entities.Parcel, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, to)
	}

	current, err := u.repo.GetParcel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canChangeStatus(actor, *current, to); err != nil {
		return nil, err
	}
	return u.changeStatus(ctx, actor, id, entities.StatusChange{To: to, ActorID: &actor.ID, Note: note}, entities.Notification{
		Kind:  entities.NotifyParcelStatus,
		Title: "Parcel " + strings.ToLower(string(to)),
		Body:  fmt.Sprintf("Your parcel from %s to %s is now %s", current.Origin, current.Destination, to),
	})
}

// changeStatus applies an authorized transition, counts the escrow movement and
// sends n to everyone on the parcel except the actor.
func (u *Usecase) changeStatus(
	ctx context.Context,
	actor entities.Actor,
	id string,
	change entities.StatusChange,
	n entities.Notification,
) (*entities.Parcel, error) {
	out, err := u.repo.UpdateParcelStatus(ctx, id, change)
	if err != nil {
		return nil, err
	}
	p := out.Parcel
	u.log.Infow("parcel status changed", "parcel_id", id, "status", p.Status, "actor_id", actor.ID)
	u.recordEscrow(p, out.Escrow)

	n.ParcelID = &p.ID
	u.notifyParties(ctx, p, actor.ID, n)
	return &p, nil
}

func canChangeStatus(actor entities.Actor, p entities.Parcel, to entities.ParcelStatus) error {
	if actor.IsAdmin() {
		return nil
	}
	switch to {
	case entities.ParcelDelivered:
		if p.TransporterID != nil && *p.TransporterID == actor.ID {
			return nil
		}
		return fmt.Errorf("%w: only the carrier can mark a parcel delivered", entities.ErrForbidden)
	case entities.ParcelCancelled:
		if p.SenderID == actor.ID {
			return nil
		}
		return fmt.Errorf("%w: only the sender can cancel a parcel", entities.ErrForbidden)
	}
	return fmt.Errorf("%w: status %s is not set directly", entities.ErrForbidden, to)
}

// recordEscrow counts and logs the payout or refund a status change made.
func (u *Usecase) recordEscrow(p entities.Parcel, wt *entities.WalletTransaction) {
	if wt == nil {
		return
	}
	u.metrics.WalletTransactions.WithLabelValues(string(wt.Type)).Inc()
	u.log.Infow("escrow moved", "parcel_id", p.ID, "user_id", wt.UserID, "type", wt.Type, "amount", wt.Amount)
}

// TrackingEvents returns the status history of a parcel.
func (u *Usecase) TrackingEvents(ctx context.Context, id string) ([]entities.TrackingEvent, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.repo.GetParcel(ctx, id); err != nil {
		return nil, err
	}
	return u.repo.TrackingEvents(ctx, id)
}

// Geocode looks up places matching query.
func (u *Usecase) Geocode(ctx context.Context, query string) ([]entities.Place, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", entities.ErrInvalidArgument)
	}
	if u.geocoder == nil {
		return nil, fmt.Errorf("%w: geocoding disabled", entities.ErrGatewayUnavailable)
	}
	return u.geocoder.Search(ctx, query, geocodeLimit)
}
