package domain

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"parcelpeer/internal/entities"
)

// OpenDispute files a complaint by one party of a parcel against the other.
func (u *Usecase) OpenDispute(ctx context.Context, actor entities.Actor, parcelID, subject, description string) (*entities.Dispute, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	subject = strings.TrimSpace(subject)
	description = strings.TrimSpace(description)
	if subject == "" || description == "" {
		return nil, fmt.Errorf("%w: subject and description are required", entities.ErrInvalidArgument)
	}

	p, err := u.repo.GetParcel(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	respondent, ok := p.Counterparty(actor.ID)
	if !ok {
		if p.TransporterID == nil {
			return nil, fmt.Errorf("%w: parcel has no carrier yet", entities.ErrInvalidArgument)
		}
		return nil, fmt.Errorf("%w: only the sender or carrier can open a dispute", entities.ErrForbidden)
	}

	autoClose := u.now().Add(u.settings.DisputeAutoClose)
	d, err := u.repo.CreateDispute(ctx, entities.Dispute{
		ParcelID:      p.ID,
		ComplainantID: actor.ID,
		RespondentID:  respondent,
		Subject:       subject,
		Description:   description,
		AutoCloseAt:   &autoClose,
	})
	if err != nil {
		return nil, err
	}
	u.metrics.DisputesOpened.Inc()
	u.log.Infow("dispute opened", "dispute_id", d.ID, "parcel_id", p.ID, "complainant_id", actor.ID)

	u.notify(ctx, entities.Notification{
		UserID:   respondent,
		Kind:     entities.NotifyDisputeOpened,
		Title:    "Dispute opened",
		Body:     subject,
		ParcelID: &p.ID,
	})
	return d, nil
}

// MyDisputes lists disputes where the caller is a party.
func (u *Usecase) MyDisputes(
	ctx context.Context,
	actor entities.Actor,
	status *entities.DisputeStatus,
	page entities.Page,
) ([]entities.Dispute, entities.Pagination, error) {
	return u.listDisputes(ctx, entities.DisputeFilter{Status: status, PartyID: &actor.ID, Page: page})
}

// AdminListDisputes lists all disputes.
func (u *Usecase) AdminListDisputes(ctx context.Context, filter entities.DisputeFilter) ([]entities.Dispute, entities.Pagination, error) {
	return u.listDisputes(ctx, filter)
}

func (u *Usecase) listDisputes(ctx context.Context, filter entities.DisputeFilter) ([]entities.Dispute, entities.Pagination, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, entities.Pagination{}, fmt.Errorf("%w: unknown dispute status %q", entities.ErrInvalidArgument, *filter.Status)
	}
	filter.Page = filter.Page.Normalize()
	items, total, err := u.repo.ListDisputes(ctx, filter)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return items, entities.NewPagination(filter.Page, total), nil
}

// GetDispute returns a dispute with its thread for a party or an admin.
func (u *Usecase) GetDispute(ctx context.Context, actor entities.Actor, id string) (*entities.Dispute, []entities.DisputeMessage, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	d, err := u.visibleDispute(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := u.repo.DisputeMessages(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return d, msgs, nil
}

// PostDisputeMessage appends to the dispute thread.
func (u *Usecase) PostDisputeMessage(
	ctx context.Context,
	actor entities.Actor,
	id, text string,
	attachmentURL *string,
) (*entities.DisputeMessage, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is required", entities.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(text) > entities.MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", entities.ErrInvalidArgument, entities.MaxMessageLength)
	}

	d, err := u.visibleDispute(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if d.Status.Terminal() {
		return nil, entities.ErrDisputeClosed
	}

	msg, err := u.repo.AddDisputeMessage(ctx, entities.DisputeMessage{
		DisputeID:      id,
		SenderID:       actor.ID,
		Message:        text,
		AttachmentURL:  attachmentURL,
		IsAdminMessage: actor.IsAdmin() && !d.IsParty(actor.ID),
	})
	if err != nil {
		return nil, err
	}

	for _, uid := range []string{d.ComplainantID, d.RespondentID} {
		if uid == actor.ID {
			continue
		}
		u.notify(ctx, entities.Notification{
			UserID:   uid,
			Kind:     entities.NotifyDisputeUpdated,
			Title:    "New message on dispute",
			Body:     preview(text),
			ParcelID: &d.ParcelID,
		})
	}
	return msg, nil
}

func (u *Usecase) visibleDispute(ctx context.Context, actor entities.Actor, id string) (*entities.Dispute, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: dispute id is required", entities.ErrInvalidArgument)
	}
	d, err := u.repo.GetDispute(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsParty(actor.ID) && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: not a party of this dispute", entities.ErrForbidden)
	}
	return d, nil
}

// AdminUpdateDisputeStatus moves a dispute to in_review or closed.
func (u *Usecase) AdminUpdateDisputeStatus(
	ctx context.Context,
	actor entities.Actor,
	id string,
	to entities.DisputeStatus,
) (*entities.Dispute, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if to != entities.DisputeInReview && to != entities.DisputeClosed {
		return nil, fmt.Errorf("%w: status must be in_review or closed", entities.ErrInvalidArgument)
	}
	d, err := u.repo.UpdateDisputeStatus(ctx, id, to, &actor.ID)
	if err != nil {
		return nil, err
	}
	u.log.Infow("dispute status changed", "dispute_id", id, "status", to, "admin_id", actor.ID)
	u.notifyDisputeParties(ctx, *d, entities.NotifyDisputeUpdated, "Dispute "+strings.ReplaceAll(string(to), "_", " "))
	return d, nil
}

// ResolveDispute records the admin decision and refunds the complainant.
func (u *Usecase) ResolveDispute(
	ctx context.Context,
	actor entities.Actor,
	id, resolution string,
	refund int64,
) (*entities.Dispute, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return nil, fmt.Errorf("%w: resolution is required", entities.ErrInvalidArgument)
	}
	if refund < 0 {
		return nil, fmt.Errorf("%w: refund cannot be negative", entities.ErrInvalidArgument)
	}

	d, wt, err := u.repo.ResolveDispute(ctx, id, entities.DisputeResolution{
		AdminID:         actor.ID,
		Resolution:      resolution,
		RefundAmount:    refund,
		RefundReference: "dispute-refund-" + id,
	})
	if err != nil {
		return nil, err
	}
	if wt != nil {
		u.metrics.WalletTransactions.WithLabelValues(string(wt.Type)).Inc()
	}
	u.log.Infow("dispute resolved", "dispute_id", id, "refund", refund, "admin_id", actor.ID)
	u.notifyDisputeParties(ctx, *d, entities.NotifyDisputeResolved, "Dispute resolved")
	return d, nil
}

func (u *Usecase) notifyDisputeParties(ctx context.Context, d entities.Dispute, kind entities.NotificationKind, title string) {
	body := d.Subject
	if d.Resolution != nil {
		body = *d.Resolution
	}
	for _, uid := range []string{d.ComplainantID, d.RespondentID} {
		u.notify(ctx, entities.Notification{
			UserID:   uid,
			Kind:     kind,
			Title:    title,
			Body:     body,
			ParcelID: &d.ParcelID,
		})
	}
}
