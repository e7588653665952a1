package domain

import (
	"context"
	"fmt"

	"parcelpeer/internal/entities"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// Notifications lists the caller's notifications newest first.
func (u *Usecase) Notifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]entities.Notification, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	return u.repo.ListNotifications(ctx, userID, unreadOnly, limit)
}

// MarkNotificationRead flags one of the caller's notifications as read.
func (u *Usecase) MarkNotificationRead(ctx context.Context, userID, id string) (*entities.Notification, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, fmt.Errorf("%w: notification id is required", entities.ErrInvalidArgument)
	}
	return u.repo.MarkNotificationRead(ctx, id, userID)
}

// notify stores a notification; failures are logged and never returned.
func (u *Usecase) notify(ctx context.Context, n entities.Notification) {
	if n.UserID == "" {
		return
	}
	if _, err := u.repo.CreateNotification(ctx, n); err != nil {
		u.log.Warnw("failed to store notification", "error", err, "user_id", n.UserID, "kind", n.Kind)
	}
}

// notifyParties tells everyone on parcel p except the actor.
func (u *Usecase) notifyParties(ctx context.Context, p entities.Parcel, actorID string, n entities.Notification) {
	targets := []string{p.SenderID}
	if p.TransporterID != nil {
		targets = append(targets, *p.TransporterID)
	}
	if p.ReceiverID != nil && *p.ReceiverID != p.SenderID {
		targets = append(targets, *p.ReceiverID)
	}
	for _, uid := range targets {
		if uid == actorID {
			continue
		}
		n.UserID = uid
		u.notify(ctx, n)
	}
}
