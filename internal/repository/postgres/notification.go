package postgres

import (
	"context"
	"errors"
	"fmt"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	insertNotificationQuery = `
INSERT INTO notifications (id, user_id, kind, title, body, parcel_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	listNotificationsQuery = `
SELECT id, user_id, kind, title, body, parcel_id, read, created_at
FROM notifications
WHERE user_id = $1 AND (NOT $2 OR read = false)
ORDER BY created_at DESC, id
LIMIT $3`
	markNotificationReadQuery = `
UPDATE notifications
SET read = true
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, kind, title, body, parcel_id, read, created_at`
)

// CreateNotification stores an in-app notification.
func (p *Postgres) CreateNotification(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	n.ID = orNewID(n.ID)
	if err := p.db.QueryRow(ctx, insertNotificationQuery, n.ID, n.UserID, n.Kind, n.Title, n.Body, n.ParcelID).
		Scan(&n.CreatedAt); err != nil {
		p.log.Errorw("failed to insert notification", "error", err, "user_id", n.UserID)
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return &n, nil
}

// ListNotifications returns the user's notifications newest first.
func (p *Postgres) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]entities.Notification, error) {
	rows, err := p.db.Query(ctx, listNotificationsQuery, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	items := make([]entities.Notification, 0, limit)
	for rows.Next() {
		var n entities.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ParcelID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, nil
}

// MarkNotificationRead flags a notification owned by userID as read.
func (p *Postgres) MarkNotificationRead(ctx context.Context, id, userID string) (*entities.Notification, error) {
	var n entities.Notification
	err := p.db.QueryRow(ctx, markNotificationReadQuery, id, userID).
		Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ParcelID, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return &n, nil
}
