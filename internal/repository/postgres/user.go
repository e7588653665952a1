package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const userColumns = `u.id, u.name, u.email, u.phone, u.password_hash, u.rating, u.verified, u.role, u.suspended,
u.subscription_tier, u.subscription_status, u.subscription_start, u.subscription_end,
u.monthly_parcel_count, u.last_parcel_reset_date, u.wallet_balance, u.created_at`

const (
	insertUserQuery = `
INSERT INTO users AS u (id, name, email, phone, password_hash, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns
	selectUserByIDQuery    = `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	selectUserByEmailQuery = `SELECT ` + userColumns + ` FROM users u WHERE lower(u.email) = lower($1)`
	updateProfileQuery     = `
UPDATE users AS u
SET name = COALESCE($2, u.name), phone = COALESCE($3, u.phone)
WHERE u.id = $1
RETURNING ` + userColumns
	adminUpdateUserQuery = `
UPDATE users AS u
SET verified = COALESCE($2, u.verified), suspended = COALESCE($3, u.suspended), role = COALESCE($4, u.role)
WHERE u.id = $1
RETURNING ` + userColumns
	updateSubscriptionQuery = `
UPDATE users AS u
SET subscription_tier = $2, subscription_status = $3, subscription_start = $4, subscription_end = $5
WHERE u.id = $1
RETURNING ` + userColumns
	updatePasswordQuery = `UPDATE users SET password_hash = $2 WHERE id = $1`
	userActivityQuery   = `
SELECT
    (SELECT COUNT(*) FROM parcels WHERE sender_id = $1),
    (SELECT COUNT(*) FROM parcels WHERE transporter_id = $1),
    (SELECT COUNT(*) FROM reviews WHERE reviewee_id = $1),
    (SELECT COUNT(*) FROM disputes WHERE complainant_id = $1 OR respondent_id = $1)`
)

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Rating, &u.Verified, &u.Role, &u.Suspended,
		&u.SubscriptionTier, &u.SubscriptionStatus, &u.SubscriptionStart, &u.SubscriptionEnd,
		&u.MonthlyParcelCount, &u.LastParcelResetDate, &u.WalletBalance, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new account with a lowercased email.
func (p *Postgres) CreateUser(ctx context.Context, u entities.User) (*entities.User, error) {
	created, err := scanUser(p.db.QueryRow(ctx, insertUserQuery,
		orNewID(u.ID), u.Name, strings.ToLower(u.Email), u.Phone, u.PasswordHash, u.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrUserExists
		}
		p.log.Errorw("failed to insert user", "error", err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	p.log.Infow("user created", "user_id", created.ID)
	return created, nil
}

// GetUserByID loads a user by primary key.
func (p *Postgres) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, selectUserByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail loads a user by email.
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, selectUserByEmailQuery, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpdateProfile applies non-nil profile fields.
func (p *Postgres) UpdateProfile(ctx context.Context, id string, upd entities.ProfileUpdate) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, updateProfileQuery, id, upd.Name, upd.Phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		p.log.Errorw("failed to update profile", "error", err, "user_id", id)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// ListUsers returns one page of users matching filter plus the total count.
func (p *Postgres) ListUsers(ctx context.Context, filter entities.UserFilter) ([]entities.User, int64, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(u.name ILIKE $%[1]d OR u.email ILIKE $%[1]d OR u.phone ILIKE $%[1]d)", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		where = append(where, fmt.Sprintf("u.role = $%d", len(args)))
	}
	if filter.Verified != nil {
		args = append(args, *filter.Verified)
		where = append(where, fmt.Sprintf("u.verified = $%d", len(args)))
	}
	if filter.Suspended != nil {
		args = append(args, *filter.Suspended)
		where = append(where, fmt.Sprintf("u.suspended = $%d", len(args)))
	}
	clause := whereClause(where)

	var total int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	page := filter.Page.Normalize()
	args = append(args, page.Limit, page.Offset())
	query := `SELECT ` + userColumns + ` FROM users u` + clause +
		fmt.Sprintf(" ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			p.log.Errorw("failed to scan user", "error", err)
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

// AdminUpdateUser applies non-nil admin fields.
func (p *Postgres) AdminUpdateUser(ctx context.Context, id string, upd entities.AdminUserUpdate) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, adminUpdateUserQuery, id, upd.Verified, upd.Suspended, upd.Role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		p.log.Errorw("failed to update user", "error", err, "user_id", id)
		return nil, fmt.Errorf("admin update user: %w", err)
	}

	p.log.Infow("user updated by admin", "user_id", id)
	return u, nil
}

// UpdateSubscription overwrites the subscription fields.
func (p *Postgres) UpdateSubscription(ctx context.Context, id string, change entities.SubscriptionChange) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, updateSubscriptionQuery, id, change.Tier, change.Status, change.Start, change.End))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		p.log.Errorw("failed to update subscription", "error", err, "user_id", id)
		return nil, fmt.Errorf("update subscription: %w", err)
	}

	p.log.Infow("subscription updated", "user_id", id, "tier", change.Tier, "status", change.Status)
	return u, nil
}

// UpdatePassword replaces the stored password hash.
func (p *Postgres) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := p.db.Exec(ctx, updatePasswordQuery, id, passwordHash)
	if err != nil {
		p.log.Errorw("failed to update password", "error", err, "user_id", id)
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}

// UserActivity counts the user's parcels, reviews received and disputes.
func (p *Postgres) UserActivity(ctx context.Context, id string) (entities.UserActivity, error) {
	var a entities.UserActivity
	err := p.db.QueryRow(ctx, userActivityQuery, id).
		Scan(&a.SentParcels, &a.TransportedParcels, &a.Reviews, &a.Disputes)
	if err != nil {
		return entities.UserActivity{}, fmt.Errorf("user activity: %w", err)
	}
	return a, nil
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
