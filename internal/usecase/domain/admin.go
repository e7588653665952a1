package domain

import (
	"context"
	"fmt"
	"time"

	"parcelpeer/internal/entities"
)

const recentUsersWindow = 30 * 24 * time.Hour

// AdminStats returns dashboard counters.
func (u *Usecase) AdminStats(ctx context.Context) (entities.AdminStats, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	since := u.now().Add(-recentUsersWindow)
	return u.repo.AdminStats(ctx, since)
}

// AdminListUsers searches accounts.
func (u *Usecase) AdminListUsers(ctx context.Context, filter entities.UserFilter) ([]entities.User, entities.Pagination, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if filter.Role != nil && !filter.Role.Valid() {
		return nil, entities.Pagination{}, fmt.Errorf("%w: unknown role %q", entities.ErrInvalidArgument, *filter.Role)
	}
	filter.Page = filter.Page.Normalize()
	items, total, err := u.repo.ListUsers(ctx, filter)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return items, entities.NewPagination(filter.Page, total), nil
}

// AdminUser returns an account with its activity counters.
func (u *Usecase) AdminUser(ctx context.Context, id string) (*entities.UserDetail, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	usr, err := u.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := u.repo.UserActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entities.UserDetail{User: *usr, Stats: stats}, nil
}

// AdminUpdateUser changes verification, suspension or role.
func (u *Usecase) AdminUpdateUser(ctx context.Context, id string, upd entities.AdminUserUpdate) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if upd.Role != nil && !upd.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", entities.ErrInvalidArgument, *upd.Role)
	}
	if upd.Verified == nil && upd.Suspended == nil && upd.Role == nil {
		return nil, fmt.Errorf("%w: nothing to update", entities.ErrInvalidArgument)
	}
	usr, err := u.repo.AdminUpdateUser(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	u.log.Infow("user updated by admin", "user_id", id)
	return usr, nil
}

// AdminListPayments lists all payments.
func (u *Usecase) AdminListPayments(ctx context.Context, filter entities.PaymentFilter) ([]entities.Payment, entities.Pagination, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, entities.Pagination{}, fmt.Errorf("%w: unknown payment status %q", entities.ErrInvalidArgument, *filter.Status)
	}
	filter.Page = filter.Page.Normalize()
	items, total, err := u.repo.AdminListPayments(ctx, filter)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return items, entities.NewPagination(filter.Page, total), nil
}
