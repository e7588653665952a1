package domain

import (
	"context"
	"fmt"
	"strings"

	"parcelpeer/internal/entities"
)

// Me returns the caller's account.
func (u *Usecase) Me(ctx context.Context, userID string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", entities.ErrInvalidArgument)
	}
	return u.repo.GetUserByID(ctx, userID)
}

// UpdateProfile changes the caller's name or phone.
func (u *Usecase) UpdateProfile(ctx context.Context, userID string, upd entities.ProfileUpdate) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", entities.ErrInvalidArgument)
		}
		upd.Name = &name
	}
	return u.repo.UpdateProfile(ctx, userID, upd)
}

// PublicProfile returns another user's account for display.
func (u *Usecase) PublicProfile(ctx context.Context, userID string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", entities.ErrInvalidArgument)
	}
	return u.repo.GetUserByID(ctx, userID)
}

// UserReviews lists reviews received by userID.
func (u *Usecase) UserReviews(ctx context.Context, userID string) ([]entities.Review, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", entities.ErrInvalidArgument)
	}
	return u.repo.ListReviews(ctx, userID)
}
