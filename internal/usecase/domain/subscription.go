package domain

import (
	"context"
	"fmt"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/gateway"
)

// Plans lists the subscription plans.
func (u *Usecase) Plans() []entities.SubscriptionPlan {
	return entities.Plans()
}

// SubscriptionStatus summarizes the user's plan and quota.
func (u *Usecase) SubscriptionStatus(ctx context.Context, userID string) (entities.SubscriptionStatus, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	usr, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		return entities.SubscriptionStatus{}, err
	}
	return entities.StatusOf(*usr, u.now()), nil
}

// Subscribe switches to free immediately or opens a checkout for a paid tier.
func (u *Usecase) Subscribe(ctx context.Context, userID string, tier entities.SubscriptionTier) (*entities.SubscribeResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !tier.Valid() {
		return nil, fmt.Errorf("%w: unknown subscription tier %q", entities.ErrInvalidArgument, tier)
	}

	usr, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usr.SubscriptionTier == tier && usr.SubscriptionStatus == entities.SubscriptionActive &&
		(usr.SubscriptionEnd == nil || !usr.SubscriptionEnd.Before(u.now())) {
		return nil, fmt.Errorf("%w: already subscribed to %s", entities.ErrInvalidArgument, tier)
	}

	if tier == entities.TierFree {
		updated, err := u.revertToFree(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &entities.SubscribeResult{User: updated}, nil
	}

	plan := entities.Plan(tier)
	pm := entities.Payment{
		Reference:        newReference(string(entities.PaymentSubscription)),
		Kind:             entities.PaymentSubscription,
		UserID:           userID,
		SubscriptionTier: &tier,
		Amount:           plan.PriceInKobo,
		Status:           entities.PaymentPending,
		Method:           entities.MethodPaystack,
	}
	checkout, err := u.checkout(ctx, *usr, pm, gateway.InitializeRequest{
		Plan:     plan.PaystackPlanCode,
		Metadata: map[string]string{"tier": string(tier)},
	})
	if err != nil {
		return nil, err
	}
	return &entities.SubscribeResult{User: usr, Checkout: checkout}, nil
}

// CancelSubscription reverts the user to the free plan right away.
func (u *Usecase) CancelSubscription(ctx context.Context, userID string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	usr, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usr.SubscriptionTier == entities.TierFree {
		return nil, fmt.Errorf("%w: no paid subscription to cancel", entities.ErrInvalidArgument)
	}
	return u.revertToFree(ctx, userID)
}

func (u *Usecase) revertToFree(ctx context.Context, userID string) (*entities.User, error) {
	now := u.now()
	updated, err := u.repo.UpdateSubscription(ctx, userID, entities.SubscriptionChange{
		Tier:   entities.TierFree,
		Status: entities.SubscriptionActive,
		Start:  &now,
	})
	if err != nil {
		return nil, err
	}
	u.log.Infow("subscription set to free", "user_id", userID)
	return updated, nil
}
