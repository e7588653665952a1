package usecase

import (
	"context"
	"time"

	"parcelpeer/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	AuthUsecaseInterface
	UserUsecaseInterface
	SubscriptionUsecaseInterface
	InsuranceUsecaseInterface
	ParcelUsecaseInterface
	ReceiverUsecaseInterface
	PaymentUsecaseInterface
	WalletUsecaseInterface
	MessagingUsecaseInterface
	DisputeUsecaseInterface
	ReviewUsecaseInterface
	NotificationUsecaseInterface
	AdminUsecaseInterface
	MaintenanceUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	deps domain.Dependencies,
	timeout time.Duration,
	settings domain.Settings,
) InterfaceUsecase {
	return domain.New(log, ctx, deps, timeout, settings)
}
