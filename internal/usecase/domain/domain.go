package domain

import (
	"context"
	"strings"
	"time"

	"parcelpeer/internal/auth"
	"parcelpeer/internal/gateway"
	"parcelpeer/internal/metrics"
	"parcelpeer/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultDisputeAutoClose = 14 * 24 * time.Hour

// Dependencies are the collaborators of the usecase layer.
type Dependencies struct {
	Repo      repository.Repository
	Payments  gateway.PaymentGateway
	Geocoder  gateway.Geocoder // optional
	Tokens    *auth.Tokens
	Passwords *auth.Passwords
	Metrics   *metrics.Metrics
}

// Settings are business knobs taken from configuration.
type Settings struct {
	CallbackURL      string
	DisputeAutoClose time.Duration
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx       context.Context
	log       *zap.SugaredLogger
	repo      repository.Repository
	payments  gateway.PaymentGateway
	geocoder  gateway.Geocoder
	tokens    *auth.Tokens
	passwords *auth.Passwords
	metrics   *metrics.Metrics
	settings  Settings
	timeout   time.Duration
	now       func() time.Time
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	deps Dependencies,
	timeout time.Duration,
	settings Settings,
) *Usecase {
	if settings.DisputeAutoClose <= 0 {
		settings.DisputeAutoClose = defaultDisputeAutoClose
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Usecase{
		ctx:       ctx,
		log:       log.Named("usecase"),
		repo:      deps.Repo,
		payments:  deps.Payments,
		geocoder:  deps.Geocoder,
		tokens:    deps.Tokens,
		passwords: deps.Passwords,
		metrics:   m,
		settings:  settings,
		timeout:   timeout,
		now:       time.Now,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// newReference builds a gateway reference such as PP_PARCEL_3f2a....
func newReference(kind string) string {
	return "PP_" + strings.ToUpper(kind) + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
