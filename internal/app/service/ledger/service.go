package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/fieldbook/internal/app/service/plans"
	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/types"
)

var (
	// ErrValidation marks events missing the fields needed to correlate them.
	ErrValidation = errors.New("ledger: invalid event")
	// ErrNotFound marks events for users or subscriptions this service does not know.
	ErrNotFound = errors.New("ledger: not found")
	// ErrUpstreamTimeout means the billing provider did not answer in time; the event should be redelivered.
	ErrUpstreamTimeout = errors.New("ledger: billing provider timeout")
)

const defaultFetchTimeout = 10 * time.Second

// BillingProvider is the part of the billing API the ledger calls back into.
type BillingProvider interface {
	FetchSubscription(ctx context.Context, id string) (*types.ProviderSubscription, error)
	CancelAtPeriodEnd(ctx context.Context, id string) error
}

type PlanLookup interface {
	GetPlan(ctx context.Context, id string) (*types.Plan, error)
}

type Service struct {
	db           *gorm.DB
	plans        PlanLookup
	billing      BillingProvider
	log          *zap.SugaredLogger
	fetchTimeout time.Duration
}

func NewService(cfg *config.Config, db *gorm.DB, catalog *plans.Catalog, billing BillingProvider, log *zap.SugaredLogger) *Service {
	return newService(cfg, db, catalog, billing, log)
}

func newService(cfg *config.Config, db *gorm.DB, lookup PlanLookup, billing BillingProvider, log *zap.SugaredLogger) *Service {
	timeout := cfg.Stripe.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Service{db: db, plans: lookup, billing: billing, log: log, fetchTimeout: timeout}
}

// Apply validates ev and applies it. Every event type is safe to apply more than once.
func (s *Service) Apply(ctx context.Context, ev Event) error {
	if ev == nil {
		return fmt.Errorf("%w: nil event", ErrValidation)
	}
	if err := ev.Validate(); err != nil {
		return err
	}

	var err error
	switch e := ev.(type) {
	case *CheckoutCompleted:
		err = s.applyCheckout(ctx, e)
	case *SubscriptionCreated:
		err = s.applyState(ctx, e.Type(), &e.SubscriptionState)
	case *SubscriptionUpdated:
		err = s.applyState(ctx, e.Type(), &e.SubscriptionState)
	case *SubscriptionDeleted:
		err = s.applyDeleted(ctx, e)
	case *PaymentSucceeded:
		err = s.applyPaymentSucceeded(ctx, e)
	case *PaymentFailed:
		err = s.applyPaymentFailed(ctx, e)
	case *EntitlementChanged:
		err = s.applyEntitlement(ctx, e)
	case *Ignored:
		return nil
	default:
		return fmt.Errorf("%w: unsupported event %T", ErrValidation, ev)
	}
	if err != nil {
		return err
	}
	logctx.FromCtx(ctx, s.log).Infow("ledger_event_applied", "event_type", ev.Type())
	return nil
}

// fetch re-reads a subscription from the provider under the configured timeout.
func (s *Service) fetch(ctx context.Context, id string) (*types.ProviderSubscription, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	sub, err := s.billing.FetchSubscription(fctx, id)
	if err != nil {
		if isTimeout(fctx, err) {
			return nil, fmt.Errorf("%w: fetch %s: %v", ErrUpstreamTimeout, id, err)
		}
		return nil, fmt.Errorf("failed to fetch subscription %s: %w", id, err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: provider has no subscription %s", ErrNotFound, id)
	}
	return sub, nil
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
