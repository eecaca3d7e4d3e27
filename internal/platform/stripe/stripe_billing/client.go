package stripe_billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/types"
)

const defaultSignatureTolerance = 5 * time.Minute

// ErrSignature wraps every webhook signature verification failure.
var ErrSignature = errors.New("stripe: invalid webhook signature")

// Client wraps the Stripe API and webhook secret.
type Client struct {
	api           *client.API
	webhookSecret string
	tolerance     time.Duration
	log           *zap.SugaredLogger
}

func NewClient(cfg *config.Config, log *zap.SugaredLogger) *Client {
	tolerance := cfg.Stripe.SignatureTolerance
	if tolerance <= 0 {
		tolerance = defaultSignatureTolerance
	}
	if cfg.Stripe.SecretKey == "" {
		log.Warnw("stripe secret key is empty; subscription re-fetch and cancel will fail")
	}
	return &Client{
		api:           client.New(cfg.Stripe.SecretKey, nil),
		webhookSecret: cfg.Stripe.WebhookSecret,
		tolerance:     tolerance,
		log:           log,
	}
}

var Module = fx.Options(
	fx.Provide(NewClient),
)

// ConstructEvent verifies the Stripe-Signature header against payload and decodes the event.
func (c *Client) ConstructEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	if c.webhookSecret == "" {
		return stripe.Event{}, fmt.Errorf("%w: webhook secret not configured", ErrSignature)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                c.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrSignature, err)
	}
	return event, nil
}

// FetchSubscription reads the authoritative subscription state.
func (c *Client) FetchSubscription(ctx context.Context, id string) (*types.ProviderSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := c.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get subscription %s: %w", id, err)
	}
	return ToProviderSubscription(sub), nil
}

// CancelAtPeriodEnd turns off renewal; the subscription stays usable until the period ends.
func (c *Client) CancelAtPeriodEnd(ctx context.Context, id string) error {
	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(true)}
	params.Context = ctx
	if _, err := c.api.Subscriptions.Update(id, params); err != nil {
		return fmt.Errorf("stripe: cancel subscription %s at period end: %w", id, err)
	}
	return nil
}

func ToProviderSubscription(sub *stripe.Subscription) *types.ProviderSubscription {
	if sub == nil {
		return nil
	}
	return &types.ProviderSubscription{
		ID:                 sub.ID,
		Status:             types.SubscriptionStatus(sub.Status),
		CurrentPeriodStart: time.Unix(sub.CurrentPeriodStart, 0).UTC(),
		CurrentPeriodEnd:   time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
	}
}
