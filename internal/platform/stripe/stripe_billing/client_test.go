package stripe_billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/types"
)

const secret = "whsec_test_secret"

func newTestClient(webhookSecret string) *Client {
	cfg := &config.Config{}
	cfg.Stripe.WebhookSecret = webhookSecret
	return NewClient(cfg, zap.NewNop().Sugar())
}

func signedHeader(payload []byte, secret string, at time.Time) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: at,
	}).Header
}

func TestClient_ConstructEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"invoice.payment_failed","data":{"object":{"id":"in_1"}}}`)
	c := newTestClient(secret)

	ev, err := c.ConstructEvent(payload, signedHeader(payload, secret, time.Now()))
	require.NoError(t, err)
	require.Equal(t, "evt_1", ev.ID)
	require.Equal(t, stripe.EventType("invoice.payment_failed"), ev.Type)

	_, err = c.ConstructEvent(payload, signedHeader(payload, "whsec_other", time.Now()))
	require.ErrorIs(t, err, ErrSignature)

	_, err = c.ConstructEvent(payload, signedHeader(payload, secret, time.Now().Add(-time.Hour)))
	require.ErrorIs(t, err, ErrSignature)

	_, err = c.ConstructEvent(payload, "")
	require.ErrorIs(t, err, ErrSignature)

	_, err = newTestClient("").ConstructEvent(payload, signedHeader(payload, "", time.Now()))
	require.ErrorIs(t, err, ErrSignature)
}

func TestToProviderSubscription(t *testing.T) {
	require.Nil(t, ToProviderSubscription(nil))

	got := ToProviderSubscription(&stripe.Subscription{
		ID:                 "sub_1",
		Status:             stripe.SubscriptionStatusPastDue,
		CurrentPeriodStart: 1767225600,
		CurrentPeriodEnd:   1769904000,
		CancelAtPeriodEnd:  true,
	})
	require.Equal(t, "sub_1", got.ID)
	require.Equal(t, types.SubscriptionStatusPastDue, got.Status)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), got.CurrentPeriodStart)
	require.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got.CurrentPeriodEnd)
	require.True(t, got.CancelAtPeriodEnd)
}
