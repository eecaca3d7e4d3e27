package notification_handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	notificationlog "github.com/fatflowers/fieldbook/internal/app/service/notification_log"
	"github.com/fatflowers/fieldbook/internal/app/service/plans"
	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/internal/platform/db/dbtest"
	stripe_billing "github.com/fatflowers/fieldbook/internal/platform/stripe/stripe_billing"
	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/types"
)

const (
	testWebhookSecret = "whsec_test"
	testRevenueCatKey = "Bearer rc_test"
	testUserID        = "0190a6a4-1c2b-7def-8a00-000000000001"
)

type fakeBilling struct {
	sub   *types.ProviderSubscription
	block bool
}

func (f *fakeBilling) FetchSubscription(ctx context.Context, id string) (*types.ProviderSubscription, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.sub, nil
}

func (f *fakeBilling) CancelAtPeriodEnd(ctx context.Context, id string) error { return nil }

type fixture struct {
	db      *gorm.DB
	handler *NotificationHandler
	billing *fakeBilling
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	log := zap.NewNop().Sugar()
	cfg := &config.Config{
		Stripe: config.StripeConfig{
			WebhookSecret: testWebhookSecret,
			FetchTimeout:  50 * time.Millisecond,
		},
		RevenueCat: config.RevenueCatConfig{WebhookAuthToken: testRevenueCatKey},
		Plans: []*types.Plan{
			{ID: "pro_monthly", Name: "Pro", Price: decimal.RequireFromString("19.99"), Validity: types.PlanValidityMonthly, IsActive: true},
		},
	}
	billing := &fakeBilling{}
	led := ledger.NewService(cfg, gdb, plans.NewCatalog(cfg), billing, log)
	h := NewNotificationHandler(cfg, stripe_billing.NewClient(cfg, log), notificationlog.New(gdb, log), led, log)

	require.NoError(t, gdb.Create(&models.User{ID: testUserID, Email: "a@example.com", Role: models.UserRoleUser}).Error)
	return &fixture{db: gdb, handler: h, billing: billing}
}

func signedHeader(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: secret}).Header
}

func stripeHeader(payload []byte) http.Header {
	h := http.Header{}
	h.Set("Stripe-Signature", signedHeader(payload, testWebhookSecret))
	return h
}

func checkoutPayload(eventID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"type": "checkout.session.completed",
		"created": 1767225600,
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"customer": "cus_1",
			"subscription": "sub_1",
			"amount_total": 1999,
			"currency": "USD",
			"created": 1767225600,
			"metadata": {"userId": %q, "subscriptionId": "pro_monthly", "validity": "MONTHLY"}
		}}
	}`, eventID, testUserID))
}

func (f *fixture) logStatus(t *testing.T, provider types.PaymentProvider, eventID string) models.WebhookEventLogStatus {
	t.Helper()
	var entry models.WebhookEventLog
	require.NoError(t, f.db.Where("provider_id = ? AND event_id = ?", provider, eventID).Take(&entry).Error)
	return entry.Status
}

func TestHandleNotification_StripeCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payload := checkoutPayload("evt_checkout")

	out, err := f.handler.HandleNotification(ctx, types.PaymentProviderStripe, payload, stripeHeader(payload))
	require.NoError(t, err)
	require.Equal(t, models.WebhookEventLogStatusHandled, out.Status)
	require.Equal(t, ledger.EventCheckoutCompleted, out.LedgerEvent)
	require.False(t, out.Duplicate)

	var rec models.SubscriptionRecord
	require.NoError(t, f.db.Where("external_subscription_id = ?", "sub_1").Take(&rec).Error)
	require.Equal(t, testUserID, rec.UserID)
	require.Equal(t, "pro_monthly", rec.PlanID)
	require.Equal(t, "cus_1", rec.ExternalCustomerID)
	require.Equal(t, types.SubscriptionStatusActive, rec.Status)
	require.True(t, rec.IsActive)
	require.Equal(t, "19.99", rec.Amount.StringFixed(2))
	require.Equal(t, "usd", rec.Currency)

	var user models.User
	require.NoError(t, f.db.Where("id = ?", testUserID).Take(&user).Error)
	require.True(t, user.Subscription.IsActive)
	require.Equal(t, "sub_1", user.Subscription.ExternalSubscriptionID)
	require.NotNil(t, user.StripeCustomerID)
	require.Equal(t, "cus_1", *user.StripeCustomerID)

	// Redelivery of the same event is acknowledged without touching the ledger.
	again, err := f.handler.HandleNotification(ctx, types.PaymentProviderStripe, payload, stripeHeader(payload))
	require.NoError(t, err)
	require.True(t, again.Duplicate)

	var records, changes int64
	require.NoError(t, f.db.Model(&models.SubscriptionRecord{}).Count(&records).Error)
	require.NoError(t, f.db.Model(&models.SubscriptionRecordLog{}).Count(&changes).Error)
	require.EqualValues(t, 1, records)
	require.EqualValues(t, 1, changes)
}

func TestHandleNotification_StripeBadSignature(t *testing.T) {
	f := newFixture(t)
	payload := checkoutPayload("evt_forged")
	header := http.Header{}
	header.Set("Stripe-Signature", signedHeader(payload, "whsec_other"))

	_, err := f.handler.HandleNotification(context.Background(), types.PaymentProviderStripe, payload, header)
	require.ErrorIs(t, err, ErrAuthentication)

	var logs, records int64
	require.NoError(t, f.db.Model(&models.WebhookEventLog{}).Count(&logs).Error)
	require.NoError(t, f.db.Model(&models.SubscriptionRecord{}).Count(&records).Error)
	require.Zero(t, logs)
	require.Zero(t, records)
}

func TestHandleNotification_StripeUnknownSubscriptionIgnored(t *testing.T) {
	f := newFixture(t)
	payload := []byte(`{
		"id": "evt_update",
		"object": "event",
		"type": "customer.subscription.updated",
		"created": 1767225600,
		"data": {"object": {"id": "sub_unknown", "object": "subscription", "status": "active", "metadata": {}}}
	}`)

	out, err := f.handler.HandleNotification(context.Background(), types.PaymentProviderStripe, payload, stripeHeader(payload))
	require.NoError(t, err)
	require.Equal(t, models.WebhookEventLogStatusIgnored, out.Status)
	require.Equal(t, models.WebhookEventLogStatusIgnored, f.logStatus(t, types.PaymentProviderStripe, "evt_update"))
}

func TestHandleNotification_StripeUnhandledType(t *testing.T) {
	f := newFixture(t)
	payload := []byte(`{
		"id": "evt_customer",
		"object": "event",
		"type": "customer.created",
		"created": 1767225600,
		"data": {"object": {"id": "cus_9", "object": "customer"}}
	}`)

	out, err := f.handler.HandleNotification(context.Background(), types.PaymentProviderStripe, payload, stripeHeader(payload))
	require.NoError(t, err)
	require.Equal(t, ledger.EventIgnored, out.LedgerEvent)
	require.Equal(t, models.WebhookEventLogStatusIgnored, out.Status)
}

func TestHandleNotification_StripeUpstreamTimeout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checkout := checkoutPayload("evt_checkout")
	_, err := f.handler.HandleNotification(ctx, types.PaymentProviderStripe, checkout, stripeHeader(checkout))
	require.NoError(t, err)

	f.billing.block = true
	payload := []byte(`{
		"id": "evt_paid",
		"object": "event",
		"type": "invoice.payment_succeeded",
		"created": 1767225600,
		"data": {"object": {"id": "in_1", "object": "invoice", "subscription": "sub_1"}}
	}`)
	_, err = f.handler.HandleNotification(ctx, types.PaymentProviderStripe, payload, stripeHeader(payload))
	require.ErrorIs(t, err, ledger.ErrUpstreamTimeout)
	require.Equal(t, models.WebhookEventLogStatusHandleFailed, f.logStatus(t, types.PaymentProviderStripe, "evt_paid"))

	// A failed event is applied again on redelivery.
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.billing.block = false
	f.billing.sub = &types.ProviderSubscription{
		ID:                 "sub_1",
		Status:             types.SubscriptionStatusActive,
		CurrentPeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		CurrentPeriodEnd:   end,
	}
	out, err := f.handler.HandleNotification(ctx, types.PaymentProviderStripe, payload, stripeHeader(payload))
	require.NoError(t, err)
	require.False(t, out.Duplicate)
	require.Equal(t, models.WebhookEventLogStatusHandled, out.Status)

	var rec models.SubscriptionRecord
	require.NoError(t, f.db.Where("external_subscription_id = ?", "sub_1").Take(&rec).Error)
	require.True(t, end.Equal(*rec.CurrentPeriodEnd))
}

func TestHandleNotification_RevenueCat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payload := []byte(fmt.Sprintf(`{
		"api_version": "1.0",
		"event": {
			"id": "rc_evt_1",
			"type": "INITIAL_PURCHASE",
			"app_user_id": %q,
			"product_id": "pro_monthly_ios",
			"period_type": "TRIAL",
			"expiration_at_ms": 1769904000000
		}
	}`, testUserID))

	_, err := f.handler.HandleNotification(ctx, types.PaymentProviderRevenueCat, payload, http.Header{"Authorization": {"Bearer wrong"}})
	require.ErrorIs(t, err, ErrAuthentication)

	header := http.Header{"Authorization": {testRevenueCatKey}}
	out, err := f.handler.HandleNotification(ctx, types.PaymentProviderRevenueCat, payload, header)
	require.NoError(t, err)
	require.Equal(t, models.WebhookEventLogStatusHandled, out.Status)

	var user models.User
	require.NoError(t, f.db.Where("id = ?", testUserID).Take(&user).Error)
	require.True(t, user.Subscription.IsActive)
	require.True(t, user.Subscription.IsTrial)
	require.NotNil(t, user.Subscription.EndDate)
	require.True(t, time.UnixMilli(1769904000000).Equal(*user.Subscription.EndDate))

	expired := []byte(fmt.Sprintf(`{"event": {"id": "rc_evt_2", "type": "EXPIRATION", "app_user_id": %q}}`, testUserID))
	_, err = f.handler.HandleNotification(ctx, types.PaymentProviderRevenueCat, expired, header)
	require.NoError(t, err)
	require.NoError(t, f.db.Where("id = ?", testUserID).Take(&user).Error)
	require.False(t, user.Subscription.IsActive)

	anonymous := []byte(`{"event": {"id": "rc_evt_3", "type": "RENEWAL", "app_user_id": "$RCAnonymousID:abc"}}`)
	out, err = f.handler.HandleNotification(ctx, types.PaymentProviderRevenueCat, anonymous, header)
	require.NoError(t, err)
	require.Equal(t, models.WebhookEventLogStatusIgnored, out.Status)

	_, err = f.handler.HandleNotification(ctx, types.PaymentProviderRevenueCat, []byte(`{}`), header)
	require.ErrorIs(t, err, ErrInvalidPayload)
}
