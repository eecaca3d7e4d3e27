package notification_handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	notificationlog "github.com/fatflowers/fieldbook/internal/app/service/notification_log"
	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/internal/platform/revenuecat/revenuecat_notification"
	stripe_billing "github.com/fatflowers/fieldbook/internal/platform/stripe/stripe_billing"
	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/metrics"
	"github.com/fatflowers/fieldbook/pkg/types"
)

var (
	// ErrAuthentication means the notification could not be proven to come from the provider.
	ErrAuthentication = errors.New("webhook: authentication failed")
	ErrInvalidPayload = errors.New("webhook: invalid payload")
)

// Outcome describes how a notification was processed.
type Outcome struct {
	EventID     string
	EventType   string
	LedgerEvent ledger.EventType
	Status      models.WebhookEventLogStatus
	// Duplicate is set when the event was already processed and was not applied again.
	Duplicate bool
}

type NotificationHandler struct {
	cfg      *config.Config
	stripe   *stripe_billing.Client
	notifSvc *notificationlog.Service
	ledger   *ledger.Service
	Logger   *zap.SugaredLogger
}

func NewNotificationHandler(cfg *config.Config, stripe *stripe_billing.Client, notif *notificationlog.Service, l *ledger.Service, log *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{cfg: cfg, stripe: stripe, notifSvc: notif, ledger: l, Logger: log}
}

var Module = fx.Options(
	fx.Provide(NewNotificationHandler),
)

// newParser authenticates the request and decodes it. Nothing is written before it succeeds.
func (h *NotificationHandler) newParser(provider types.PaymentProvider, payload []byte, header http.Header) (NotificationParser, error) {
	switch provider {
	case types.PaymentProviderStripe:
		event, err := h.stripe.ConstructEvent(payload, header.Get("Stripe-Signature"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
		}
		return NewStripeNotificationParser(event), nil
	case types.PaymentProviderRevenueCat:
		if err := revenuecat_notification.Authorize(header.Get("Authorization"), h.cfg.RevenueCat.WebhookAuthToken); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
		}
		req, err := revenuecat_notification.Parse(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return NewRevenueCatNotificationParser(req), nil
	default:
		return nil, fmt.Errorf("%w: unsupported provider %s", ErrInvalidPayload, provider)
	}
}

// HandleNotification verifies, records and applies one provider notification.
// Validation and not-found failures are acknowledged with status ignored and a nil error;
// any returned error other than ErrAuthentication/ErrInvalidPayload asks the provider to retry.
func (h *NotificationHandler) HandleNotification(ctx context.Context, provider types.PaymentProvider, payload []byte, header http.Header) (*Outcome, error) {
	start := time.Now()
	prefix := "webhook_" + string(provider)
	lg := logctx.FromCtx(ctx, h.Logger).With("provider", provider)

	parser, err := h.newParser(provider, payload, header)
	if err != nil {
		lg.Warnw(prefix+"_rejected", "error", err)
		metrics.ObserveBusinessProcess(prefix, "rejected", start)
		return nil, err
	}

	out := &Outcome{EventID: parser.GetEventID(), EventType: parser.GetEventType()}
	lg = lg.With("event_id", out.EventID, "event_type", out.EventType)
	lg.Infow(prefix+"_received", "user_id", parser.GetUserID(), "notification_time", parser.GetNotificationTime())

	traceID, _ := ctx.Value(logctx.TraceIDKey).(string)
	entry, err := h.notifSvc.Begin(ctx, &models.WebhookEventLog{
		ProviderID: provider,
		EventID:    out.EventID,
		EventType:  out.EventType,
		TraceID:    traceID,
		ReceivedAt: time.Now().UTC(),
		Data:       datatypes.JSON(payload),
	})
	if err != nil {
		lg.Errorw(prefix+"_handle_error", "error", err)
		metrics.ObserveBusinessProcess(prefix, string(models.WebhookEventLogStatusHandleFailed), start)
		return nil, err
	}
	if entry.Status.Done() {
		out.Status = entry.Status
		out.Duplicate = true
		lg.Infow(prefix+"_duplicate", "status", entry.Status, "attempts", entry.Attempts)
		metrics.ObserveBusinessProcess(prefix, "duplicate", start)
		return out, nil
	}

	applyErr := h.apply(ctx, parser, out)
	result := map[string]any{"ledger_event": out.LedgerEvent}

	switch {
	case applyErr == nil && out.LedgerEvent == ledger.EventIgnored:
		out.Status = models.WebhookEventLogStatusIgnored
		lg.Infow(prefix + "_ignored")
	case applyErr == nil:
		out.Status = models.WebhookEventLogStatusHandled
		lg.Infow(prefix+"_handled", "ledger_event", out.LedgerEvent)
	case errors.Is(applyErr, ledger.ErrValidation), errors.Is(applyErr, ledger.ErrNotFound):
		out.Status = models.WebhookEventLogStatusIgnored
		result["error"] = applyErr.Error()
		lg.Warnw(prefix+"_ignored", "ledger_event", out.LedgerEvent, "reason", applyErr)
		applyErr = nil
	default:
		out.Status = models.WebhookEventLogStatusHandleFailed
		result["error"] = applyErr.Error()
		lg.Errorw(prefix+"_handle_error", "ledger_event", out.LedgerEvent, "error", applyErr)
	}

	h.notifSvc.Finish(ctx, entry.ID, out.Status, result)
	metrics.ObserveBusinessProcess(prefix, string(out.Status), start)
	return out, applyErr
}

func (h *NotificationHandler) apply(ctx context.Context, parser NotificationParser, out *Outcome) error {
	ev, err := parser.GetEvent(ctx)
	if err != nil {
		return err
	}
	out.LedgerEvent = ev.Type()
	return h.ledger.Apply(ctx, ev)
}
