package notification_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"

	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	"github.com/fatflowers/fieldbook/pkg/tool"
	"github.com/fatflowers/fieldbook/pkg/types"
)

// Checkout sessions and subscriptions carry these keys in their Stripe metadata.
const (
	metadataUserID   = "userId"
	metadataPlanID   = "subscriptionId"
	metadataValidity = "validity"
)

type StripeNotificationParser struct {
	Event stripe.Event
}

func NewStripeNotificationParser(event stripe.Event) *StripeNotificationParser {
	return &StripeNotificationParser{Event: event}
}

func (p *StripeNotificationParser) GetProvider() types.PaymentProvider {
	return types.PaymentProviderStripe
}

func (p *StripeNotificationParser) GetEventID() string {
	return p.Event.ID
}

func (p *StripeNotificationParser) GetEventType() string {
	return string(p.Event.Type)
}

func (p *StripeNotificationParser) GetNotificationTime() time.Time {
	if p.Event.Created <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(p.Event.Created, 0).UTC()
}

func (p *StripeNotificationParser) GetUserID() string {
	if p.Event.Data == nil {
		return ""
	}
	var obj struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(p.Event.Data.Raw, &obj); err != nil {
		return ""
	}
	return obj.Metadata[metadataUserID]
}

func (p *StripeNotificationParser) GetData() any {
	return p.Event
}

func (p *StripeNotificationParser) GetEvent(ctx context.Context) (ledger.Event, error) {
	if p.Event.Data == nil || len(p.Event.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: stripe event %s has no data", ledger.ErrValidation, p.Event.ID)
	}

	switch p.Event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := p.decode(&session); err != nil {
			return nil, err
		}
		return checkoutFromSession(&session)
	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := p.decode(&sub); err != nil {
			return nil, err
		}
		state, err := stateFromSubscription(&sub)
		if err != nil {
			return nil, err
		}
		if p.Event.Type == "customer.subscription.created" {
			return &ledger.SubscriptionCreated{SubscriptionState: *state}, nil
		}
		return &ledger.SubscriptionUpdated{SubscriptionState: *state}, nil
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := p.decode(&sub); err != nil {
			return nil, err
		}
		return &ledger.SubscriptionDeleted{
			SubscriptionID: sub.ID,
			CanceledAt:     tool.UnixToTimePtr(sub.CanceledAt),
		}, nil
	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := p.decode(&invoice); err != nil {
			return nil, err
		}
		return &ledger.PaymentSucceeded{SubscriptionID: invoiceSubscriptionID(&invoice)}, nil
	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := p.decode(&invoice); err != nil {
			return nil, err
		}
		ev := &ledger.PaymentFailed{SubscriptionID: invoiceSubscriptionID(&invoice)}
		// An expanded subscription already carries the post-failure status.
		if invoice.Subscription != nil && invoice.Subscription.Status != "" {
			ev.Status = types.SubscriptionStatus(invoice.Subscription.Status)
		}
		return ev, nil
	default:
		return &ledger.Ignored{ProviderType: string(p.Event.Type)}, nil
	}
}

func (p *StripeNotificationParser) decode(v any) error {
	if err := json.Unmarshal(p.Event.Data.Raw, v); err != nil {
		return fmt.Errorf("%w: decode stripe %s: %v", ledger.ErrValidation, p.Event.Type, err)
	}
	return nil
}

func checkoutFromSession(session *stripe.CheckoutSession) (ledger.Event, error) {
	userID := session.Metadata[metadataUserID]
	if userID != "" && !tool.IsUUID(userID) {
		return nil, fmt.Errorf("%w: checkout %s: malformed user id %q", ledger.ErrValidation, session.ID, userID)
	}
	ev := &ledger.CheckoutCompleted{
		Provider: types.PaymentProviderStripe,
		UserID:   userID,
		PlanID:   session.Metadata[metadataPlanID],
		Amount:   decimal.New(session.AmountTotal, -2),
		Currency: strings.ToLower(string(session.Currency)),
		Validity: types.PlanValidity(session.Metadata[metadataValidity]),
		Metadata: session.Metadata,
	}
	if session.Customer != nil {
		ev.CustomerID = session.Customer.ID
	}
	if session.Subscription != nil {
		ev.SubscriptionID = session.Subscription.ID
	}
	if session.Created > 0 {
		ev.CreatedAt = time.Unix(session.Created, 0).UTC()
	}
	return ev, nil
}

func stateFromSubscription(sub *stripe.Subscription) (*ledger.SubscriptionState, error) {
	state := &ledger.SubscriptionState{
		Provider:           types.PaymentProviderStripe,
		SubscriptionID:     sub.ID,
		PlanID:             sub.Metadata[metadataPlanID],
		Status:             types.SubscriptionStatus(sub.Status),
		CurrentPeriodStart: tool.UnixToTimePtr(sub.CurrentPeriodStart),
		CurrentPeriodEnd:   tool.UnixToTimePtr(sub.CurrentPeriodEnd),
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		CanceledAt:         tool.UnixToTimePtr(sub.CanceledAt),
		TrialStart:         tool.UnixToTimePtr(sub.TrialStart),
		TrialEnd:           tool.UnixToTimePtr(sub.TrialEnd),
		Metadata:           sub.Metadata,
	}
	if sub.Customer != nil {
		state.CustomerID = sub.Customer.ID
	}
	if userID := sub.Metadata[metadataUserID]; userID != "" {
		if !tool.IsUUID(userID) {
			return nil, fmt.Errorf("%w: subscription %s: malformed user id %q", ledger.ErrValidation, sub.ID, userID)
		}
		state.UserID = userID
	}
	return state, nil
}

func invoiceSubscriptionID(invoice *stripe.Invoice) string {
	if invoice.Subscription == nil {
		return ""
	}
	return invoice.Subscription.ID
}
