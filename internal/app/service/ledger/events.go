package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/fieldbook/pkg/types"
)

type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout_completed"
	EventSubscriptionCreated EventType = "subscription_created"
	EventSubscriptionUpdated EventType = "subscription_updated"
	EventSubscriptionDeleted EventType = "subscription_deleted"
	EventPaymentSucceeded    EventType = "payment_succeeded"
	EventPaymentFailed       EventType = "payment_failed"
	EventEntitlementChanged  EventType = "entitlement_changed"
	EventCancelRequested     EventType = "cancel_requested"
	EventIgnored             EventType = "ignored"
)

// Event is one verified provider notification, already decoded into a typed variant.
type Event interface {
	Type() EventType
	// Validate reports missing correlation fields; failures wrap ErrValidation.
	Validate() error
}

func invalid(t EventType, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, t, fmt.Sprintf(format, args...))
}

// CheckoutCompleted is the authoritative creation of a paid subscription.
type CheckoutCompleted struct {
	Provider       types.PaymentProvider
	UserID         string
	PlanID         string
	CustomerID     string
	SubscriptionID string
	Amount         decimal.Decimal
	Currency       string
	// Validity is used when PlanID is not in the catalog.
	Validity  types.PlanValidity
	CreatedAt time.Time
	Metadata  map[string]string
}

func (e *CheckoutCompleted) Type() EventType { return EventCheckoutCompleted }

func (e *CheckoutCompleted) Validate() error {
	switch {
	case e.UserID == "":
		return invalid(e.Type(), "missing user id")
	case e.PlanID == "":
		return invalid(e.Type(), "missing plan id")
	case e.SubscriptionID == "":
		return invalid(e.Type(), "missing subscription id")
	case e.CustomerID == "":
		return invalid(e.Type(), "missing customer id")
	case e.CreatedAt.IsZero():
		return invalid(e.Type(), "missing creation time")
	}
	return nil
}

// SubscriptionState carries the provider's view of a subscription.
// Nil times and empty strings mean "not reported" and leave stored values alone.
type SubscriptionState struct {
	Provider           types.PaymentProvider
	SubscriptionID     string
	CustomerID         string
	UserID             string
	PlanID             string
	Status             types.SubscriptionStatus
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time
	TrialStart         *time.Time
	TrialEnd           *time.Time
	Metadata           map[string]string
}

func (s *SubscriptionState) validate(t EventType) error {
	if s.SubscriptionID == "" {
		return invalid(t, "missing subscription id")
	}
	if !s.Status.Valid() {
		return invalid(t, "unknown status %q", s.Status)
	}
	return nil
}

type SubscriptionCreated struct {
	SubscriptionState
}

func (e *SubscriptionCreated) Type() EventType { return EventSubscriptionCreated }
func (e *SubscriptionCreated) Validate() error { return e.validate(e.Type()) }

type SubscriptionUpdated struct {
	SubscriptionState
}

func (e *SubscriptionUpdated) Type() EventType { return EventSubscriptionUpdated }
func (e *SubscriptionUpdated) Validate() error { return e.validate(e.Type()) }

type SubscriptionDeleted struct {
	SubscriptionID string
	CanceledAt     *time.Time
}

func (e *SubscriptionDeleted) Type() EventType { return EventSubscriptionDeleted }

func (e *SubscriptionDeleted) Validate() error {
	if e.SubscriptionID == "" {
		return invalid(e.Type(), "missing subscription id")
	}
	return nil
}

// PaymentSucceeded triggers a re-fetch of the period bounds from the provider.
type PaymentSucceeded struct {
	SubscriptionID string
}

func (e *PaymentSucceeded) Type() EventType { return EventPaymentSucceeded }

func (e *PaymentSucceeded) Validate() error {
	if e.SubscriptionID == "" {
		return invalid(e.Type(), "missing subscription id")
	}
	return nil
}

// PaymentFailed mirrors the provider status. An empty Status is re-fetched.
type PaymentFailed struct {
	SubscriptionID string
	Status         types.SubscriptionStatus
}

func (e *PaymentFailed) Type() EventType { return EventPaymentFailed }

func (e *PaymentFailed) Validate() error {
	if e.SubscriptionID == "" {
		return invalid(e.Type(), "missing subscription id")
	}
	if e.Status != "" && !e.Status.Valid() {
		return invalid(e.Type(), "unknown status %q", e.Status)
	}
	return nil
}

type EntitlementChange string

const (
	EntitlementInitialPurchase     EntitlementChange = "INITIAL_PURCHASE"
	EntitlementRenewal             EntitlementChange = "RENEWAL"
	EntitlementNonRenewingPurchase EntitlementChange = "NON_RENEWING_PURCHASE"
	EntitlementCancellation        EntitlementChange = "CANCELLATION"
	EntitlementExpiration          EntitlementChange = "EXPIRATION"
)

// Grants reports whether the change turns the entitlement on.
func (c EntitlementChange) Grants() bool {
	switch c {
	case EntitlementInitialPurchase, EntitlementRenewal, EntitlementNonRenewingPurchase:
		return true
	}
	return false
}

// Revokes reports whether the change turns the entitlement off.
func (c EntitlementChange) Revokes() bool {
	return c == EntitlementCancellation || c == EntitlementExpiration
}

// EntitlementChanged is a store entitlement update for a user, without a ledger record.
type EntitlementChanged struct {
	UserID    string
	Change    EntitlementChange
	ProductID string
	IsTrial   bool
	ExpiresAt *time.Time
}

func (e *EntitlementChanged) Type() EventType { return EventEntitlementChanged }

func (e *EntitlementChanged) Validate() error {
	if e.UserID == "" {
		return invalid(e.Type(), "missing user id")
	}
	if !e.Change.Grants() && !e.Change.Revokes() {
		return invalid(e.Type(), "unsupported change %q", e.Change)
	}
	return nil
}

// Ignored stands for provider notifications the ledger does not act on.
type Ignored struct {
	ProviderType string
}

func (e *Ignored) Type() EventType { return EventIgnored }
func (e *Ignored) Validate() error { return nil }
