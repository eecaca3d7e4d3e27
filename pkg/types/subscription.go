package types

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
)

var subscriptionStatuses = map[SubscriptionStatus]struct{}{
	SubscriptionStatusIncomplete:        {},
	SubscriptionStatusIncompleteExpired: {},
	SubscriptionStatusTrialing:          {},
	SubscriptionStatusActive:            {},
	SubscriptionStatusPastDue:           {},
	SubscriptionStatusCanceled:          {},
	SubscriptionStatusUnpaid:            {},
}

// Valid reports whether s is one of the provider lifecycle statuses.
func (s SubscriptionStatus) Valid() bool {
	_, ok := subscriptionStatuses[s]
	return ok
}

// Entitled reports whether the status grants access: only trialing and active do.
func (s SubscriptionStatus) Entitled() bool {
	return s == SubscriptionStatusTrialing || s == SubscriptionStatusActive
}

// Terminal statuses are never left once reached.
func (s SubscriptionStatus) Terminal() bool {
	return s == SubscriptionStatusCanceled || s == SubscriptionStatusIncompleteExpired
}

// TerminalSubscriptionStatuses lists terminal statuses as plain strings for SQL IN clauses.
var TerminalSubscriptionStatuses = []string{
	string(SubscriptionStatusCanceled),
	string(SubscriptionStatusIncompleteExpired),
}

// ProviderSubscription is the authoritative subscription state as reported by the billing provider.
type ProviderSubscription struct {
	ID                 string             `json:"id"`
	Status             SubscriptionStatus `json:"status"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `json:"current_period_end"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end"`
}
