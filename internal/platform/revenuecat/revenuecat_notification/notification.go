package revenuecat_notification

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized   = errors.New("revenuecat: unauthorized webhook")
	ErrInvalidPayload = errors.New("revenuecat: invalid payload")
)

// Request is the webhook body RevenueCat posts.
type Request struct {
	APIVersion string `json:"api_version"`
	Event      *Event `json:"event"`
}

// Event holds the subset of RevenueCat event fields used here.
// https://www.revenuecat.com/docs/integrations/webhooks/event-types-and-fields
type Event struct {
	ID                       string   `json:"id"`
	Type                     string   `json:"type"`
	AppUserID                string   `json:"app_user_id"`
	OriginalAppUserID        string   `json:"original_app_user_id"`
	ProductID                string   `json:"product_id"`
	EntitlementIDs           []string `json:"entitlement_ids"`
	PeriodType               string   `json:"period_type"`
	PurchasedAtMs            int64    `json:"purchased_at_ms"`
	ExpirationAtMs           int64    `json:"expiration_at_ms"`
	EventTimestampMs         int64    `json:"event_timestamp_ms"`
	Environment              string   `json:"environment"`
	Store                    string   `json:"store"`
	TransactionID            string   `json:"transaction_id"`
	OriginalTransactionID    string   `json:"original_transaction_id"`
	Currency                 string   `json:"currency"`
	Price                    float64  `json:"price"`
	CancelReason             string   `json:"cancel_reason,omitempty"`
	ExpirationReason         string   `json:"expiration_reason,omitempty"`
	TakehomePercentage       float64  `json:"takehome_percentage,omitempty"`
	PriceInPurchasedCurrency float64  `json:"price_in_purchased_currency,omitempty"`
}

func (e *Event) IsTrial() bool {
	return strings.EqualFold(e.PeriodType, "TRIAL")
}

// Authorize compares the Authorization header with the configured token in constant time.
// An empty token rejects everything.
func Authorize(header, token string) error {
	if token == "" || subtle.ConstantTimeCompare([]byte(header), []byte(token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Parse decodes a webhook body; the event and its type are required.
func Parse(body []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if req.Event == nil || req.Event.Type == "" {
		return nil, fmt.Errorf("%w: missing event", ErrInvalidPayload)
	}
	return &req, nil
}
