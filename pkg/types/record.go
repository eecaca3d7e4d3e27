package types

import "time"

type RecordKind string

const (
	RecordKindIntervention RecordKind = "intervention"
	RecordKindExpense      RecordKind = "expense"
)

// PricedRecord is the shape shared by interventions (income) and expenses (costs).
// Price is nil when the stored value is null.
type PricedRecord struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Price     *float64  `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
