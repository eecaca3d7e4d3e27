package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionRecordLog keeps the before/after image of every ledger mutation.
// Use case: troubleshooting out-of-order webhook delivery.
type SubscriptionRecordLog struct {
	ID                     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ExternalSubscriptionID string `gorm:"column:external_subscription_id;type:varchar(128);not null;index" json:"external_subscription_id"`
	UserID                 string `gorm:"column:user_id;type:varchar(64)" json:"user_id"`
	// EventType is the ledger event that caused the change.
	EventType string `gorm:"column:event_type;type:varchar(64);not null" json:"event_type"`
	// Before is nil when the row was created by this change.
	Before    datatypes.JSONType[*SubscriptionRecord] `gorm:"column:before;type:jsonb" json:"before"`
	After     datatypes.JSONType[*SubscriptionRecord] `gorm:"column:after;type:jsonb" json:"after"`
	CreatedAt time.Time                               `json:"created_at"`
}

func (SubscriptionRecordLog) TableName() string {
	return "subscription_record_log"
}
