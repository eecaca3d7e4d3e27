package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fatflowers/fieldbook/pkg/types"
)

type WebhookEventLogStatus string

const (
	WebhookEventLogStatusReceived     WebhookEventLogStatus = "received"
	WebhookEventLogStatusHandled      WebhookEventLogStatus = "handled"
	WebhookEventLogStatusIgnored      WebhookEventLogStatus = "ignored"
	WebhookEventLogStatusHandleFailed WebhookEventLogStatus = "handle_failed"
)

// Done reports whether the event needs no further processing on redelivery.
func (s WebhookEventLogStatus) Done() bool {
	return s == WebhookEventLogStatusHandled || s == WebhookEventLogStatusIgnored
}

type WebhookEventLog struct {
	ID         string                `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProviderID types.PaymentProvider `gorm:"column:provider_id;type:varchar(32);not null;uniqueIndex:idx_provider_event,priority:1" json:"provider_id"`
	EventID    string                `gorm:"column:event_id;type:varchar(128);not null;uniqueIndex:idx_provider_event,priority:2" json:"event_id"`
	EventType  string                `gorm:"column:event_type;type:varchar(128)" json:"event_type"`
	TraceID    string                `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	ReceivedAt time.Time             `gorm:"column:received_at" json:"received_at"`
	Data       datatypes.JSON        `gorm:"column:data;type:jsonb" json:"data"`
	Result     *datatypes.JSON       `gorm:"column:result;type:jsonb" json:"result"`
	Status     WebhookEventLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Attempts   int                   `gorm:"column:attempts;not null" json:"attempts"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func (WebhookEventLog) TableName() string {
	return "webhook_event_log"
}
