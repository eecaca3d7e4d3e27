package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/fatflowers/fieldbook/pkg/types"
)

// SubscriptionRecord mirrors one billing-provider subscription.
// Rows are never deleted; cancellation only flips Status and IsActive.
type SubscriptionRecord struct {
	ID                     string                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID                 string                   `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	PlanID                 string                   `gorm:"column:plan_id;type:varchar(64)" json:"plan_id"`
	Provider               types.PaymentProvider    `gorm:"column:provider;type:varchar(32);not null" json:"provider"`
	ExternalCustomerID     string                   `gorm:"column:external_customer_id;type:varchar(128)" json:"external_customer_id"`
	ExternalSubscriptionID string                   `gorm:"column:external_subscription_id;type:varchar(128);not null;uniqueIndex" json:"external_subscription_id"`
	Status                 types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	IsActive               bool                     `gorm:"column:is_active;not null" json:"is_active"`
	Amount                 decimal.Decimal          `gorm:"column:amount;type:numeric(14,2)" json:"amount"`
	Currency               string                   `gorm:"column:currency;type:varchar(8)" json:"currency"`
	Interval               string                   `gorm:"column:billing_interval;type:varchar(16)" json:"interval"`
	CurrentPeriodStart     *time.Time               `gorm:"column:current_period_start" json:"current_period_start"`
	CurrentPeriodEnd       *time.Time               `gorm:"column:current_period_end" json:"current_period_end"`
	CancelAtPeriodEnd      bool                     `gorm:"column:cancel_at_period_end;not null" json:"cancel_at_period_end"`
	CanceledAt             *time.Time               `gorm:"column:canceled_at" json:"canceled_at"`
	TrialStart             *time.Time               `gorm:"column:trial_start" json:"trial_start"`
	TrialEnd               *time.Time               `gorm:"column:trial_end" json:"trial_end"`
	Metadata               datatypes.JSONMap        `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt              time.Time                `json:"created_at"`
	UpdatedAt              time.Time                `json:"updated_at"`
}

func (SubscriptionRecord) TableName() string {
	return "subscription_record"
}

// Snapshot projects the record onto the user-facing plan state.
func (r *SubscriptionRecord) Snapshot() UserPlanSnapshot {
	return UserPlanSnapshot{
		PlanID:                 r.PlanID,
		IsActive:               r.IsActive,
		IsTrial:                r.Status == types.SubscriptionStatusTrialing,
		StartDate:              r.CurrentPeriodStart,
		EndDate:                r.CurrentPeriodEnd,
		ExternalSubscriptionID: r.ExternalSubscriptionID,
	}
}
