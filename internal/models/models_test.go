package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/fieldbook/pkg/types"
)

func TestTableNames(t *testing.T) {
	require.Equal(t, "user_account", User{}.TableName())
	require.Equal(t, "intervention", Intervention{}.TableName())
	require.Equal(t, "expense", Expense{}.TableName())
	require.Equal(t, "subscription_record", SubscriptionRecord{}.TableName())
	require.Equal(t, "subscription_record_log", SubscriptionRecordLog{}.TableName())
	require.Equal(t, "webhook_event_log", WebhookEventLog{}.TableName())
}

func TestSubscriptionRecord_Snapshot(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	r := &SubscriptionRecord{
		PlanID:                 "pro_monthly",
		ExternalSubscriptionID: "sub_1",
		Status:                 types.SubscriptionStatusTrialing,
		IsActive:               true,
		CurrentPeriodStart:     &start,
		CurrentPeriodEnd:       &end,
	}

	s := r.Snapshot()
	require.Equal(t, "pro_monthly", s.PlanID)
	require.True(t, s.IsActive)
	require.True(t, s.IsTrial)
	require.Equal(t, &start, s.StartDate)
	require.Equal(t, &end, s.EndDate)
	require.Equal(t, "sub_1", s.ExternalSubscriptionID)
}

func TestWebhookEventLogStatus_Done(t *testing.T) {
	require.True(t, WebhookEventLogStatusHandled.Done())
	require.True(t, WebhookEventLogStatusIgnored.Done())
	require.False(t, WebhookEventLogStatusReceived.Done())
	require.False(t, WebhookEventLogStatusHandleFailed.Done())
}

func TestUserRole_IsAdmin(t *testing.T) {
	require.True(t, UserRoleAdmin.IsAdmin())
	require.True(t, UserRoleSuperAdmin.IsAdmin())
	require.False(t, UserRoleUser.IsAdmin())
}
