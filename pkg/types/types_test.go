package types

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestSubscriptionStatus(t *testing.T) {
	require.True(t, SubscriptionStatusActive.Entitled())
	require.True(t, SubscriptionStatusTrialing.Entitled())
	for _, s := range []SubscriptionStatus{
		SubscriptionStatusIncomplete,
		SubscriptionStatusIncompleteExpired,
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled,
		SubscriptionStatusUnpaid,
	} {
		require.False(t, s.Entitled(), s)
		require.True(t, s.Valid(), s)
	}
	require.False(t, SubscriptionStatus("paused").Valid())
	require.True(t, SubscriptionStatusCanceled.Terminal())
	require.True(t, SubscriptionStatusIncompleteExpired.Terminal())
	require.False(t, SubscriptionStatusPastDue.Terminal())
}

func TestPlanValidityInterval(t *testing.T) {
	require.Equal(t, "year", PlanValidityAnnually.Interval())
	require.Equal(t, "month", PlanValidityMonthly.Interval())
	require.Equal(t, "month", PlanValidityFree.Interval())
	require.True(t, (&Plan{Validity: PlanValidityFree}).IsFree())
	require.False(t, (*Plan)(nil).IsFree())
}

func TestValidateFilters(t *testing.T) {
	allowed := []string{"status", "user_id"}
	require.NoError(t, ValidateFilters([]*CommonFilter{{Field: "status"}, nil}, allowed))
	require.Error(t, ValidateFilters([]*CommonFilter{{Field: "status; drop table x"}}, allowed))
}

func TestFiltersAnd_Build(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var rows []map[string]any
	stmt := db.Table("subscription_record").Where(clause.Where{Exprs: []clause.Expression{FiltersAnd{
		{Field: "status", Operator: CommonFilterOperatorIn, Values: []any{"active", "trialing"}},
		{Field: "created_at", Operator: CommonFilterOperatorDateRange, Values: []any{"2026-01-01T00:00:00Z", "not-a-date"}},
		{Field: "user_id", Operator: CommonFilterOperatorEq},
	}}}).Find(&rows).Statement

	sql := stmt.SQL.String()
	require.Contains(t, sql, "`status` IN (?,?)")
	require.Contains(t, sql, "`created_at` >= ?")
	require.NotContains(t, sql, "`created_at` <")
	require.NotContains(t, sql, "user_id")
	require.Len(t, stmt.Vars, 3)
}
