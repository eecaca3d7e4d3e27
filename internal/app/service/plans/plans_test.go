package plans

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/internal/platform/db/dbtest"
	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{Plans: []*types.Plan{
		{ID: "free", Name: "Free", Validity: types.PlanValidityFree, IsActive: true},
		{ID: "pro_monthly", Name: "Pro", Price: decimal.RequireFromString("9.99"), Validity: types.PlanValidityMonthly, IsActive: true},
		{ID: "pro_yearly_legacy", Name: "Pro (legacy)", Price: decimal.RequireFromString("99"), Validity: types.PlanValidityAnnually},
	}}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog(testConfig())
	ctx := context.Background()

	all, err := c.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	active, err := c.ListActivePlans(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)

	p, err := c.GetPlan(ctx, "pro_monthly")
	require.NoError(t, err)
	require.Equal(t, "9.99", p.Price.String())

	_, err = c.GetPlan(ctx, "missing")
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanEndDate(t *testing.T) {
	start := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2027, 1, 31, 10, 0, 0, 0, time.UTC), PlanEndDate(start, types.PlanValidityAnnually))
	require.Equal(t, start.AddDate(0, 1, 0), PlanEndDate(start, types.PlanValidityMonthly))
	require.Equal(t, start.AddDate(0, 1, 0), PlanEndDate(start, ""))
}

func TestService_AssignFreePlan(t *testing.T) {
	gdb := dbtest.New(t)
	cfg := testConfig()
	svc := NewService(NewCatalog(cfg), gdb, cfg, zap.NewNop().Sugar())
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	user := &models.User{
		ID:    "0190c6c4-0000-7000-8000-000000000001",
		Email: "tech@example.com",
		Role:  models.UserRoleUser,
		Subscription: models.UserPlanSnapshot{
			PlanID:                 "pro_monthly",
			ExternalSubscriptionID: "sub_old",
		},
	}
	require.NoError(t, gdb.Create(user).Error)

	require.NoError(t, svc.AssignFreePlan(ctx, user, cfg.Plans))

	var got models.User
	require.NoError(t, gdb.First(&got, "id = ?", user.ID).Error)
	require.Equal(t, "free", got.Subscription.PlanID)
	require.True(t, got.Subscription.IsActive)
	require.True(t, got.Subscription.IsTrial)
	require.Empty(t, got.Subscription.ExternalSubscriptionID)
	require.NotNil(t, got.Subscription.StartDate)
	require.NotNil(t, got.Subscription.EndDate)
	require.WithinDuration(t, now, *got.Subscription.StartDate, time.Second)
	require.WithinDuration(t, now.AddDate(0, 0, 7), *got.Subscription.EndDate, time.Second)

	var records int64
	require.NoError(t, gdb.Model(&models.SubscriptionRecord{}).Count(&records).Error)
	require.Zero(t, records)
}

func TestService_AssignFreePlan_NoFreePlan(t *testing.T) {
	gdb := dbtest.New(t)
	cfg := testConfig()
	svc := NewService(NewCatalog(cfg), gdb, cfg, zap.NewNop().Sugar())

	user := &models.User{ID: "0190c6c4-0000-7000-8000-000000000002", Email: "a@example.com", Role: models.UserRoleUser}
	require.NoError(t, gdb.Create(user).Error)

	err := svc.AssignFreePlan(context.Background(), user, cfg.Plans[1:])
	require.ErrorIs(t, err, ErrConfiguration)

	var got models.User
	require.NoError(t, gdb.First(&got, "id = ?", user.ID).Error)
	require.False(t, got.Subscription.IsActive)
	require.Empty(t, got.Subscription.PlanID)
}

func TestService_AssignFreePlanByUserID(t *testing.T) {
	gdb := dbtest.New(t)
	cfg := testConfig()
	cfg.FreeTrialDays = 14
	svc := NewService(NewCatalog(cfg), gdb, cfg, zap.NewNop().Sugar())
	ctx := context.Background()

	_, err := svc.AssignFreePlanByUserID(ctx, "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)

	user := &models.User{ID: "0190c6c4-0000-7000-8000-000000000003", Email: "b@example.com", Role: models.UserRoleUser}
	require.NoError(t, gdb.Create(user).Error)

	got, err := svc.AssignFreePlanByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "free", got.Subscription.PlanID)
	require.Equal(t, 14*24*time.Hour, got.Subscription.EndDate.Sub(*got.Subscription.StartDate))
}
