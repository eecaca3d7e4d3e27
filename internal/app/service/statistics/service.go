package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/metrics"
)

// MonthLabels are the x axis of every chart series.
var MonthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type DashboardStats struct {
	TotalUsers          int64           `json:"total_users"`
	BlockedAccounts     int64           `json:"blocked_accounts"`
	ActiveSubscriptions int64           `json:"active_subscriptions"`
	TotalEarnings       decimal.Decimal `json:"total_earnings"`
}

type DashboardCharts struct {
	Year               int               `json:"year"`
	Months             []string          `json:"months"`
	UserGrowth         []int64           `json:"user_growth"`
	SubscriptionGrowth []int64           `json:"subscription_growth"`
	EarningGrowth      []decimal.Decimal `json:"earning_growth"`
}

// Service provides admin statistics
type Service struct {
	db  *gorm.DB
	loc *time.Location
	log *zap.SugaredLogger
}

func New(db *gorm.DB, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{db: db, loc: cfg.Analytics.Location(), log: log}
}

var Module = fx.Options(
	fx.Provide(New),
)

// GetDashboardStats counts regular users, blocked accounts and active records, and sums record amounts.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	start := time.Now()
	defer metrics.ObserveBusinessProcess("admin_stats", "dashboard", start)

	var res DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.User{}).
			Where("role = ?", models.UserRoleUser).
			Count(&res.TotalUsers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.User{}).
			Where("is_blocked = ?", true).
			Count(&res.BlockedAccounts).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.SubscriptionRecord{}).
			Where("is_active = ?", true).
			Count(&res.ActiveSubscriptions).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.SubscriptionRecord{}).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&res.TotalEarnings).Error
	})
	if err := g.Wait(); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("dashboard_stats_failed", "err", err)
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return &res, nil
}

type createdRow struct {
	CreatedAt time.Time
	Amount    decimal.Decimal
}

// GetDashboardCharts builds 12-slot series for year. Months are taken in the analytics timezone.
func (s *Service) GetDashboardCharts(ctx context.Context, year int) (*DashboardCharts, error) {
	start := time.Now()
	defer metrics.ObserveBusinessProcess("admin_stats", "charts", start)

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(1, 0, 0)

	var users, records []createdRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.User{}).
			Select("created_at").
			Where("role = ? AND created_at >= ? AND created_at < ?", models.UserRoleUser, from.UTC(), to.UTC()).
			Find(&users).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.SubscriptionRecord{}).
			Select("created_at, amount").
			Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
			Find(&records).Error
	})
	if err := g.Wait(); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("dashboard_charts_failed", "year", year, "err", err)
		return nil, fmt.Errorf("failed to compute dashboard charts: %w", err)
	}

	res := &DashboardCharts{
		Year:               year,
		Months:             MonthLabels,
		UserGrowth:         make([]int64, 12),
		SubscriptionGrowth: make([]int64, 12),
		EarningGrowth:      lo.Times(12, func(int) decimal.Decimal { return decimal.Zero }),
	}
	for _, u := range users {
		res.UserGrowth[s.monthIndex(u.CreatedAt)]++
	}
	for _, r := range records {
		i := s.monthIndex(r.CreatedAt)
		res.SubscriptionGrowth[i]++
		res.EarningGrowth[i] = res.EarningGrowth[i].Add(r.Amount)
	}
	for i := range res.EarningGrowth {
		res.EarningGrowth[i] = res.EarningGrowth[i].Round(2)
	}
	return res, nil
}

func (s *Service) monthIndex(t time.Time) int {
	return int(t.In(s.loc).Month()) - 1
}
