package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fatflowers/fieldbook/internal/app/service/records"
	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/metrics"
	"github.com/fatflowers/fieldbook/pkg/types"
)

// ErrComputation is returned when the records behind a summary cannot be loaded.
var ErrComputation = errors.New("analytics: summary computation failed")

type Service struct {
	source records.Source
	loc    *time.Location
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewService(source records.Source, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{
		source: source,
		loc:    cfg.Analytics.Location(),
		log:    log,
		now:    time.Now,
	}
}

// GetSummary loads every intervention and expense of userID and summarizes them
// relative to now. focus of zero means the current month.
func (s *Service) GetSummary(ctx context.Context, userID string, focus time.Month) (*SummaryView, error) {
	start := time.Now()
	lg := logctx.FromCtx(ctx, s.log)

	var interventions, expenses []types.PricedRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		interventions, err = s.source.ListPricedRecords(gctx, types.RecordKindIntervention, userID, nil, nil)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.source.ListPricedRecords(gctx, types.RecordKindExpense, userID, nil, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		lg.Errorw("dashboard_fetch_failed", "user_id", userID, "err", err)
		metrics.ObserveBusinessProcess("dashboard", "error", start)
		return nil, fmt.Errorf("%w: %v", ErrComputation, err)
	}

	summary := ComputeSummary(interventions, expenses, s.now().In(s.loc), WithFocusMonth(focus))
	lg.Debugw("dashboard_computed",
		"user_id", userID,
		"interventions", summary.TotalInterventions,
		"expenses", summary.TotalExpenseCount,
	)
	metrics.ObserveBusinessProcess("dashboard", "ok", start)
	return summary.View(), nil
}
