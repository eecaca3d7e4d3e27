package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/types"
)

type stubSource struct {
	records map[types.RecordKind][]types.PricedRecord
	err     error
}

func (s *stubSource) ListPricedRecords(_ context.Context, kind types.RecordKind, ownerID string, _, _ *time.Time) ([]types.PricedRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return lo.Filter(s.records[kind], func(r types.PricedRecord, _ int) bool { return r.OwnerID == ownerID }), nil
}

func newTestService(src *stubSource) *Service {
	svc := NewService(src, &config.Config{}, zap.NewNop().Sugar())
	svc.now = func() time.Time { return march15 }
	return svc
}

func TestService_GetSummary(t *testing.T) {
	src := &stubSource{records: map[types.RecordKind][]types.PricedRecord{
		types.RecordKindIntervention: {
			rec(lo.ToPtr(100.0), at(time.March, 2, 10)),
			rec(lo.ToPtr(50.0), at(time.March, 9, 10)),
		},
		types.RecordKindExpense: {
			rec(lo.ToPtr(30.0), at(time.March, 5, 10)),
		},
	}}

	view, err := newTestService(src).GetSummary(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Equal(t, "Mar", view.FocusMonth)
	require.Equal(t, "120.00", view.TotalProfit)
	require.Equal(t, "150.00", view.CurrentMonthData.Income)

	view, err = newTestService(src).GetSummary(context.Background(), "someone-else", time.February)
	require.NoError(t, err)
	require.Equal(t, "Feb", view.FocusMonth)
	require.Equal(t, "0.00", view.TotalProfit)
}

func TestService_GetSummary_FetchError(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}

	_, err := newTestService(src).GetSummary(context.Background(), "u1", 0)
	require.ErrorIs(t, err, ErrComputation)
	require.Contains(t, err.Error(), "connection refused")
}
