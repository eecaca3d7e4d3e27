package analytics

import (
	"encoding/json"
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/fieldbook/pkg/types"
)

func rec(price *float64, at time.Time) types.PricedRecord {
	return types.PricedRecord{ID: at.String(), OwnerID: "u1", Price: price, CreatedAt: at}
}

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, time.UTC)
}

var march15 = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestComputeSummary_MarchScenario(t *testing.T) {
	interventions := []types.PricedRecord{
		rec(lo.ToPtr(100.00), at(time.March, 2, 10)),
		rec(lo.ToPtr(50.00), at(time.March, 9, 10)),
	}
	expenses := []types.PricedRecord{
		rec(lo.ToPtr(30.00), at(time.March, 5, 10)),
	}

	view := ComputeSummary(interventions, expenses, march15).View()

	require.Equal(t, "Mar", view.MonthlyData[0].Month)
	require.Equal(t, "150.00", view.MonthlyData[0].Income)
	require.Equal(t, "30.00", view.MonthlyData[0].Expenses)
	require.Equal(t, "120.00", view.MonthlyData[0].Profit)
	require.Equal(t, "120.00", view.TotalProfit)
	require.Equal(t, "150.00", view.CurrentMonthTotalIncome)
	require.Equal(t, 2, view.CurrentMonthTotalInterventions)
	require.Equal(t, 1, view.CurrentMonthTotalExpenses)
}

func TestComputeSummary_ProfitIdentityAndConservation(t *testing.T) {
	var interventions, expenses []types.PricedRecord
	for i := 0; i < 60; i++ {
		m := time.Month(i%12 + 1)
		interventions = append(interventions, rec(lo.ToPtr(float64(i)*13.37+0.01), at(m, i%28+1, i%24)))
		if i%3 == 0 {
			expenses = append(expenses, rec(lo.ToPtr(float64(i)*7.19), at(m, i%28+1, 3)))
		}
	}

	s := ComputeSummary(interventions, expenses, march15)

	sumIncome, sumExpenses := decimal.Zero, decimal.Zero
	for _, b := range s.Monthly {
		assert.True(t, b.Profit.Equal(b.Income.Sub(b.Expenses)), b.Month)
		sumIncome = sumIncome.Add(b.Income)
		sumExpenses = sumExpenses.Add(b.Expenses)
	}
	require.True(t, s.TotalProfit.Equal(s.TotalIncome.Sub(s.TotalExpenses)))
	require.True(t, sumIncome.Equal(s.TotalIncome))
	require.True(t, sumExpenses.Equal(s.TotalExpenses))
}

func TestComputeSummary_PercentChange(t *testing.T) {
	cases := []struct {
		name       string
		feb, march []float64
		want       string
	}{
		{name: "zero previous, positive current", march: []float64{100, 50}, want: "100.00%"},
		{name: "zero over zero", want: "0.00%"},
		{name: "halved", feb: []float64{200}, march: []float64{100}, want: "-50.00%"},
		{name: "grew", feb: []float64{80}, march: []float64{100}, want: "25.00%"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var interventions []types.PricedRecord
			for _, p := range tc.feb {
				interventions = append(interventions, rec(lo.ToPtr(p), at(time.February, 10, 9)))
			}
			for _, p := range tc.march {
				interventions = append(interventions, rec(lo.ToPtr(p), at(time.March, 10, 9)))
			}
			view := ComputeSummary(interventions, nil, march15).View()
			require.Equal(t, tc.want, view.IncomeChange)
		})
	}
}

func TestComputeSummary_NegativeProfitOverZero(t *testing.T) {
	expenses := []types.PricedRecord{rec(lo.ToPtr(40.0), at(time.March, 3, 9))}
	view := ComputeSummary(nil, expenses, march15).View()

	require.Equal(t, "-100.00%", view.ProfitChange)
	require.Equal(t, "100.00%", view.ExpenseChange)
	require.Equal(t, "0.00%", view.IncomeChange)
}

func TestComputeSummary_NonFinitePricesCoerceToZero(t *testing.T) {
	interventions := []types.PricedRecord{
		rec(nil, at(time.March, 2, 9)),
		rec(lo.ToPtr(math.NaN()), at(time.March, 3, 9)),
		rec(lo.ToPtr(math.Inf(1)), at(time.March, 4, 9)),
		rec(lo.ToPtr(25.5), at(time.March, 5, 9)),
	}
	expenses := []types.PricedRecord{rec(lo.ToPtr(math.Inf(-1)), at(time.February, 1, 9))}

	view := ComputeSummary(interventions, expenses, march15).View()
	require.Equal(t, "25.50", view.TotalIncome)
	require.Equal(t, "0.00", view.TotalExpensesInPrice)
	require.Equal(t, 4, view.TotalInterventions)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "NaN")
	require.NotContains(t, string(raw), "Inf")
}

func TestComputeSummary_TodayHighlights(t *testing.T) {
	interventions := []types.PricedRecord{
		rec(lo.ToPtr(10.0), at(time.March, 15, 0)),
		rec(lo.ToPtr(20.0), at(time.March, 15, 23)),
		rec(lo.ToPtr(40.0), at(time.March, 16, 0)),
		rec(lo.ToPtr(80.0), at(time.March, 14, 23)),
	}
	expenses := []types.PricedRecord{rec(lo.ToPtr(5.0), at(time.March, 15, 8))}

	view := ComputeSummary(interventions, expenses, march15).View()
	require.Equal(t, 2, view.TodayHighlights.Count)
	require.Equal(t, "30.00", view.TodayHighlights.TotalPrice)
	require.Equal(t, 1, view.TodayExpenses.Count)
	require.Equal(t, "5.00", view.TodayExpenses.TotalPrice)
	require.Equal(t, "50.00%", view.InterventionChange)
}

func TestComputeSummary_OtherYearsOnlyInLifetimeTotals(t *testing.T) {
	interventions := []types.PricedRecord{
		rec(lo.ToPtr(100.0), at(time.March, 1, 9)),
		rec(lo.ToPtr(70.0), time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)),
	}
	s := ComputeSummary(interventions, nil, march15)

	require.Equal(t, "100.00", s.Current().Income.StringFixed(2))
	require.Equal(t, "170.00", s.TotalIncome.StringFixed(2))
}

func TestComputeSummary_BucketsUseReferenceLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// 23:30 UTC on Feb 28 is already March 1st in Paris.
	interventions := []types.PricedRecord{rec(lo.ToPtr(10.0), time.Date(2026, time.February, 28, 23, 30, 0, 0, time.UTC))}
	s := ComputeSummary(interventions, nil, march15.In(paris))

	require.Equal(t, 1, s.Monthly[time.March-1].InterventionCount)
	require.Equal(t, 0, s.Monthly[time.February-1].InterventionCount)
}

func TestComputeSummary_FocusMonthAndRotation(t *testing.T) {
	interventions := []types.PricedRecord{
		rec(lo.ToPtr(10.0), at(time.December, 2, 9)),
		rec(lo.ToPtr(10.0), at(time.January, 2, 9)),
		rec(lo.ToPtr(10.0), at(time.January, 3, 9)),
	}

	s := ComputeSummary(interventions, nil, march15, WithFocusMonth(time.January))
	require.Equal(t, time.December, s.Previous().Month)

	view := s.View()
	require.Equal(t, "Jan", view.FocusMonth)
	require.Len(t, view.MonthlyData, 12)
	require.Equal(t, "Jan", view.MonthlyData[0].Month)
	require.Equal(t, "Dec", view.MonthlyData[11].Month)
	require.Equal(t, 1, view.PreviousMonthInterventions)
	require.Equal(t, "100.00%", view.CurrentMonthPercentageChange)
	require.Equal(t, "100.00%", view.IncomeChange)

	// out-of-range focus falls back to the reference month
	s = ComputeSummary(interventions, nil, march15, WithFocusMonth(13))
	require.Equal(t, time.March, s.FocusMonth)
	require.Equal(t, "0.00%", s.View().CurrentMonthPercentageChange)
}

func TestPercentChange(t *testing.T) {
	d := decimal.RequireFromString
	require.Equal(t, "100.00", PercentChange(d("150"), d("0")).StringFixed(2))
	require.Equal(t, "0.00", PercentChange(d("0"), d("0")).StringFixed(2))
	require.Equal(t, "-100.00", PercentChange(d("-3"), d("0")).StringFixed(2))
	require.Equal(t, "-50.00", PercentChange(d("100"), d("200")).StringFixed(2))
	require.Equal(t, "300.00", PercentChange(d("50"), d("-25")).StringFixed(2))
	require.Equal(t, "33.33", PercentChange(d("4"), d("3")).StringFixed(2))
}

func TestParseMonth(t *testing.T) {
	for in, want := range map[string]time.Month{"Jan": time.January, "march": time.March, "DEC": time.December, "7": time.July} {
		got, err := ParseMonth(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "13", "Janu", "0"} {
		_, err := ParseMonth(in)
		require.Error(t, err, in)
	}
}
