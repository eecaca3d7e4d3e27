package analytics

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type MonthlyView struct {
	Month             string `json:"month"`
	Income            string `json:"income"`
	Expenses          string `json:"expenses"`
	Profit            string `json:"profit"`
	InterventionCount int    `json:"intervention_count"`
	ExpenseCount      int    `json:"expense_count"`
}

type HighlightView struct {
	Count      int    `json:"count"`
	TotalPrice string `json:"total_price"`
}

// SummaryView is the dashboard payload: money fixed to two decimals, changes suffixed with "%".
type SummaryView struct {
	ReferenceDate time.Time `json:"reference_date"`
	FocusMonth    string    `json:"focus_month"`

	TotalIncome               string `json:"total_income"`
	TotalInterventionsInPrice string `json:"total_interventions_in_price"`
	TotalExpensesInPrice      string `json:"total_expenses_in_price"`
	TotalProfit               string `json:"total_profit"`
	TotalInterventions        int    `json:"total_interventions"`
	TotalExpenses             int    `json:"total_expenses"`

	IncomeChange       string `json:"income_change"`
	ExpenseChange      string `json:"expense_change"`
	ProfitChange       string `json:"profit_change"`
	InterventionChange string `json:"intervention_change"`

	MonthlyData     []MonthlyView `json:"monthly_data"`
	TodayHighlights HighlightView `json:"today_highlights"`
	TodayExpenses   HighlightView `json:"today_expenses"`

	CurrentMonthData               MonthlyView `json:"current_month_data"`
	CurrentMonthTotalInterventions int         `json:"current_month_total_interventions"`
	CurrentMonthTotalExpenses      int         `json:"current_month_total_expenses"`
	CurrentMonthTotalIncome        string      `json:"current_month_total_income"`
	CurrentMonthTotalProfit        string      `json:"current_month_total_profit"`
	PreviousMonthInterventions     int         `json:"previous_month_interventions"`
	CurrentMonthPercentageChange   string      `json:"current_month_percentage_change"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

func monthlyView(b MonthlyBucket) MonthlyView {
	return MonthlyView{
		Month:             b.Label(),
		Income:            money(b.Income),
		Expenses:          money(b.Expenses),
		Profit:            money(b.Profit),
		InterventionCount: b.InterventionCount,
		ExpenseCount:      b.ExpenseCount,
	}
}

// View rounds the summary for presentation.
func (s *Summary) View() *SummaryView {
	cur := s.Current()
	return &SummaryView{
		ReferenceDate: s.ReferenceDate,
		FocusMonth:    cur.Label(),

		TotalIncome:               money(s.TotalIncome),
		TotalInterventionsInPrice: money(s.TotalIncome),
		TotalExpensesInPrice:      money(s.TotalExpenses),
		TotalProfit:               money(s.TotalProfit),
		TotalInterventions:        s.TotalInterventions,
		TotalExpenses:             s.TotalExpenseCount,

		IncomeChange:       percent(s.IncomeChange),
		ExpenseChange:      percent(s.ExpenseChange),
		ProfitChange:       percent(s.ProfitChange),
		InterventionChange: percent(s.InterventionShareToday),

		MonthlyData: lo.Map(s.Rotated(), func(b MonthlyBucket, _ int) MonthlyView { return monthlyView(b) }),
		TodayHighlights: HighlightView{
			Count:      s.TodayInterventions.Count,
			TotalPrice: money(s.TodayInterventions.Amount),
		},
		TodayExpenses: HighlightView{
			Count:      s.TodayExpenses.Count,
			TotalPrice: money(s.TodayExpenses.Amount),
		},

		CurrentMonthData:               monthlyView(cur),
		CurrentMonthTotalInterventions: cur.InterventionCount,
		CurrentMonthTotalExpenses:      cur.ExpenseCount,
		CurrentMonthTotalIncome:        money(cur.Income),
		CurrentMonthTotalProfit:        money(cur.Profit),
		PreviousMonthInterventions:     s.PreviousMonthInterventions,
		CurrentMonthPercentageChange:   percent(s.InterventionCountChange),
	}
}
