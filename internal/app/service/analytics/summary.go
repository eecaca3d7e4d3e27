package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/fieldbook/pkg/types"
)

// MonthlyBucket aggregates one calendar month of the reference year.
// Profit is always Income minus Expenses.
type MonthlyBucket struct {
	Month             time.Month
	Income            decimal.Decimal
	Expenses          decimal.Decimal
	Profit            decimal.Decimal
	InterventionCount int
	ExpenseCount      int
}

// Label is the short English month name, e.g. "Mar".
func (b MonthlyBucket) Label() string {
	return b.Month.String()[:3]
}

type Highlight struct {
	Count  int
	Amount decimal.Decimal
}

// Summary holds unrounded dashboard figures. Rounding happens in View.
type Summary struct {
	ReferenceDate time.Time
	FocusMonth    time.Month

	// Monthly is indexed by month-1.
	Monthly [12]MonthlyBucket

	TotalIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	TotalProfit        decimal.Decimal
	TotalInterventions int
	TotalExpenseCount  int

	TodayInterventions Highlight
	TodayExpenses      Highlight

	IncomeChange  decimal.Decimal
	ExpenseChange decimal.Decimal
	ProfitChange  decimal.Decimal
	// InterventionShareToday is today's share of all interventions, in percent.
	InterventionShareToday decimal.Decimal

	PreviousMonthInterventions int
	// InterventionCountChange compares focus-month and previous-month intervention counts.
	InterventionCountChange decimal.Decimal
}

// Current returns the focus month bucket.
func (s *Summary) Current() MonthlyBucket {
	return s.Monthly[s.FocusMonth-1]
}

// Previous returns the bucket before the focus month; January looks back to December.
func (s *Summary) Previous() MonthlyBucket {
	return s.Monthly[(int(s.FocusMonth)+10)%12]
}

// Rotated returns the twelve buckets starting at the focus month.
func (s *Summary) Rotated() []MonthlyBucket {
	idx := int(s.FocusMonth) - 1
	out := make([]MonthlyBucket, 0, 12)
	out = append(out, s.Monthly[idx:]...)
	return append(out, s.Monthly[:idx]...)
}

type options struct {
	focus time.Month
}

type Option func(*options)

// WithFocusMonth compares the given month with the one before it instead of the reference month.
// Out of range months are ignored.
func WithFocusMonth(m time.Month) Option {
	return func(o *options) {
		if m >= time.January && m <= time.December {
			o.focus = m
		}
	}
}

// ComputeSummary rolls interventions (income) and expenses (costs) up into a dashboard summary.
// Monthly buckets only take records from referenceDate's calendar year, evaluated in
// referenceDate's location; lifetime totals take every record.
func ComputeSummary(interventions, expenses []types.PricedRecord, referenceDate time.Time, opts ...Option) *Summary {
	o := options{focus: referenceDate.Month()}
	for _, opt := range opts {
		opt(&o)
	}

	loc := referenceDate.Location()
	year := referenceDate.Year()
	dayStart := time.Date(year, referenceDate.Month(), referenceDate.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	inToday := func(t time.Time) bool {
		return !t.Before(dayStart) && t.Before(dayEnd)
	}

	s := &Summary{
		ReferenceDate:      referenceDate,
		FocusMonth:         o.focus,
		TotalInterventions: len(interventions),
		TotalExpenseCount:  len(expenses),
	}
	for i := range s.Monthly {
		s.Monthly[i] = MonthlyBucket{Month: time.Month(i + 1)}
	}

	for _, r := range interventions {
		price := finitePrice(r.Price)
		s.TotalIncome = s.TotalIncome.Add(price)

		created := r.CreatedAt.In(loc)
		if created.Year() == year {
			b := &s.Monthly[created.Month()-1]
			b.Income = b.Income.Add(price)
			b.InterventionCount++
		}
		if inToday(created) {
			s.TodayInterventions.Count++
			s.TodayInterventions.Amount = s.TodayInterventions.Amount.Add(price)
		}
	}

	for _, r := range expenses {
		price := finitePrice(r.Price)
		s.TotalExpenses = s.TotalExpenses.Add(price)

		created := r.CreatedAt.In(loc)
		if created.Year() == year {
			b := &s.Monthly[created.Month()-1]
			b.Expenses = b.Expenses.Add(price)
			b.ExpenseCount++
		}
		if inToday(created) {
			s.TodayExpenses.Count++
			s.TodayExpenses.Amount = s.TodayExpenses.Amount.Add(price)
		}
	}

	for i := range s.Monthly {
		s.Monthly[i].Profit = s.Monthly[i].Income.Sub(s.Monthly[i].Expenses)
	}
	s.TotalProfit = s.TotalIncome.Sub(s.TotalExpenses)

	cur, prev := s.Current(), s.Previous()
	s.IncomeChange = PercentChange(cur.Income, prev.Income)
	s.ExpenseChange = PercentChange(cur.Expenses, prev.Expenses)
	s.ProfitChange = PercentChange(cur.Profit, prev.Profit)
	s.InterventionShareToday = share(s.TodayInterventions.Count, s.TotalInterventions)
	s.PreviousMonthInterventions = prev.InterventionCount
	s.InterventionCountChange = countChange(cur.InterventionCount, prev.InterventionCount)

	return s
}

// ParseMonth accepts short or long English month names in any case, or 1..12.
func ParseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month out of range: %d", n)
		}
		return time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month: %q", s)
}
