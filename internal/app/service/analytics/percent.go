package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentChange returns the change from previous to current in percent.
// A zero previous value yields 100, 0 or -100 depending on the sign of current.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		switch current.Sign() {
		case 1:
			return hundred
		case -1:
			return hundred.Neg()
		default:
			return decimal.Zero
		}
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred)
}

// countChange is the month-over-month change in record counts; 0 when there is no previous count.
func countChange(current, previous int) decimal.Decimal {
	if previous == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(current - previous)).
		Div(decimal.NewFromInt(int64(previous))).
		Mul(hundred)
}

// share returns part/total in percent, 0 for an empty total.
func share(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Div(decimal.NewFromInt(int64(total))).Mul(hundred)
}

// finitePrice coerces null or non-finite prices to zero.
func finitePrice(p *float64) decimal.Decimal {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*p)
}
