package types

import "github.com/shopspring/decimal"

type PaymentProvider string

const (
	PaymentProviderStripe     PaymentProvider = "stripe"
	PaymentProviderRevenueCat PaymentProvider = "revenuecat"
	PaymentProviderInner      PaymentProvider = "inner"
)

type PlanValidity string

const (
	PlanValidityMonthly  PlanValidity = "MONTHLY"
	PlanValidityAnnually PlanValidity = "ANNUALLY"
	PlanValidityFree     PlanValidity = "FREE"
)

// Plan is a subscription plan definition from the plan catalog.
type Plan struct {
	ID       string          `json:"id" mapstructure:"id"`
	Name     string          `json:"name" mapstructure:"name"`
	Price    decimal.Decimal `json:"price" mapstructure:"price"`
	Validity PlanValidity    `json:"validity" mapstructure:"validity"`
	Features []string        `json:"features" mapstructure:"features"`
	IsActive bool            `json:"is_active" mapstructure:"is_active"`
}

func (p *Plan) IsFree() bool {
	return p != nil && p.Validity == PlanValidityFree
}

// Interval returns the billing interval label stored on subscription records.
func (v PlanValidity) Interval() string {
	if v == PlanValidityAnnually {
		return "year"
	}
	return "month"
}
