package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/types"
)

var (
	// ErrConfiguration means the catalog has no FREE plan; it is a deployment problem, not a user one.
	ErrConfiguration = errors.New("plans: free plan not configured")
	ErrPlanNotFound  = errors.New("plans: plan not found")
	ErrUserNotFound  = errors.New("plans: user not found")
)

// Catalog serves plan definitions from configuration.
type Catalog struct {
	cfg *config.Config
}

func NewCatalog(cfg *config.Config) *Catalog {
	return &Catalog{cfg: cfg}
}

// ListPlans returns every configured plan, active or not.
func (c *Catalog) ListPlans(ctx context.Context) ([]*types.Plan, error) {
	return c.cfg.Plans, nil
}

// ListActivePlans returns the plans offered to customers.
func (c *Catalog) ListActivePlans(ctx context.Context) ([]*types.Plan, error) {
	return lo.Filter(c.cfg.Plans, func(p *types.Plan, _ int) bool { return p.IsActive }), nil
}

func (c *Catalog) GetPlan(ctx context.Context, id string) (*types.Plan, error) {
	plan := c.cfg.GetPlanByID(id)
	if plan == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return plan, nil
}

// FindFreePlan picks the FREE tier out of plans.
func FindFreePlan(plans []*types.Plan) (*types.Plan, error) {
	plan, ok := lo.Find(plans, func(p *types.Plan) bool { return p.IsFree() })
	if !ok {
		return nil, ErrConfiguration
	}
	return plan, nil
}

// PlanEndDate returns the end of a period starting at start: one year for annual plans, one month otherwise.
func PlanEndDate(start time.Time, validity types.PlanValidity) time.Time {
	if validity == types.PlanValidityAnnually {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}
