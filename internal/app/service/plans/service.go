package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/types"
)

const defaultFreeTrialDays = 7

type Service struct {
	catalog   *Catalog
	db        *gorm.DB
	log       *zap.SugaredLogger
	trialDays int
	now       func() time.Time
}

func NewService(catalog *Catalog, db *gorm.DB, cfg *config.Config, log *zap.SugaredLogger) *Service {
	days := cfg.FreeTrialDays
	if days <= 0 {
		days = defaultFreeTrialDays
	}
	return &Service{catalog: catalog, db: db, log: log, trialDays: days, now: func() time.Time { return time.Now().UTC() }}
}

// AssignFreePlan puts user on the FREE plan as a trial. It writes the user's
// plan snapshot directly and never touches subscription records.
func (s *Service) AssignFreePlan(ctx context.Context, user *models.User, plans []*types.Plan) error {
	free, err := FindFreePlan(plans)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("free_plan_missing", "user_id", user.ID, "plans", len(plans))
		return err
	}

	now := s.now()
	end := now.AddDate(0, 0, s.trialDays)
	user.Subscription = models.UserPlanSnapshot{
		PlanID:    free.ID,
		IsActive:  true,
		IsTrial:   true,
		StartDate: &now,
		EndDate:   &end,
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Select("subscription_plan_id", "subscription_is_active", "subscription_is_trial",
			"subscription_start_date", "subscription_end_date", "subscription_external_id").
		Updates(&models.User{Subscription: user.Subscription}).Error
	if err != nil {
		return fmt.Errorf("failed to save free plan snapshot: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("free_plan_assigned", "user_id", user.ID, "plan_id", free.ID, "end_date", end)
	return nil
}

// AssignFreePlanByUserID loads the user and the catalog, then calls AssignFreePlan.
func (s *Service) AssignFreePlanByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	all, err := s.catalog.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.AssignFreePlan(ctx, &user, all); err != nil {
		return nil, err
	}
	return &user, nil
}
