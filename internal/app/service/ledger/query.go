package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/types"
)

// ScanSubscriptionRecordsRequest pages through records for the admin console.
type ScanSubscriptionRecordsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanSubscriptionRecordsResponse struct {
	Items []*models.SubscriptionRecord `json:"items"`
	Total int64                        `json:"total"`
}

// ScanColumns are the columns admin filters and sorting may reference.
var ScanColumns = []string{
	"id",
	"user_id",
	"plan_id",
	"provider",
	"status",
	"is_active",
	"external_customer_id",
	"external_subscription_id",
	"current_period_start",
	"current_period_end",
	"cancel_at_period_end",
	"created_at",
	"updated_at",
}

const maxScanSize = 200

// ScanSubscriptionRecords implements paginated/admin listing with filters
func (s *Service) ScanSubscriptionRecords(ctx context.Context, req *ScanSubscriptionRecordsRequest) (*ScanSubscriptionRecordsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrValidation)
	}
	if err := types.ValidateFilters(req.Filters, ScanColumns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.SortBy != "" {
		if err := types.ValidateFilters([]*types.CommonFilter{{Field: req.SortBy}}, ScanColumns); err != nil {
			return nil, fmt.Errorf("%w: sort: %v", ErrValidation, err)
		}
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.Size > maxScanSize {
		req.Size = maxScanSize
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.SubscriptionRecord{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscription records: %w", err)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	var rows []*models.SubscriptionRecord
	err := tx.Limit(req.Size).Offset(req.From).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription records: %w", err)
	}
	return &ScanSubscriptionRecordsResponse{Items: rows, Total: total}, nil
}

// GetActiveSubscription returns the user's entitled record with the latest period end.
func (s *Service) GetActiveSubscription(ctx context.Context, userID string) (*models.SubscriptionRecord, error) {
	var rec models.SubscriptionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("current_period_end desc").
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no active subscription for user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active subscription: %w", err)
	}
	return &rec, nil
}

// CancelAtPeriodEnd asks the provider to stop renewing the user's active subscription,
// then flags the local record. Access continues until the current period ends.
func (s *Service) CancelAtPeriodEnd(ctx context.Context, userID string) (*models.SubscriptionRecord, error) {
	rec, err := s.GetActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec.CancelAtPeriodEnd {
		return rec, nil
	}

	if rec.Provider == types.PaymentProviderStripe {
		cctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		if err := s.billing.CancelAtPeriodEnd(cctx, rec.ExternalSubscriptionID); err != nil {
			if isTimeout(cctx, err) {
				return nil, fmt.Errorf("%w: cancel %s: %v", ErrUpstreamTimeout, rec.ExternalSubscriptionID, err)
			}
			return nil, fmt.Errorf("failed to cancel subscription at provider: %w", err)
		}
	}

	err = s.mutate(ctx, EventCancelRequested, rec.ExternalSubscriptionID, func(tx *gorm.DB, _ *models.SubscriptionRecord) error {
		return updateRecord(ctx, tx, rec.ExternalSubscriptionID, map[string]any{"cancel_at_period_end": true})
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription_cancel_requested", "user_id", userID, "subscription_id", rec.ExternalSubscriptionID)
	return findRecord(ctx, s.db, rec.ExternalSubscriptionID)
}

// GetUserPlanSnapshot returns the plan state the user currently sees.
func (s *Service) GetUserPlanSnapshot(ctx context.Context, userID string) (*models.UserPlanSnapshot, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user.Subscription, nil
}
