package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fatflowers/fieldbook/internal/app/service/plans"
	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/types"
)

var checkoutColumns = []string{
	"user_id",
	"plan_id",
	"provider",
	"external_customer_id",
	colStatus,
	colIsActive,
	"amount",
	"currency",
	"billing_interval",
	"current_period_start",
	"current_period_end",
	"metadata",
}

func metadataMap(m map[string]string) datatypes.JSONMap {
	if len(m) == 0 {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func providerOrDefault(p types.PaymentProvider) types.PaymentProvider {
	if p == "" {
		return types.PaymentProviderStripe
	}
	return p
}

func (s *Service) applyCheckout(ctx context.Context, e *CheckoutCompleted) error {
	validity := e.Validity
	if plan, err := s.plans.GetPlan(ctx, e.PlanID); err == nil {
		validity = plan.Validity
	} else {
		logctx.FromCtx(ctx, s.log).Warnw("checkout_plan_not_in_catalog", "plan_id", e.PlanID, "validity", validity)
	}

	// The session creation time, not the processing time, anchors the period so redelivery is stable.
	start := e.CreatedAt.UTC()
	end := plans.PlanEndDate(start, validity)
	currency := strings.ToLower(e.Currency)
	if currency == "" {
		currency = "usd"
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := requireUser(ctx, tx, e.UserID)
		if err != nil {
			return err
		}
		before, err := findRecord(ctx, tx, e.SubscriptionID)
		if err != nil {
			return err
		}

		rec := &models.SubscriptionRecord{
			UserID:                 e.UserID,
			PlanID:                 e.PlanID,
			Provider:               providerOrDefault(e.Provider),
			ExternalCustomerID:     e.CustomerID,
			ExternalSubscriptionID: e.SubscriptionID,
			Status:                 types.SubscriptionStatusActive,
			IsActive:               true,
			Amount:                 e.Amount,
			Currency:               currency,
			Interval:               validity.Interval(),
			CurrentPeriodStart:     &start,
			CurrentPeriodEnd:       &end,
			Metadata:               metadataMap(e.Metadata),
		}
		if err := upsertRecord(ctx, tx, rec, checkoutColumns, checkoutStatusGuard); err != nil {
			return err
		}
		after, err := findRecord(ctx, tx, e.SubscriptionID)
		if err != nil {
			return err
		}
		if err := recordChange(ctx, tx, e.Type(), before, after); err != nil {
			return err
		}
		if mayClaimSnapshot(user, after) {
			return claimSnapshot(ctx, tx, after)
		}
		logctx.FromCtx(ctx, s.log).Infow("checkout_snapshot_kept",
			"user_id", user.ID,
			"subscription_id", after.ExternalSubscriptionID,
			"snapshot_subscription_id", user.Subscription.ExternalSubscriptionID,
		)
		_, err = syncSnapshot(ctx, tx, after)
		return err
	})
}

// stateUpdates lists the fields the provider actually reported.
func stateUpdates(t EventType, st *SubscriptionState) map[string]any {
	updates := map[string]any{
		colStatus:              string(st.Status),
		colIsActive:            st.Status.Entitled(),
		"cancel_at_period_end": st.CancelAtPeriodEnd,
	}
	if st.CurrentPeriodStart != nil {
		updates["current_period_start"] = st.CurrentPeriodStart.UTC()
	}
	if st.CurrentPeriodEnd != nil {
		updates["current_period_end"] = st.CurrentPeriodEnd.UTC()
	}
	if st.TrialStart != nil {
		updates["trial_start"] = st.TrialStart.UTC()
	}
	if st.TrialEnd != nil {
		updates["trial_end"] = st.TrialEnd.UTC()
	}
	if st.CustomerID != "" {
		updates["external_customer_id"] = st.CustomerID
	}
	if t == EventSubscriptionUpdated && st.CanceledAt != nil {
		updates["canceled_at"] = st.CanceledAt.UTC()
	}
	return updates
}

// applyState merges a provider subscription state into the ledger.
// Without a user id in the metadata the record must already exist.
func (s *Service) applyState(ctx context.Context, t EventType, st *SubscriptionState) error {
	updates := stateUpdates(t, st)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := findRecord(ctx, tx, st.SubscriptionID)
		if err != nil {
			return err
		}

		switch {
		case before != nil:
			if err := updateRecord(ctx, tx, st.SubscriptionID, updates); err != nil {
				return err
			}
		case st.UserID != "":
			if _, err := requireUser(ctx, tx, st.UserID); err != nil {
				return err
			}
			rec := recordFromState(st)
			columns := lo.Keys(updates)
			slices.Sort(columns)
			if err := upsertRecord(ctx, tx, rec, columns, excludedOrKept); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: subscription %s", ErrNotFound, st.SubscriptionID)
		}

		after, err := findRecord(ctx, tx, st.SubscriptionID)
		if err != nil {
			return err
		}
		if err := recordChange(ctx, tx, t, before, after); err != nil {
			return err
		}
		_, err = syncSnapshot(ctx, tx, after)
		return err
	})
}

func recordFromState(st *SubscriptionState) *models.SubscriptionRecord {
	utc := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		u := t.UTC()
		return &u
	}
	return &models.SubscriptionRecord{
		UserID:                 st.UserID,
		PlanID:                 st.PlanID,
		Provider:               providerOrDefault(st.Provider),
		ExternalCustomerID:     st.CustomerID,
		ExternalSubscriptionID: st.SubscriptionID,
		Status:                 st.Status,
		IsActive:               st.Status.Entitled(),
		CurrentPeriodStart:     utc(st.CurrentPeriodStart),
		CurrentPeriodEnd:       utc(st.CurrentPeriodEnd),
		CancelAtPeriodEnd:      st.CancelAtPeriodEnd,
		CanceledAt:             utc(st.CanceledAt),
		TrialStart:             utc(st.TrialStart),
		TrialEnd:               utc(st.TrialEnd),
		Metadata:               metadataMap(st.Metadata),
	}
}

func (s *Service) applyDeleted(ctx context.Context, e *SubscriptionDeleted) error {
	updates := map[string]any{
		colStatus:   string(types.SubscriptionStatusCanceled),
		colIsActive: false,
	}
	if e.CanceledAt != nil {
		updates["canceled_at"] = gorm.Expr("COALESCE(canceled_at, ?)", e.CanceledAt.UTC())
	}
	return s.mutate(ctx, e.Type(), e.SubscriptionID, func(tx *gorm.DB, _ *models.SubscriptionRecord) error {
		return updateRecord(ctx, tx, e.SubscriptionID, updates)
	})
}

func (s *Service) applyPaymentSucceeded(ctx context.Context, e *PaymentSucceeded) error {
	existing, err := findRecord(ctx, s.db, e.SubscriptionID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: subscription %s", ErrNotFound, e.SubscriptionID)
	}

	sub, err := s.fetch(ctx, e.SubscriptionID)
	if err != nil {
		return err
	}
	return s.mutate(ctx, e.Type(), e.SubscriptionID, func(tx *gorm.DB, _ *models.SubscriptionRecord) error {
		return updateRecord(ctx, tx, e.SubscriptionID, map[string]any{
			"current_period_start": sub.CurrentPeriodStart.UTC(),
			"current_period_end":   sub.CurrentPeriodEnd.UTC(),
		})
	})
}

func (s *Service) applyPaymentFailed(ctx context.Context, e *PaymentFailed) error {
	existing, err := findRecord(ctx, s.db, e.SubscriptionID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: subscription %s", ErrNotFound, e.SubscriptionID)
	}

	status := e.Status
	if status == "" {
		sub, err := s.fetch(ctx, e.SubscriptionID)
		if err != nil {
			return err
		}
		status = sub.Status
	}
	if !status.Valid() {
		return fmt.Errorf("%w: provider status %q", ErrValidation, status)
	}
	return s.mutate(ctx, e.Type(), e.SubscriptionID, func(tx *gorm.DB, _ *models.SubscriptionRecord) error {
		return updateRecord(ctx, tx, e.SubscriptionID, map[string]any{
			colStatus:   string(status),
			colIsActive: status.Entitled(),
		})
	})
}

// mutate runs fn on an existing record inside a transaction, then logs the change and syncs the snapshot.
func (s *Service) mutate(ctx context.Context, t EventType, externalID string, fn func(tx *gorm.DB, before *models.SubscriptionRecord) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := findRecord(ctx, tx, externalID)
		if err != nil {
			return err
		}
		if before == nil {
			return fmt.Errorf("%w: subscription %s", ErrNotFound, externalID)
		}
		if err := fn(tx, before); err != nil {
			return err
		}
		after, err := findRecord(ctx, tx, externalID)
		if err != nil {
			return err
		}
		if err := recordChange(ctx, tx, t, before, after); err != nil {
			return err
		}
		_, err = syncSnapshot(ctx, tx, after)
		return err
	})
}

// applyEntitlement writes a store entitlement straight onto the user's snapshot.
func (s *Service) applyEntitlement(ctx context.Context, e *EntitlementChanged) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireUser(ctx, tx, e.UserID); err != nil {
			return err
		}
		updates := map[string]any{"subscription_is_active": e.Change.Grants()}
		if e.Change.Grants() {
			updates["subscription_is_trial"] = e.IsTrial
			if e.ExpiresAt != nil {
				updates["subscription_end_date"] = e.ExpiresAt.UTC()
			}
		}
		if err := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", e.UserID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update entitlement: %w", err)
		}
		logctx.FromCtx(ctx, s.log).Infow("entitlement_applied", "user_id", e.UserID, "change", e.Change, "expires_at", e.ExpiresAt)
		return nil
	})
}
