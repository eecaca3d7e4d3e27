package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/tool"
	"github.com/fatflowers/fieldbook/pkg/types"
)

const (
	colStatus   = "status"
	colIsActive = "is_active"
)

var recordTable = models.SubscriptionRecord{}.TableName()

// snapshotColumns are the user columns projected from a subscription record.
var snapshotColumns = []string{
	"subscription_plan_id",
	"subscription_is_active",
	"subscription_is_trial",
	"subscription_start_date",
	"subscription_end_date",
}

// excludedOrKept assigns the incoming value unless the stored row is in a terminal status.
func excludedOrKept(col string) clause.Expr {
	return gorm.Expr(
		fmt.Sprintf("CASE WHEN %[1]s.status IN ? THEN %[1]s.%[2]s ELSE excluded.%[2]s END", recordTable, col),
		types.TerminalSubscriptionStatuses,
	)
}

// checkoutPromotable are the stored statuses a completed checkout may replace with active.
// Any other status was reported by the provider after the session and is kept.
var checkoutPromotable = []string{
	string(types.SubscriptionStatusIncomplete),
	string(types.SubscriptionStatusActive),
}

// checkoutStatusGuard assigns the incoming value only while the stored status is promotable.
func checkoutStatusGuard(col string) clause.Expr {
	return gorm.Expr(
		fmt.Sprintf("CASE WHEN %[1]s.status IN ? THEN excluded.%[2]s ELSE %[1]s.%[2]s END", recordTable, col),
		checkoutPromotable,
	)
}

// valueOrKept is excludedOrKept for plain UPDATE statements.
func valueOrKept(col string, value any) clause.Expr {
	return gorm.Expr(
		fmt.Sprintf("CASE WHEN status IN ? THEN %s ELSE ? END", col),
		types.TerminalSubscriptionStatuses, value,
	)
}

// upsertRecord inserts rec, or on an external id conflict assigns only columns,
// with status and is_active going through guard.
// It is a single statement, so concurrent deliveries for one subscription cannot lose updates.
func upsertRecord(ctx context.Context, tx *gorm.DB, rec *models.SubscriptionRecord, columns []string, guard func(col string) clause.Expr) error {
	assignments := make([]clause.Assignment, 0, len(columns)+1)
	for _, col := range columns {
		var value any = clause.Column{Table: "excluded", Name: col}
		if col == colStatus || col == colIsActive {
			value = guard(col)
		}
		assignments = append(assignments, clause.Assignment{Column: clause.Column{Name: col}, Value: value})
	}
	assignments = append(assignments, clause.Assignment{
		Column: clause.Column{Name: "updated_at"},
		Value:  clause.Column{Table: "excluded", Name: "updated_at"},
	})

	if rec.ID == "" {
		rec.ID = tool.GenerateUUIDV7()
	}
	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_subscription_id"}},
		DoUpdates: assignments,
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to upsert subscription record: %w", err)
	}
	return nil
}

// updateRecord applies updates to an existing record. status and is_active go through valueOrKept.
func updateRecord(ctx context.Context, tx *gorm.DB, externalID string, updates map[string]any) error {
	for col, v := range updates {
		if col == colStatus || col == colIsActive {
			updates[col] = valueOrKept(col, v)
		}
	}
	res := tx.WithContext(ctx).Model(&models.SubscriptionRecord{}).
		Where("external_subscription_id = ?", externalID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update subscription record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: subscription %s", ErrNotFound, externalID)
	}
	return nil
}

// findRecord returns nil without error when no record exists.
func findRecord(ctx context.Context, db *gorm.DB, externalID string) (*models.SubscriptionRecord, error) {
	var rec models.SubscriptionRecord
	err := db.WithContext(ctx).Where("external_subscription_id = ?", externalID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription record: %w", err)
	}
	return &rec, nil
}

func requireUser(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	err := tx.WithContext(ctx).Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// sameState ignores UpdatedAt, which moves on every write.
func sameState(a, b *models.SubscriptionRecord) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, y := *a, *b
	x.UpdatedAt, y.UpdatedAt = time.Time{}, time.Time{}
	xb, errX := json.Marshal(x)
	yb, errY := json.Marshal(y)
	return errX == nil && errY == nil && bytes.Equal(xb, yb)
}

// recordChange appends a change-log row unless the write left the record as it was.
func recordChange(ctx context.Context, tx *gorm.DB, eventType EventType, before, after *models.SubscriptionRecord) error {
	if sameState(before, after) {
		return nil
	}
	entry := &models.SubscriptionRecordLog{
		ID:                     tool.GenerateUUIDV7(),
		ExternalSubscriptionID: after.ExternalSubscriptionID,
		UserID:                 after.UserID,
		EventType:              string(eventType),
		Before:                 datatypes.NewJSONType(before),
		After:                  datatypes.NewJSONType(after),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to save subscription record log: %w", err)
	}
	return nil
}

// syncSnapshot projects rec onto its user, but only while the user's snapshot still points at rec.
func syncSnapshot(ctx context.Context, tx *gorm.DB, rec *models.SubscriptionRecord) (bool, error) {
	res := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND subscription_external_id = ?", rec.UserID, rec.ExternalSubscriptionID).
		Select(snapshotColumns).
		Updates(&models.User{Subscription: rec.Snapshot()})
	if res.Error != nil {
		return false, fmt.Errorf("failed to sync user plan snapshot: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// mayClaimSnapshot reports whether checkout of rec may re-point user's snapshot at it.
// An inactive record never takes over a snapshot that belongs to another subscription
// or to a running free trial.
func mayClaimSnapshot(user *models.User, rec *models.SubscriptionRecord) bool {
	current := user.Subscription
	if rec.IsActive || current.ExternalSubscriptionID == rec.ExternalSubscriptionID {
		return true
	}
	return current.ExternalSubscriptionID == "" && !current.IsActive
}

// claimSnapshot points the user's snapshot at rec and projects it.
func claimSnapshot(ctx context.Context, tx *gorm.DB, rec *models.SubscriptionRecord) error {
	user := &models.User{Subscription: rec.Snapshot()}
	columns := append(append([]string{}, snapshotColumns...), "subscription_external_id")
	if rec.Provider == types.PaymentProviderStripe && rec.ExternalCustomerID != "" {
		user.StripeCustomerID = &rec.ExternalCustomerID
		columns = append(columns, "stripe_customer_id")
	}
	err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", rec.UserID).
		Select(columns).
		Updates(user).Error
	if err != nil {
		return fmt.Errorf("failed to claim user plan snapshot: %w", err)
	}
	return nil
}
