package notification_log

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/tool"
	"github.com/fatflowers/fieldbook/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

var Module = fx.Options(
	fx.Provide(New),
)

// Begin records the arrival of a webhook event and returns the stored row.
// Redeliveries of the same (provider, event id) bump Attempts and keep the stored status,
// so callers can skip events whose status is already Done.
func (s *Service) Begin(ctx context.Context, entry *models.WebhookEventLog) (*models.WebhookEventLog, error) {
	if entry.ID == "" {
		entry.ID = tool.GenerateUUIDV7()
	}
	if entry.EventID == "" {
		entry.EventID = entry.ID
	}
	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = time.Now().UTC()
	}
	entry.Status = models.WebhookEventLogStatusReceived
	entry.Attempts = 1

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "event_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"attempts":    gorm.Expr("webhook_event_log.attempts + 1"),
			"trace_id":    entry.TraceID,
			"received_at": entry.ReceivedAt,
			"updated_at":  time.Now().UTC(),
		}),
	}).Create(entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save webhook event log: %w", err)
	}

	var stored models.WebhookEventLog
	err = s.db.WithContext(ctx).
		Where("provider_id = ? AND event_id = ?", entry.ProviderID, entry.EventID).
		Take(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load webhook event log: %w", err)
	}
	return &stored, nil
}

// Finish stores the processing outcome. Failures are logged, not returned:
// the ledger state is already committed and the provider answer must not depend on this write.
func (s *Service) Finish(ctx context.Context, id string, status models.WebhookEventLogStatus, result map[string]any) {
	updates := map[string]any{"status": status}
	if result != nil {
		if raw, err := json.Marshal(result); err == nil {
			updates["result"] = datatypes.JSON(raw)
		}
	}
	err := s.db.WithContext(ctx).Model(&models.WebhookEventLog{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("failed to finish webhook event log", "id", id, "status", status, "err", err)
	}
}

// Get returns the log entry for a provider event, or nil.
func (s *Service) Get(ctx context.Context, providerID types.PaymentProvider, eventID string) (*models.WebhookEventLog, error) {
	var stored models.WebhookEventLog
	err := s.db.WithContext(ctx).Where("provider_id = ? AND event_id = ?", providerID, eventID).Take(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stored, nil
}
