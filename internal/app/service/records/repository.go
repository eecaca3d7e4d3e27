package records

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/types"
)

// Source is the read capability the dashboard needs from record storage.
type Source interface {
	ListPricedRecords(ctx context.Context, kind types.RecordKind, ownerID string, from, to *time.Time) ([]types.PricedRecord, error)
}

type Repository struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewRepository(db *gorm.DB, log *zap.SugaredLogger) *Repository {
	return &Repository{db: db, log: log}
}

var Module = fx.Options(
	fx.Provide(
		NewRepository,
		func(r *Repository) Source { return r },
	),
)

type pricedRow struct {
	ID        string
	UserID    string
	Price     *float64
	CreatedAt time.Time
}

// ListPricedRecords returns the owner's records of kind, oldest first.
// from and to bound created_at as [from, to) when set.
func (r *Repository) ListPricedRecords(ctx context.Context, kind types.RecordKind, ownerID string, from, to *time.Time) ([]types.PricedRecord, error) {
	var table string
	switch kind {
	case types.RecordKindIntervention:
		table = models.Intervention{}.TableName()
	case types.RecordKindExpense:
		table = models.Expense{}.TableName()
	default:
		return nil, fmt.Errorf("unknown record kind: %s", kind)
	}

	q := r.db.WithContext(ctx).Table(table).
		Select("id", "user_id", "price", "created_at").
		Where("user_id = ?", ownerID)
	if from != nil {
		q = q.Where("created_at >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("created_at < ?", to.UTC())
	}

	var rows []pricedRow
	if err := q.Order("created_at asc").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	logctx.FromCtx(ctx, r.log).Debugw("priced records loaded", "kind", kind, "count", len(rows))

	out := make([]types.PricedRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.PricedRecord{
			ID:        row.ID,
			OwnerID:   row.UserID,
			Price:     row.Price,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
