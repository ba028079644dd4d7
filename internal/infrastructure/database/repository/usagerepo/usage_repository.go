package usagerepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/relaybase/chat-api/internal/domain/usage"
	"github.com/relaybase/chat-api/internal/infrastructure/database/dbschema"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

type UsageGormRepository struct {
	db *gorm.DB
}

var _ usage.Repository = (*UsageGormRepository)(nil)

func NewUsageGormRepository(db *gorm.DB) usage.Repository {
	return &UsageGormRepository{db: db}
}

func (repo *UsageGormRepository) Record(ctx context.Context, record *usage.Record) error {
	entity := dbschema.NewSchemaTokenUsage(record)
	err := repo.db.WithContext(ctx).Create(entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to record token usage",
			err,
			"2b6f4e8a-1d93-47c5-b0a2-8f5e3c7d9a16",
		)
	}

	record.ID = entity.ID
	record.CreatedAt = entity.CreatedAt
	return nil
}

// SummarizeByUser aggregates spend per model within [from, to].
func (repo *UsageGormRepository) SummarizeByUser(ctx context.Context, userID uint, from, to time.Time) ([]usage.Summary, error) {
	var summaries []usage.Summary
	err := repo.db.WithContext(ctx).
		Model(&dbschema.TokenUsage{}).
		Select(`
			model,
			SUM(prompt_tokens) as prompt_tokens,
			SUM(completion_tokens) as completion_tokens,
			SUM(total_tokens) as total_tokens,
			COUNT(*) as requests
		`).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, from, to).
		Group("model").
		Order("model ASC").
		Scan(&summaries).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to summarize token usage",
			err,
			"7c1d9f3b-4a82-46e0-9d5f-2e8b6a0c4f71",
		)
	}
	return summaries, nil
}
