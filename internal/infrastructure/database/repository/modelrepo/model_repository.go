package modelrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/relaybase/chat-api/internal/domain/model"
	"github.com/relaybase/chat-api/internal/infrastructure/database/dbschema"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

type ModelGormRepository struct {
	db *gorm.DB
}

var _ model.Repository = (*ModelGormRepository)(nil)

func NewModelGormRepository(db *gorm.DB) model.Repository {
	return &ModelGormRepository{db: db}
}

func (repo *ModelGormRepository) FindByPublicID(ctx context.Context, publicID string) (*model.Model, error) {
	var entity dbschema.Model
	err := repo.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find model by public ID",
			err,
			"7c1e9f3b-4a85-42d6-b7e0-2f8c5d1a9b36",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ModelGormRepository) FindByFilter(ctx context.Context, filter model.Filter) ([]*model.Model, error) {
	query := repo.db.WithContext(ctx).Model(&dbschema.Model{})
	if filter.PublicID != nil {
		query = query.Where("public_id = ?", *filter.PublicID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var entities []dbschema.Model
	if err := query.Order("display_name ASC").Find(&entities).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list models",
			err,
			"e8b3d5f2-9c47-4a61-8b2e-6d0f3c7a1e49",
		)
	}

	models := make([]*model.Model, 0, len(entities))
	for i := range entities {
		models = append(models, entities[i].EtoD())
	}
	return models, nil
}

// Upsert keys on public_id so repeated startups converge on the configured
// catalog instead of duplicating rows.
func (repo *ModelGormRepository) Upsert(ctx context.Context, m *model.Model) (*model.Model, error) {
	entity := dbschema.NewSchemaModel(m)

	assignments := map[string]any{
		"display_name":      entity.DisplayName,
		"provider_model_id": entity.ProviderModelID,
		"is_active":         entity.IsActive,
		"updated_at":        gorm.Expr("NOW()"),
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "public_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to upsert model",
			err,
			"c4f7a2e9-8b35-41d6-9e0a-3f6c8d1b5a74",
		)
	}

	var persisted dbschema.Model
	if err := repo.db.WithContext(ctx).
		Where("public_id = ?", entity.PublicID).
		First(&persisted).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to reload upserted model",
			err,
			"0d8e5b3f-6a92-47c1-b4e7-2c9f1a8d6b35",
		)
	}

	return persisted.EtoD(), nil
}
