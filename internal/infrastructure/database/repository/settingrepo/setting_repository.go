package settingrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/relaybase/chat-api/internal/domain/setting"
	"github.com/relaybase/chat-api/internal/infrastructure/database/dbschema"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

type SettingGormRepository struct {
	db *gorm.DB
}

var _ setting.Repository = (*SettingGormRepository)(nil)

func NewSettingGormRepository(db *gorm.DB) setting.Repository {
	return &SettingGormRepository{db: db}
}

// Get returns the stored value, or "" when the key has never been set.
func (repo *SettingGormRepository) Get(ctx context.Context, key string) (string, error) {
	var entity dbschema.Setting
	err := repo.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to read setting",
			err,
			"5f2a8d4c-7e91-43b6-a1f8-9c3e6b0d2a57",
		)
	}
	return entity.Value, nil
}

func (repo *SettingGormRepository) Set(ctx context.Context, key, value string) error {
	entity := dbschema.Setting{Key: key, Value: value}
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{"value": value, "updated_at": gorm.Expr("NOW()")}),
		}).
		Create(&entity).
		Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to store setting",
			err,
			"d9c4b1e6-3a72-48f5-b0d4-7e2c8f1a5b93",
		)
	}
	return nil
}
