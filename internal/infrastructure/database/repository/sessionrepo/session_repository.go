package sessionrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/relaybase/chat-api/internal/domain/session"
	"github.com/relaybase/chat-api/internal/infrastructure/database/dbschema"
	"github.com/relaybase/chat-api/internal/infrastructure/metrics"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

type SessionGormRepository struct {
	db *gorm.DB
}

var _ session.Repository = (*SessionGormRepository)(nil)

func NewSessionGormRepository(db *gorm.DB) session.Repository {
	return &SessionGormRepository{db: db}
}

func (repo *SessionGormRepository) Create(ctx context.Context, sess *session.Session) error {
	entity := dbschema.NewSchemaSession(sess)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create session",
			err,
			"8d4c2f7a-1b9e-4f36-a5d8-3e7c9b2f4a61",
		)
	}
	sess.ID = entity.ID
	sess.CreatedAt = entity.CreatedAt
	sess.UpdatedAt = entity.UpdatedAt
	metrics.SessionsCreatedTotal.Inc()
	return nil
}

func (repo *SessionGormRepository) FindByID(ctx context.Context, id uint) (*session.Session, error) {
	var entity dbschema.Session
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
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
			"failed to find session by ID",
			err,
			"2e9b5d1c-7f48-4a32-b6e1-9c0d3f5a8b27",
		)
	}
	return entity.EtoD(), nil
}

func (repo *SessionGormRepository) FindByPublicID(ctx context.Context, publicID string) (*session.Session, error) {
	var entity dbschema.Session
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
			"failed to find session by public ID",
			err,
			"6a3f8c2e-4d71-49b5-8e2a-1f9c7d4b3e60",
		)
	}
	return entity.EtoD(), nil
}

func (repo *SessionGormRepository) FindByUserID(ctx context.Context, userID uint) ([]*session.Session, error) {
	var entities []dbschema.Session
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list sessions by user",
			err,
			"b7e2d9f4-8c15-4a63-9b0e-5d3f1c8a7e42",
		)
	}

	sessions := make([]*session.Session, 0, len(entities))
	for i := range entities {
		sessions = append(sessions, entities[i].EtoD())
	}
	return sessions, nil
}

func (repo *SessionGormRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	err := repo.db.WithContext(ctx).
		Model(&dbschema.Session{}).
		Where("id = ?", id).
		Update("updated_at", at).
		Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to touch session",
			err,
			"f1c8e4a7-2d93-4b56-a8f0-6e1b9d3c5a72",
		)
	}
	return nil
}

// Delete soft-deletes the session and its messages together so a deleted
// thread never resurfaces partially.
func (repo *SessionGormRepository) Delete(ctx context.Context, id uint) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&dbschema.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&dbschema.Session{}).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete session",
			err,
			"4b9d7e2f-6a38-41c5-b0d9-8f2e5c1a3b64",
		)
	}
	return nil
}

// PurgeDeleted hard-deletes sessions whose soft-delete timestamp is older
// than the cutoff, messages first to satisfy the foreign key.
func (repo *SessionGormRepository) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	var purged int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Unscoped().
			Model(&dbschema.Session{}).
			Where("deleted_at IS NOT NULL AND deleted_at < ?", before).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Unscoped().
			Where("session_id IN ?", ids).
			Delete(&dbschema.Message{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().
			Where("id IN ?", ids).
			Delete(&dbschema.Session{})
		if result.Error != nil {
			return result.Error
		}
		purged = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to purge deleted sessions",
			err,
			"9e5a3c7d-1f82-4b64-a9e3-7c0d8f2b5a16",
		)
	}
	return purged, nil
}

func (repo *SessionGormRepository) AppendMessage(ctx context.Context, msg *session.Message) error {
	entity := dbschema.NewSchemaMessage(msg)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append message",
			err,
			"3d7f1b8e-9c24-4a57-b3f1-0e6a8d2c4b95",
		)
	}
	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

func (repo *SessionGormRepository) ListMessages(ctx context.Context, sessionID uint) ([]session.Message, error) {
	var entities []dbschema.Message
	err := repo.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"a2c6e8f1-5d39-4b72-8a0c-4f7e1b9d3c58",
		)
	}

	messages := make([]session.Message, 0, len(entities))
	for i := range entities {
		messages = append(messages, *entities[i].EtoD())
	}
	return messages, nil
}
