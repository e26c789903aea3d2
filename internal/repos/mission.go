package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/types"
)

type MissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Mission) ([]*types.Mission, error)
	GetByUserAndWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*types.Mission, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Mission, error)
	CompletePending(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, completedAt time.Time) (bool, error)
	GetPendingTutoInWindow(ctx context.Context, tx *gorm.DB, userID, tutorialID uuid.UUID, start, end time.Time) (*types.Mission, error)
	CompletedTemplateIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	GetCompletedInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*types.Mission, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type missionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMissionRepo(db *gorm.DB, baseLog *logger.Logger) MissionRepo {
	return &missionRepo{db: db, log: baseLog.With("repo", "MissionRepo")}
}

func (r *missionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Mission) ([]*types.Mission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Mission{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *missionRepo) GetByUserAndWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*types.Mission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Mission
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Template").
		Where("user_id = ? AND assigned_at >= ? AND assigned_at < ?", userID, start, end).
		Order("slot_number ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *missionRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Mission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Mission
	err := transaction.WithContext(ctx).
		Preload("Template").
		Where("id = ? AND user_id = ?", id, userID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CompletePending flips a pending mission to completed in one conditional
// update, so two concurrent completion requests cannot both win.
func (r *missionRepo) CompletePending(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, completedAt time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Mission{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, types.MissionStatusPending).
		Updates(map[string]interface{}{
			"status":       types.MissionStatusCompleted,
			"completed_at": completedAt,
			"updated_at":   completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *missionRepo) GetPendingTutoInWindow(ctx context.Context, tx *gorm.DB, userID, tutorialID uuid.UUID, start, end time.Time) (*types.Mission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Mission
	err := transaction.WithContext(ctx).
		Preload("Template").
		Joins("JOIN mission_template ON mission_template.id = mission.mission_template_id").
		Where("mission.user_id = ? AND mission.status = ? AND mission.assigned_at >= ? AND mission.assigned_at < ?",
			userID, types.MissionStatusPending, start, end).
		Where("mission_template.type = ? AND mission_template.tutorial_id = ?", types.TemplateTypeTuto, tutorialID).
		Order("mission.slot_number ASC").
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *missionRepo) CompletedTemplateIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Mission{}).
		Where("user_id = ? AND status = ?", userID, types.MissionStatusCompleted).
		Distinct().
		Pluck("mission_template_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *missionRepo) CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Mission{}).
		Where("user_id = ? AND status = ?", userID, types.MissionStatusCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *missionRepo) GetCompletedInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*types.Mission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Mission
	if err := transaction.WithContext(ctx).
		Preload("Template").
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, types.MissionStatusCompleted, start, end).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *missionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Mission{}).Error; err != nil {
		return err
	}
	return nil
}
