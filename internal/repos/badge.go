package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/types"
)

type BadgeRepo interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Badge, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Badge) error
	BadgeIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	GetUnlockedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBadge, error)
	UnlockIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.UserBadge) (int, error)
}

type badgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBadgeRepo(db *gorm.DB, baseLog *logger.Logger) BadgeRepo {
	return &badgeRepo{db: db, log: baseLog.With("repo", "BadgeRepo")}
}

func (r *badgeRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Badge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Badge
	if err := transaction.WithContext(ctx).
		Order("threshold ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *badgeRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Badge) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("slug = ?", row.Slug).
		Assign(map[string]interface{}{
			"name":      row.Name,
			"kind":      row.Kind,
			"threshold": row.Threshold,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *badgeRepo) BadgeIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *badgeRepo) GetUnlockedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBadge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserBadge
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *badgeRepo) UnlockIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.UserBadge) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}
