package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/types"
)

type UserStreakRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStreak, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.UserStreak) error
}

type userStreakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStreakRepo(db *gorm.DB, baseLog *logger.Logger) UserStreakRepo {
	return &userStreakRepo{db: db, log: baseLog.With("repo", "UserStreakRepo")}
}

func (r *userStreakRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil {
		return nil, nil
	}

	var result types.UserStreak
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userStreakRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.UserStreak) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", row.UserID).
		Assign(map[string]interface{}{
			"current":           row.Current,
			"longest":           row.Longest,
			"last_completed_on": row.LastCompletedOn,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}
