package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/types"
)

type DailyStatRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.DailyStat) error
	GetByUserAndDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day string) (*types.DailyStat, error)
}

type dailyStatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyStatRepo(db *gorm.DB, baseLog *logger.Logger) DailyStatRepo {
	return &dailyStatRepo{db: db, log: baseLog.With("repo", "DailyStatRepo")}
}

// Upsert writes the recomputed absolute values for (user, day).
func (r *dailyStatRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.DailyStat) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"missions_completed": row.MissionsCompleted,
				"xp_earned":          row.XPEarned,
				"updated_at":         gorm.Expr("now()"),
			}),
		}).
		Create(row).Error
}

func (r *dailyStatRepo) GetByUserAndDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day string) (*types.DailyStat, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || day == "" {
		return nil, nil
	}

	var result types.DailyStat
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
