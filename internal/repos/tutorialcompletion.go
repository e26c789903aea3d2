package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/types"
)

type TutorialCompletionRepo interface {
	TutorialIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.TutorialCompletion) (int, error)
}

type tutorialCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTutorialCompletionRepo(db *gorm.DB, baseLog *logger.Logger) TutorialCompletionRepo {
	return &tutorialCompletionRepo{db: db, log: baseLog.With("repo", "TutorialCompletionRepo")}
}

func (r *tutorialCompletionRepo) TutorialIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.TutorialCompletion{}).
		Where("user_id = ?", userID).
		Pluck("tutorial_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *tutorialCompletionRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.TutorialCompletion) (int, error) {
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
