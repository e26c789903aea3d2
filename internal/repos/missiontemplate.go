package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/types"
)

type MissionTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.MissionTemplate) ([]*types.MissionTemplate, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MissionTemplate, error)
	GetActiveByStrategyAndTypes(ctx context.Context, tx *gorm.DB, strategyID uuid.UUID, templateTypes []string) ([]*types.MissionTemplate, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.MissionTemplate) error
}

type missionTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMissionTemplateRepo(db *gorm.DB, baseLog *logger.Logger) MissionTemplateRepo {
	return &missionTemplateRepo{db: db, log: baseLog.With("repo", "MissionTemplateRepo")}
}

func (r *missionTemplateRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.MissionTemplate) ([]*types.MissionTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.MissionTemplate{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *missionTemplateRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MissionTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MissionTemplate
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetActiveByStrategyAndTypes returns all active templates for a strategy
// restricted to the given types, in stable id order. The caller picks
// randomly in application code.
func (r *missionTemplateRepo) GetActiveByStrategyAndTypes(ctx context.Context, tx *gorm.DB, strategyID uuid.UUID, templateTypes []string) ([]*types.MissionTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MissionTemplate
	if strategyID == uuid.Nil || len(templateTypes) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("strategy_id = ? AND is_active = ? AND type IN ?", strategyID, true, templateTypes).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *missionTemplateRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.MissionTemplate) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("strategy_id = ? AND type = ? AND title = ?", row.StrategyID, row.Type, row.Title).
		Assign(row).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}
