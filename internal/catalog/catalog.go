package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/types"
)

// Catalog is the seed content for a deployment: tutorials, badges, and the
// per-strategy mission templates. Tutorials are referenced from templates
// by title, so titles must be unique within a file.
type Catalog struct {
	Tutorials  []TutorialSpec `yaml:"tutorials"`
	Badges     []BadgeSpec    `yaml:"badges"`
	Strategies []StrategySpec `yaml:"strategies"`
}

type TutorialSpec struct {
	Title    string `yaml:"title"`
	Position int    `yaml:"position"`
}

type BadgeSpec struct {
	Slug      string `yaml:"slug"`
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Threshold int    `yaml:"threshold"`
}

type StrategySpec struct {
	Name      string         `yaml:"name"`
	Templates []TemplateSpec `yaml:"templates"`
}

type TemplateSpec struct {
	Type             string `yaml:"type"`
	Title            string `yaml:"title"`
	Description      string `yaml:"description"`
	XPReward         int    `yaml:"xp_reward"`
	RequiredTutorial string `yaml:"required_tutorial"`
	Tutorial         string `yaml:"tutorial"`
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	tutorials := map[string]bool{}
	for _, t := range c.Tutorials {
		if t.Title == "" {
			return fmt.Errorf("tutorial with empty title")
		}
		if tutorials[t.Title] {
			return fmt.Errorf("duplicate tutorial title %q", t.Title)
		}
		tutorials[t.Title] = true
	}
	for _, b := range c.Badges {
		switch b.Kind {
		case types.BadgeKindMissionsCompleted, types.BadgeKindStreak, types.BadgeKindLevel:
		default:
			return fmt.Errorf("badge %q has unknown kind %q", b.Slug, b.Kind)
		}
	}
	for _, s := range c.Strategies {
		if s.Name == "" {
			return fmt.Errorf("strategy with empty name")
		}
		for _, t := range s.Templates {
			switch t.Type {
			case types.TemplateTypePost, types.TemplateTypeStory, types.TemplateTypeReel,
				types.TemplateTypeTuto, types.TemplateTypeEngagement:
			default:
				return fmt.Errorf("template %q has unknown type %q", t.Title, t.Type)
			}
			if t.Type == types.TemplateTypeTuto && t.Tutorial == "" {
				return fmt.Errorf("tuto template %q names no tutorial", t.Title)
			}
			if t.RequiredTutorial != "" && !tutorials[t.RequiredTutorial] {
				return fmt.Errorf("template %q requires unknown tutorial %q", t.Title, t.RequiredTutorial)
			}
			if t.Tutorial != "" && !tutorials[t.Tutorial] {
				return fmt.Errorf("template %q names unknown tutorial %q", t.Title, t.Tutorial)
			}
		}
	}
	return nil
}

// Apply upserts the catalog into the database. Seeding is idempotent:
// tutorials are matched by title, badges by slug, strategies by name, and
// templates by (strategy, type, title).
func (c *Catalog) Apply(ctx context.Context, gdb *gorm.DB, log *logger.Logger) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tutorialIDs := map[string]*types.Tutorial{}
		for _, spec := range c.Tutorials {
			var row types.Tutorial
			if err := tx.Where(types.Tutorial{Title: spec.Title}).
				Assign(map[string]interface{}{"position": spec.Position}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("upsert tutorial %q: %w", spec.Title, err)
			}
			tutorialIDs[spec.Title] = &row
		}

		for _, spec := range c.Badges {
			badge := types.Badge{
				Slug:      spec.Slug,
				Name:      spec.Name,
				Kind:      spec.Kind,
				Threshold: spec.Threshold,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "kind", "threshold", "updated_at"}),
			}).Create(&badge).Error; err != nil {
				return fmt.Errorf("upsert badge %q: %w", spec.Slug, err)
			}
		}

		for _, strat := range c.Strategies {
			var stratRow types.Strategy
			if err := tx.Where(types.Strategy{Name: strat.Name}).
				FirstOrCreate(&stratRow).Error; err != nil {
				return fmt.Errorf("upsert strategy %q: %w", strat.Name, err)
			}

			for _, spec := range strat.Templates {
				xp := spec.XPReward
				if xp <= 0 {
					xp = 10
				}
				updates := map[string]interface{}{
					"description": spec.Description,
					"xp_reward":   xp,
					"is_active":   true,
				}
				if spec.RequiredTutorial != "" {
					updates["required_tutorial_id"] = tutorialIDs[spec.RequiredTutorial].ID
				}
				if spec.Tutorial != "" {
					updates["tutorial_id"] = tutorialIDs[spec.Tutorial].ID
				}
				var row types.MissionTemplate
				if err := tx.Where(types.MissionTemplate{
					StrategyID: stratRow.ID,
					Type:       spec.Type,
					Title:      spec.Title,
				}).Assign(updates).FirstOrCreate(&row).Error; err != nil {
					return fmt.Errorf("upsert template %q: %w", spec.Title, err)
				}
			}
			log.Info("strategy seeded", "strategy", strat.Name, "templates", len(strat.Templates))
		}
		return nil
	})
}
