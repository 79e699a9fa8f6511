package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// PurgeCandidates lists recipes whose 7-day grace window has lapsed:
// soft-deleted with deleted_at at or before now minus the grace period.
func (s *RecipeService) PurgeCandidates(ctx context.Context) ([]models.Recipe, error) {
	cutoff := s.nowFn().Add(-PurgeGracePeriod)

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("is_deleted = ?", true).
		Where("deleted_at <= ?", cutoff).
		Order("deleted_at ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Purge permanently removes the given recipes and everything hanging off
// them. Callers are expected to have confirmed the candidate list first; the
// batch runs out-of-band, not from a request handler.
func (s *RecipeService) Purge(ctx context.Context, recipes []models.Recipe) (int, error) {
	if len(recipes) == 0 {
		return 0, nil
	}

	ids := make([]interface{}, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Like{},
			&models.View{},
			&models.RecipeReport{},
			&models.RecipeBlock{},
			&models.RecipeSpecialBlock{},
		} {
			if err := tx.Where("recipe_id IN ?", ids).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id IN ?", ids).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Recipe{}).Error
	})
	if err != nil {
		return 0, err
	}
	return len(recipes), nil
}

// SetNowFunc overrides the clock, for tests.
func (s *RecipeService) SetNowFunc(now func() time.Time) {
	s.nowFn = now
}
