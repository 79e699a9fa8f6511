package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/backend/internal/models"
)

// EngagementService records per-user like/view events and derives aggregate
// counts by counting rows at read time. Counters are never denormalized onto
// the recipe row.
type EngagementService struct {
	db *gorm.DB
}

// NewEngagementService creates a new EngagementService instance
func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{db: db}
}

// RecordView records the first authenticated read of a recipe by a user.
// Idempotent: repeat reads hit ON CONFLICT DO NOTHING on the (recipe, user)
// unique index instead of racing a read-then-write.
func (s *EngagementService) RecordView(ctx context.Context, recipeID, userID uuid.UUID) error {
	view := models.View{RecipeID: recipeID, UserID: userID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&view).Error
}

// Like creates the like row for (recipe, user). Liking twice is an error,
// not a toggle.
func (s *EngagementService) Like(ctx context.Context, recipeID, userID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyLiked
	}

	like := models.Like{RecipeID: recipeID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrAlreadyLiked
		}
		return err
	}
	return nil
}

// Unlike removes the like row. Unliking an unliked recipe is an error.
func (s *EngagementService) Unlike(ctx context.Context, recipeID, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotLiked
	}
	return nil
}

// Counts returns the live view and like totals for a recipe.
func (s *EngagementService) Counts(ctx context.Context, recipeID uuid.UUID) (views, likes int64, err error) {
	if err = s.db.WithContext(ctx).Model(&models.View{}).
		Where("recipe_id = ?", recipeID).
		Count(&views).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.WithContext(ctx).Model(&models.Like{}).
		Where("recipe_id = ?", recipeID).
		Count(&likes).Error; err != nil {
		return 0, 0, err
	}
	return views, likes, nil
}

// IsLiked reports whether the user has a like slot on the recipe.
func (s *EngagementService) IsLiked(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	return count > 0, err
}
