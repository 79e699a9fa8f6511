package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/policy"
)

// ListOptions are the user-facing listing filters. Exactly one of Tag,
// Search, Sort takes effect, in that precedence, matching the original list
// behavior. Soft-deleted recipes are excluded unless a sort override is
// supplied.
type ListOptions struct {
	Tag    string
	Search string
	Sort   string
}

// AdminListOptions extend the user filters with moderation state.
type AdminListOptions struct {
	ListOptions
	Status     string
	IsDeleted  *bool
	IsBanned   *bool
	IsFeatured *bool
	Private    *bool
	Slug       string
	Author     string
}

// sortColumns is the allowlist for the ?sort= override. A leading '-' flips
// the direction.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"deleted_at":   "deleted_at",
	"title":        "title",
	"status":       "status",
}

func applySort(db *gorm.DB, sort string) *gorm.DB {
	desc := strings.HasPrefix(sort, "-")
	column, ok := sortColumns[strings.TrimPrefix(sort, "-")]
	if !ok {
		return db.Order("created_at DESC")
	}
	if desc {
		return db.Order(column + " DESC")
	}
	return db.Order(column + " ASC")
}

func (s *RecipeService) applyListFilters(db *gorm.DB, opts ListOptions) *gorm.DB {
	if opts.Tag != "" {
		db = db.Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.name = ?", strings.ToLower(opts.Tag))
	}
	if opts.Search != "" {
		like := "%" + strings.ToLower(opts.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if opts.Sort != "" {
		db = applySort(db, opts.Sort)
	} else {
		// Deleted recipes only surface under an explicit sort override.
		db = db.Where("is_deleted = ?", false).Order("created_at DESC")
	}
	return db
}

// List is the authenticated user listing.
func (s *RecipeService) List(ctx context.Context, opts ListOptions) ([]models.Recipe, error) {
	var recipes []models.Recipe
	query := s.applyListFilters(s.preload(s.db.WithContext(ctx).Model(&models.Recipe{})), opts)
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// AdminList is the moderation listing: full access including deleted rows,
// with explicit state filters.
func (s *RecipeService) AdminList(ctx context.Context, actor *models.User, opts AdminListOptions) ([]models.Recipe, error) {
	if !policy.CanModerate(actor) {
		return nil, ErrForbidden
	}

	query := s.preload(s.db.WithContext(ctx).Model(&models.Recipe{}))

	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.IsDeleted != nil {
		query = query.Where("is_deleted = ?", *opts.IsDeleted)
	}
	if opts.IsBanned != nil {
		query = query.Where("is_banned = ?", *opts.IsBanned)
	}
	if opts.IsFeatured != nil {
		query = query.Where("is_featured = ?", *opts.IsFeatured)
	}
	if opts.Private != nil {
		query = query.Where("is_private = ?", *opts.Private)
	}
	if opts.Slug != "" {
		query = query.Where("slug LIKE ?", "%"+opts.Slug+"%")
	}
	if opts.Author != "" {
		query = query.Joins("JOIN users ON users.id = recipes.author_id").
			Where("LOWER(users.username) LIKE ?", "%"+strings.ToLower(opts.Author)+"%")
	}

	if opts.Tag != "" {
		query = query.Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.name = ?", strings.ToLower(opts.Tag))
	}
	if opts.Search != "" {
		like := "%" + strings.ToLower(opts.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	query = applySort(query, opts.Sort)

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// DeletedList returns soft-deleted recipes: the actor's own, or all of them
// for moderators.
func (s *RecipeService) DeletedList(ctx context.Context, actor *models.User) ([]models.Recipe, error) {
	query := s.preload(s.db.WithContext(ctx).Model(&models.Recipe{})).
		Where("is_deleted = ?", true).
		Order("deleted_at DESC")
	if !policy.CanModerate(actor) {
		query = query.Where("author_id = ?", actor.ID)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
