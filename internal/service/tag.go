package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/policy"
)

// TagService manages the shared tag vocabulary. Tag names are normalized to
// lowercase so "Vegan" and "vegan" are the same tag.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagService instance
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// Create adds a tag to the vocabulary. Any verified, active, non-banned user
// may create tags.
func (s *TagService) Create(ctx context.Context, actor *models.User, name string) (*models.Tag, error) {
	if !policy.CanPublish(actor) {
		return nil, ErrForbidden
	}

	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return nil, NewValidationError("name", "This field is required.")
	}
	if utf8.RuneCountInString(name) > 64 {
		return nil, NewValidationError("name", "Tag name is too long.")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTagExists
	}

	tagSlug, err := uniqueSlug(s.db.WithContext(ctx), "tags", name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	tag := models.Tag{Name: name, Slug: tagSlug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	return &tag, nil
}

// List returns the full vocabulary ordered by name.
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetBySlug fetches one tag.
func (s *TagService) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}
