package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/policy"
)

// PurgeGracePeriod is how long a soft-deleted recipe survives before it
// becomes eligible for permanent removal.
const PurgeGracePeriod = 7 * 24 * time.Hour

// slugRetries bounds the number of create attempts when concurrent creations
// race on the same slug.
const slugRetries = 3

// RecipeService is the recipe lifecycle manager: creation, partial updates,
// soft delete and restore, moderation toggles, reports and the purge batch.
type RecipeService struct {
	db    *gorm.DB
	nowFn func() time.Time
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db, nowFn: time.Now}
}

// BlockInput is a free-form content block supplied on create.
type BlockInput struct {
	Type     string
	Content  string
	ImageURL string
	Order    int
}

// SpecialBlockInput is a structured block supplied on create.
type SpecialBlockInput struct {
	Type    string
	Content models.JSONBMap
	Order   int
}

// CreateRecipeInput carries everything needed to create a recipe in one
// logical unit.
type CreateRecipeInput struct {
	Title         string
	Description   string
	Status        string
	FinalImageURL string
	SourceURL     string
	Private       bool
	Tags          []string
	Blocks        []BlockInput
	SpecialBlocks []SpecialBlockInput
}

// UpdateRecipeInput has partial-update semantics: only non-nil fields change.
type UpdateRecipeInput struct {
	Title         *string
	Description   *string
	Status        *string
	FinalImageURL *string
	SourceURL     *string
	Private       *bool
	Tags          *[]string
}

func validStatus(status string) bool {
	switch status {
	case models.StatusDraft, models.StatusPending, models.StatusPublished:
		return true
	}
	return false
}

func (s *RecipeService) validateCreate(in *CreateRecipeInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return NewValidationError("title", "This field is required.")
	}
	if utf8.RuneCountInString(title) > 64 {
		return NewValidationError("title", "Title is too long")
	}
	if in.Status == "" {
		in.Status = models.StatusDraft
	}
	if !validStatus(in.Status) {
		return NewValidationError("status", "Invalid status.")
	}
	if in.Status == models.StatusPublished && in.FinalImageURL == "" {
		return NewValidationError("final_image", "A final image is required to publish a recipe.")
	}

	for _, block := range in.Blocks {
		if block.Type != models.BlockText && block.Type != models.BlockImage {
			return NewValidationError("blocks", "Unknown block type: "+block.Type+".")
		}
	}

	seen := make(map[string]bool, len(in.SpecialBlocks))
	for _, block := range in.SpecialBlocks {
		if seen[block.Type] {
			return NewValidationError("special_blocks", "Duplicate special block type: "+block.Type+".")
		}
		seen[block.Type] = true
		if err := ValidateSpecialBlock(block.Type, block.Content); err != nil {
			return err
		}
	}
	return nil
}

// Create creates the recipe plus its content blocks, special blocks and tags
// in a single transaction. Nutrition columns are seeded from a macronutrients
// special block when one is supplied. A slug collision lost to a concurrent
// creation is retried with the next candidate suffix.
func (s *RecipeService) Create(ctx context.Context, author *models.User, in CreateRecipeInput) (*models.Recipe, error) {
	if !policy.CanPublish(author) {
		return nil, ErrForbidden
	}
	if err := s.validateCreate(&in); err != nil {
		return nil, err
	}

	calories, protein, fat, carbs := extractMacronutrients(in.SpecialBlocks)

	var recipe *models.Recipe
	var err error
	for attempt := 0; attempt < slugRetries; attempt++ {
		recipe, err = s.createOnce(ctx, author, &in, calories, protein, fat, carbs)
		if err == nil || !isDuplicateErr(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, recipe.ID)
}

func (s *RecipeService) createOnce(ctx context.Context, author *models.User, in *CreateRecipeInput, calories, protein, fat, carbs float64) (*models.Recipe, error) {
	recipe := &models.Recipe{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		FinalImageURL: in.FinalImageURL,
		SourceURL:     in.SourceURL,
		Status:        in.Status,
		IsPrivate:     in.Private,
		Calories:      calories,
		Protein:       protein,
		Fat:           fat,
		Carbs:         carbs,
		AuthorID:      author.ID,
	}
	if in.Status == models.StatusPublished {
		now := s.nowFn()
		recipe.PublishedAt = &now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, "recipes", recipe.Title, uuid.Nil)
		if err != nil {
			return err
		}
		recipe.Slug = slug

		if err := tx.Create(recipe).Error; err != nil {
			return err
		}

		tags, err := resolveTags(tx, in.Tags)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(recipe).Association("Tags").Append(tags); err != nil {
				return err
			}
		}

		for _, block := range in.Blocks {
			row := models.RecipeBlock{
				RecipeID: recipe.ID,
				Type:     block.Type,
				Content:  block.Content,
				ImageURL: block.ImageURL,
				Order:    block.Order,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for _, block := range in.SpecialBlocks {
			row := models.RecipeSpecialBlock{
				RecipeID: recipe.ID,
				Type:     block.Type,
				Content:  block.Content,
				Order:    block.Order,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// resolveTags maps tag names onto Tag rows, creating missing ones. Tag slugs
// use the same collision rule as recipe slugs.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}

		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			slug, slugErr := uniqueSlug(tx, "tags", name, uuid.Nil)
			if slugErr != nil {
				return nil, slugErr
			}
			tag = models.Tag{Name: name, Slug: slug}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *RecipeService) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("\"order\" ASC") }).
		Preload("SpecialBlocks", func(db *gorm.DB) *gorm.DB { return db.Order("\"order\" ASC") }).
		Preload("Author")
}

// GetByID fetches a recipe with its associations, without any visibility
// check. Callers gate access themselves.
func (s *RecipeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.preload(s.db.WithContext(ctx)).First(&recipe, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// findBySlug fetches a recipe row regardless of its lifecycle state.
func (s *RecipeService) findBySlug(ctx context.Context, slug string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.preload(s.db.WithContext(ctx)).First(&recipe, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// GetBySlug fetches a recipe and applies the read-visibility policy for the
// actor. A nil actor is an anonymous request.
func (s *RecipeService) GetBySlug(ctx context.Context, actor *models.User, slug string) (*models.Recipe, error) {
	recipe, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	switch policy.CanView(actor, recipe) {
	case policy.Allow:
		return recipe, nil
	case policy.DenyHidden:
		return nil, ErrRecipeHidden
	case policy.DenyDeleted:
		return nil, ErrRecipeDeleted
	default:
		return nil, ErrRecipeNotFound
	}
}

// GetForStatistics fetches a recipe for its statistics view. Statistics are
// open to the author and to moderators regardless of the recipe's lifecycle
// state.
func (s *RecipeService) GetForStatistics(ctx context.Context, actor *models.User, slug string) (*models.Recipe, error) {
	recipe, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewStatistics(actor, recipe) {
		return nil, ErrForbidden
	}
	return recipe, nil
}

// Update applies partial-update semantics: only supplied fields change. A
// title change recomputes the slug, excluding the recipe's own row from the
// collision check. Banned recipes stay editable by their owner.
func (s *RecipeService) Update(ctx context.Context, actor *models.User, slug string, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(actor, recipe) {
		return nil, ErrNotOwner
	}
	if recipe.IsDeleted {
		return nil, ErrRecipeDeleted
	}

	updates := map[string]interface{}{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, NewValidationError("title", "This field is required.")
		}
		if utf8.RuneCountInString(title) > 64 {
			return nil, NewValidationError("title", "Title is too long")
		}
		if title != recipe.Title {
			newSlug, err := uniqueSlug(s.db.WithContext(ctx), "recipes", title, recipe.ID)
			if err != nil {
				return nil, err
			}
			updates["title"] = title
			updates["slug"] = newSlug
		}
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.FinalImageURL != nil {
		updates["final_image_url"] = *in.FinalImageURL
	}
	if in.SourceURL != nil {
		updates["source_url"] = *in.SourceURL
	}
	if in.Private != nil {
		updates["is_private"] = *in.Private
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return nil, NewValidationError("status", "Invalid status.")
		}
		if *in.Status == models.StatusPublished {
			finalImage := recipe.FinalImageURL
			if in.FinalImageURL != nil {
				finalImage = *in.FinalImageURL
			}
			if finalImage == "" {
				return nil, NewValidationError("final_image", "A final image is required to publish a recipe.")
			}
			if recipe.PublishedAt == nil {
				now := s.nowFn()
				updates["published_at"] = &now
			}
		}
		updates["status"] = *in.Status
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.Tags != nil {
			tags, err := resolveTags(tx, *in.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, recipe.ID)
}

// SoftDelete marks the recipe deleted and stamps deleted_at. Only the owner
// may invoke it; admins are excluded from ownership-based mutation.
func (s *RecipeService) SoftDelete(ctx context.Context, actor *models.User, slug string) error {
	recipe, err := s.findBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !policy.CanModify(actor, recipe) {
		return ErrNotOwner
	}
	if recipe.IsDeleted {
		return ErrAlreadyDeleted
	}

	now := s.nowFn()
	return s.db.WithContext(ctx).Model(recipe).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": &now,
	}).Error
}

// Restore clears the soft-delete state.
func (s *RecipeService) Restore(ctx context.Context, actor *models.User, slug string) (*models.Recipe, error) {
	recipe, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(actor, recipe) {
		return nil, ErrNotOwner
	}
	if !recipe.IsDeleted {
		return nil, ErrNotDeleted
	}

	err = s.db.WithContext(ctx).Model(recipe).Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, recipe.ID)
}

// SetBanned toggles the moderation flag. Independent of ownership and of the
// delete state.
func (s *RecipeService) SetBanned(ctx context.Context, actor *models.User, slug string, banned bool) (*models.Recipe, error) {
	if !policy.CanModerate(actor) {
		return nil, ErrForbidden
	}

	recipe, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(recipe).Update("is_banned", banned).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, recipe.ID)
}

// SetFeatured toggles the admin feature flag.
func (s *RecipeService) SetFeatured(ctx context.Context, actor *models.User, slug string, featured bool) (*models.Recipe, error) {
	if !policy.CanModerate(actor) {
		return nil, ErrForbidden
	}

	recipe, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(recipe).Update("is_featured", featured).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, recipe.ID)
}

// Report files a report against a recipe. One per (recipe, user); the unique
// index backstops concurrent duplicates.
func (s *RecipeService) Report(ctx context.Context, actor *models.User, slug, reason string) (*models.RecipeReport, error) {
	recipe, err := s.GetBySlug(ctx, actor, slug)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(reason)) < 10 {
		return nil, NewValidationError("reason", "Please provide a more detailed reason.")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeReport{}).
		Where("recipe_id = ? AND user_id = ?", recipe.ID, actor.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyReported
	}

	report := &models.RecipeReport{
		RecipeID: recipe.ID,
		UserID:   actor.ID,
		Reason:   strings.TrimSpace(reason),
		Status:   models.ReportPending,
	}
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrAlreadyReported
		}
		return nil, err
	}
	return report, nil
}

// eligibleScope is the public pool: published, not banned, not deleted, not
// private.
func eligibleScope(db *gorm.DB) *gorm.DB {
	return db.
		Where("status = ?", models.StatusPublished).
		Where("is_banned = ?", false).
		Where("is_deleted = ?", false).
		Where("is_private = ?", false)
}

// Random picks a random eligible recipe.
func (s *RecipeService) Random(ctx context.Context) (*models.Recipe, error) {
	var recipe models.Recipe
	err := eligibleScope(s.preload(s.db.WithContext(ctx)).Model(&models.Recipe{})).
		Order("RANDOM()").
		First(&recipe).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoRecipes
		}
		return nil, err
	}
	return &recipe, nil
}
