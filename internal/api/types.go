package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/service"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username"`
	Password    string `json:"password" binding:"required,min=8"`
	Description string `json:"description"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Description *string `json:"description"`
	AvatarURL   *string `json:"avatar_url"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	AvatarURL   string    `json:"avatar_url"`
	IsVerified  bool      `json:"is_verified"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		Description: user.Description,
		AvatarURL:   user.AvatarURL,
		IsVerified:  user.IsVerified,
	}
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type BlockRequest struct {
	Type    string `json:"type" binding:"required"`
	Content string `json:"content"`
	Image   string `json:"image"`
	Order   int    `json:"order"`
}

type SpecialBlockRequest struct {
	Type    string          `json:"type" binding:"required"`
	Content models.JSONBMap `json:"content" binding:"required"`
	Order   int             `json:"order"`
}

type CreateRecipeRequest struct {
	Title         string                `json:"title" binding:"required"`
	Description   string                `json:"description"`
	Status        string                `json:"status"`
	FinalImage    string                `json:"final_image"`
	SourceURL     string                `json:"source_url"`
	Private       bool                  `json:"private"`
	Tags          []string              `json:"tags"`
	Blocks        []BlockRequest        `json:"blocks"`
	SpecialBlocks []SpecialBlockRequest `json:"special_blocks"`
}

type UpdateRecipeRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	FinalImage  *string   `json:"final_image"`
	SourceURL   *string   `json:"source_url"`
	Private     *bool     `json:"private"`
	Tags        *[]string `json:"tags"`
}

type ReportRequest struct {
	Reason string `json:"reason"`
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// RecipeResponse is the recipe body plus its engagement counters and the
// author's username.
type RecipeResponse struct {
	ID            uuid.UUID                   `json:"id"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	PublishedAt   *time.Time                  `json:"published_at"`
	DeletedAt     *time.Time                  `json:"deleted_at,omitempty"`
	Title         string                      `json:"title"`
	Slug          string                      `json:"slug"`
	Description   string                      `json:"description"`
	FinalImage    string                      `json:"final_image"`
	SourceURL     string                      `json:"source_url"`
	Status        string                      `json:"status"`
	Private       bool                        `json:"private"`
	IsBanned      bool                        `json:"is_banned"`
	IsFeatured    bool                        `json:"is_featured"`
	IsDeleted     bool                        `json:"is_deleted"`
	Calories      float64                     `json:"calories"`
	Protein       float64                     `json:"protein"`
	Fat           float64                     `json:"fat"`
	Carbs         float64                     `json:"carbs"`
	Author        string                      `json:"author"`
	Tags          []models.Tag                `json:"tags"`
	Blocks        []models.RecipeBlock        `json:"blocks"`
	SpecialBlocks []models.RecipeSpecialBlock `json:"special_blocks"`
	ViewsCount    int64                       `json:"views_count"`
	LikesCount    int64                       `json:"likes_count"`
	IsLiked       bool                        `json:"is_liked"`
}

func NewRecipeResponse(recipe *models.Recipe, views, likes int64, isLiked bool) RecipeResponse {
	resp := RecipeResponse{
		ID:            recipe.ID,
		CreatedAt:     recipe.CreatedAt,
		UpdatedAt:     recipe.UpdatedAt,
		PublishedAt:   recipe.PublishedAt,
		DeletedAt:     recipe.DeletedAt,
		Title:         recipe.Title,
		Slug:          recipe.Slug,
		Description:   recipe.Description,
		FinalImage:    recipe.FinalImageURL,
		SourceURL:     recipe.SourceURL,
		Status:        recipe.Status,
		Private:       recipe.IsPrivate,
		IsBanned:      recipe.IsBanned,
		IsFeatured:    recipe.IsFeatured,
		IsDeleted:     recipe.IsDeleted,
		Calories:      recipe.Calories,
		Protein:       recipe.Protein,
		Fat:           recipe.Fat,
		Carbs:         recipe.Carbs,
		Tags:          recipe.Tags,
		Blocks:        recipe.Blocks,
		SpecialBlocks: recipe.SpecialBlocks,
		ViewsCount:    views,
		LikesCount:    likes,
		IsLiked:       isLiked,
	}
	if recipe.Author != nil {
		resp.Author = recipe.Author.Username
	}
	if resp.Tags == nil {
		resp.Tags = []models.Tag{}
	}
	if resp.Blocks == nil {
		resp.Blocks = []models.RecipeBlock{}
	}
	if resp.SpecialBlocks == nil {
		resp.SpecialBlocks = []models.RecipeSpecialBlock{}
	}
	return resp
}

func (r *CreateRecipeRequest) toInput() service.CreateRecipeInput {
	in := service.CreateRecipeInput{
		Title:         r.Title,
		Description:   r.Description,
		Status:        r.Status,
		FinalImageURL: r.FinalImage,
		SourceURL:     r.SourceURL,
		Private:       r.Private,
		Tags:          r.Tags,
	}
	for _, b := range r.Blocks {
		in.Blocks = append(in.Blocks, service.BlockInput{
			Type:     b.Type,
			Content:  b.Content,
			ImageURL: b.Image,
			Order:    b.Order,
		})
	}
	for _, b := range r.SpecialBlocks {
		in.SpecialBlocks = append(in.SpecialBlocks, service.SpecialBlockInput{
			Type:    b.Type,
			Content: b.Content,
			Order:   b.Order,
		})
	}
	return in
}

func (r *UpdateRecipeRequest) toInput() service.UpdateRecipeInput {
	return service.UpdateRecipeInput{
		Title:         r.Title,
		Description:   r.Description,
		Status:        r.Status,
		FinalImageURL: r.FinalImage,
		SourceURL:     r.SourceURL,
		Private:       r.Private,
		Tags:          r.Tags,
	}
}
