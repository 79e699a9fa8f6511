package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/service"
)

type RecipeHandler struct {
	recipeService     *service.RecipeService
	engagementService *service.EngagementService
	statsService      *service.StatisticsService
	authService       *service.AuthService
	imageService      *service.ImageService
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	engagementService *service.EngagementService,
	statsService *service.StatisticsService,
	authService *service.AuthService,
	imageService *service.ImageService,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:     recipeService,
		engagementService: engagementService,
		statsService:      statsService,
		authService:       authService,
		imageService:      imageService,
	}
}

// actor loads the authenticated user, writing a 401 on failure.
func (h *RecipeHandler) actor(c *gin.Context) (*models.User, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return nil, false
	}
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
		return nil, false
	}
	return user, true
}

// optionalActor loads the user when the request carried valid credentials and
// returns nil for anonymous requests.
func (h *RecipeHandler) optionalActor(c *gin.Context) *models.User {
	userID, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

func (h *RecipeHandler) recipeResponse(c *gin.Context, recipe *models.Recipe, actor *models.User) (RecipeResponse, bool) {
	views, likes, err := h.engagementService.Counts(c.Request.Context(), recipe.ID)
	if err != nil {
		respondError(c, err)
		return RecipeResponse{}, false
	}
	isLiked := false
	if actor != nil {
		isLiked, err = h.engagementService.IsLiked(c.Request.Context(), recipe.ID, actor.ID)
		if err != nil {
			respondError(c, err)
			return RecipeResponse{}, false
		}
	}
	return NewRecipeResponse(recipe, views, likes, isLiked), true
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), actor, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	resp, ok := h.recipeResponse(c, recipe, actor)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"detail": "Recipe created successfully.", "recipe": resp})
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	recipes, err := h.recipeService.List(c.Request.Context(), service.ListOptions{
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func boolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func (h *RecipeHandler) AdminListRecipes(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	recipes, err := h.recipeService.AdminList(c.Request.Context(), actor, service.AdminListOptions{
		ListOptions: service.ListOptions{
			Tag:    c.Query("tag"),
			Search: c.Query("search"),
			Sort:   c.Query("sort"),
		},
		Status:     c.Query("status"),
		IsDeleted:  boolQuery(c, "is_deleted"),
		IsBanned:   boolQuery(c, "is_banned"),
		IsFeatured: boolQuery(c, "is_featured"),
		Private:    boolQuery(c, "private"),
		Slug:       c.Query("slug"),
		Author:     c.Query("author"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) ListDeletedRecipes(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	recipes, err := h.recipeService.DeletedList(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) RandomRecipe(c *gin.Context) {
	actor := h.optionalActor(c)

	recipe, err := h.recipeService.Random(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if actor != nil {
		if err := h.engagementService.RecordView(c.Request.Context(), recipe.ID, actor.ID); err != nil {
			respondError(c, err)
			return
		}
	}

	resp, ok := h.recipeResponse(c, recipe, actor)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Random recipe retrieved successfully.", "recipe": resp})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	actor := h.optionalActor(c)

	recipe, err := h.recipeService.GetBySlug(c.Request.Context(), actor, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	// Views are recorded once per user; repeat visits are no-ops.
	if actor != nil {
		if err := h.engagementService.RecordView(c.Request.Context(), recipe.ID, actor.ID); err != nil {
			respondError(c, err)
			return
		}
	}

	resp, ok := h.recipeResponse(c, recipe, actor)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Recipe retrieved successfully.", "recipe": resp})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), actor, c.Param("slug"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	resp, ok := h.recipeResponse(c, recipe, actor)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Recipe updated successfully.", "recipe": resp})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.recipeService.SoftDelete(c.Request.Context(), actor, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) RestoreRecipe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Restore(c.Request.Context(), actor, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, ok := h.recipeResponse(c, recipe, actor)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Recipe has been restored.", "recipe": resp})
}

func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetBySlug(c.Request.Context(), actor, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.engagementService.Like(c.Request.Context(), recipe.ID, actor.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"detail": "Recipe liked."})
}

func (h *RecipeHandler) UnlikeRecipe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetBySlug(c.Request.Context(), actor, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.engagementService.Unlike(c.Request.Context(), recipe.ID, actor.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) ReportRecipe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}

	if _, err := h.recipeService.Report(c.Request.Context(), actor, c.Param("slug"), req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"detail": "Recipe reported successfully."})
}

func (h *RecipeHandler) BanRecipe(c *gin.Context) {
	h.setBanned(c, true, "Recipe has been banned.")
}

func (h *RecipeHandler) UnbanRecipe(c *gin.Context) {
	h.setBanned(c, false, "Recipe has been unbanned.")
}

func (h *RecipeHandler) setBanned(c *gin.Context, banned bool, detail string) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if _, err := h.recipeService.SetBanned(c.Request.Context(), actor, c.Param("slug"), banned); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": detail})
}

func (h *RecipeHandler) FeatureRecipe(c *gin.Context) {
	h.setFeatured(c, true, "Recipe has been featured.")
}

func (h *RecipeHandler) UnfeatureRecipe(c *gin.Context) {
	h.setFeatured(c, false, "Recipe is no longer featured.")
}

func (h *RecipeHandler) setFeatured(c *gin.Context, featured bool, detail string) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if _, err := h.recipeService.SetFeatured(c.Request.Context(), actor, c.Param("slug"), featured); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": detail})
}

func (h *RecipeHandler) RecipeStatistics(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetForStatistics(c.Request.Context(), actor, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.statsService.Series(c.Request.Context(), recipe.ID, c.Query("time-range"), c.Query("time-view"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	if h.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Image uploads are not configured."})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "An image file is required."})
		return
	}

	url, err := h.imageService.Upload(c.Request.Context(), header)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
