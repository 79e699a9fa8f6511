package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/api"
	"github.com/forkful/backend/internal/middleware"
)

// Handlers collects the API handlers the router wires up.
type Handlers struct {
	Auth   *api.AuthHandler
	Recipe *api.RecipeHandler
	Tag    *api.TagHandler
}

// SetupRouter configures the application routes. The redis client is optional;
// without it the rate limits are not enforced.
func SetupRouter(h Handlers, validator middleware.TokenValidator, db *gorm.DB, redisClient *redis.Client) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var createLimit, modifyLimit gin.HandlerFunc
	if redisClient != nil {
		createLimit = middleware.NewRecipeCreationRateLimiter(redisClient).RateLimitMiddleware()
		modifyLimit = middleware.NewRecipeModificationRateLimiter(redisClient).PerRecipeRateLimitMiddleware()
	} else {
		passthrough := func(c *gin.Context) { c.Next() }
		createLimit = passthrough
		modifyLimit = passthrough
	}

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	profile := v1.Group("/profile")
	profile.Use(middleware.AuthMiddleware(validator))
	{
		profile.GET("", h.Auth.GetProfile)
		profile.PUT("", h.Auth.UpdateProfile)
	}

	// Detail and random reads work anonymously, with extra visibility for
	// authenticated callers.
	open := v1.Group("/recipes")
	open.Use(middleware.OptionalAuthMiddleware(validator))
	{
		open.GET("/random", h.Recipe.RandomRecipe)
		open.GET("/:slug", h.Recipe.GetRecipe)
	}

	recipes := v1.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(validator))
	{
		recipes.GET("", h.Recipe.ListRecipes)
		recipes.POST("", middleware.RequireVerified(db), createLimit, h.Recipe.CreateRecipe)
		recipes.GET("/deleted", h.Recipe.ListDeletedRecipes)
		recipes.PATCH("/:slug", modifyLimit, h.Recipe.UpdateRecipe)
		recipes.DELETE("/:slug", modifyLimit, h.Recipe.DeleteRecipe)
		recipes.POST("/:slug/restore", h.Recipe.RestoreRecipe)
		recipes.POST("/:slug/like", h.Recipe.LikeRecipe)
		recipes.DELETE("/:slug/like", h.Recipe.UnlikeRecipe)
		recipes.POST("/:slug/report", h.Recipe.ReportRecipe)
		recipes.GET("/:slug/statistics", h.Recipe.RecipeStatistics)

		admin := recipes.Group("")
		admin.Use(middleware.RequireAdmin(db))
		{
			admin.GET("/admin", h.Recipe.AdminListRecipes)
			admin.POST("/:slug/ban", h.Recipe.BanRecipe)
			admin.DELETE("/:slug/ban", h.Recipe.UnbanRecipe)
			admin.POST("/:slug/feature", h.Recipe.FeatureRecipe)
			admin.DELETE("/:slug/feature", h.Recipe.UnfeatureRecipe)
		}
	}

	images := v1.Group("/images")
	images.Use(middleware.AuthMiddleware(validator), middleware.RequireVerified(db))
	{
		images.POST("", h.Recipe.UploadImage)
	}

	tags := v1.Group("/tags")
	{
		tags.GET("", h.Tag.ListTags)
		tags.GET("/:slug", h.Tag.GetTag)
		tags.POST("", middleware.AuthMiddleware(validator), middleware.RequireVerified(db), h.Tag.CreateTag)
	}

	return router
}
