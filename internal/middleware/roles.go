package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

func loadUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": missingCredentials})
		c.Abort()
		return nil, false
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
		c.Abort()
		return nil, false
	}
	return &user, true
}

// RequireVerified gates content creation: the user must be verified, active
// and not banned. Runs after AuthMiddleware.
func RequireVerified(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUser(c, db)
		if !ok {
			return
		}

		if !user.IsActive || !user.IsVerified || user.IsBanned {
			c.JSON(http.StatusForbidden, gin.H{"detail": "User must be verified, active, and not banned."})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin gates moderation endpoints. Runs after AuthMiddleware.
func RequireAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUser(c, db)
		if !ok {
			return
		}

		if !user.IsActive || !user.HasAdminRole() {
			c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
			c.Abort()
			return
		}

		c.Next()
	}
}
