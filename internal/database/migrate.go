package database

import (
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// Migrate applies the schema via GORM auto-migration.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeBlock{},
		&models.RecipeSpecialBlock{},
		&models.Like{},
		&models.View{},
		&models.RecipeReport{},
	)
}
