package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/testhelpers"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testhelpers.StartPostgres(t)
}

func newVerifiedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	suffix := uuid.New().String()[:8]
	user := &models.User{
		Email:        fmt.Sprintf("user+%s@example.com", suffix),
		Username:     "user" + suffix,
		PasswordHash: "x",
		IsActive:     true,
		IsVerified:   true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func newAdminUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := newVerifiedUser(t, db)
	user.IsAdmin = true
	if err := db.Model(user).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote user: %v", err)
	}
	return user
}

func publishedInput(title string) CreateRecipeInput {
	return CreateRecipeInput{
		Title:         title,
		Status:        models.StatusPublished,
		FinalImageURL: "https://example.com/final.jpg",
	}
}
