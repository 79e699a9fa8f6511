package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is one like slot per (recipe, user). The unique index is the backstop
// against concurrent double-likes.
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"timestamp"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_like_recipe_user,unique" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_like_recipe_user,unique" json:"user_id"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// View records the first authenticated read of a recipe by a user. Repeat
// reads are no-ops.
type View struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"timestamp"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_view_recipe_user,unique" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_view_recipe_user,unique" json:"user_id"`
}

func (v *View) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Report status values.
const (
	ReportPending  = "pending"
	ReportReviewed = "reviewed"
	ReportResolved = "resolved"
)

type RecipeReport struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_report_recipe_user,unique" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_report_recipe_user,unique" json:"user_id"`
	Reason    string    `gorm:"type:text;not null" json:"reason"`
	Response  string    `gorm:"type:text" json:"response"`
	Status    string    `gorm:"size:16;not null;default:'pending'" json:"status"`
}

func (r *RecipeReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
