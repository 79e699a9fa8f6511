package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe status values. Forward flow is draft -> pending -> published, but the
// owner may set status directly.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPublished = "published"
)

// Block types for free-form content blocks.
const (
	BlockText  = "text"
	BlockImage = "image"
)

// Special block types. At most one of each per recipe.
const (
	SpecialIngredients    = "ingredients"
	SpecialTimes          = "times"
	SpecialCalories       = "calories"
	SpecialMacronutrients = "macronutrients"
)

// JSONBMap is a custom type for structured block content stored as JSONB.
type JSONBMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m JSONBMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONBMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONBMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, m)
}

type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"size:80;uniqueIndex;not null" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Recipe struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PublishedAt   *time.Time `json:"published_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	Title         string     `gorm:"size:64;not null" json:"title"`
	Slug          string     `gorm:"size:80;uniqueIndex;not null" json:"slug"`
	Description   string     `gorm:"type:text" json:"description"`
	FinalImageURL string     `gorm:"size:255" json:"final_image"`
	SourceURL     string     `gorm:"size:255" json:"source_url"`

	Status     string `gorm:"size:16;not null;default:'draft'" json:"status"`
	IsPrivate  bool   `gorm:"not null;default:false" json:"private"`
	IsBanned   bool   `gorm:"not null;default:false" json:"is_banned"`
	IsFeatured bool   `gorm:"not null;default:false" json:"is_featured"`
	IsDeleted  bool   `gorm:"not null;default:false;index" json:"is_deleted"`

	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`

	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User     `gorm:"foreignKey:AuthorID" json:"-"`

	Tags          []Tag                `gorm:"many2many:recipe_tags" json:"tags"`
	Blocks        []RecipeBlock        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"blocks"`
	SpecialBlocks []RecipeSpecialBlock `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"special_blocks"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsPublished reports whether the recipe is publicly readable, ignoring
// ban/delete/privacy flags.
func (r *Recipe) IsPublished() bool {
	return r.Status == StatusPublished
}

type RecipeBlock struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Type     string    `gorm:"size:16;not null;default:'text'" json:"type"`
	Content  string    `gorm:"type:text" json:"content"`
	ImageURL string    `gorm:"size:255" json:"image"`
	Order    int       `gorm:"not null;default:0" json:"order"`
}

func (b *RecipeBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type RecipeSpecialBlock struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index:idx_special_block_type,unique" json:"recipe_id"`
	Type     string    `gorm:"size:16;not null;index:idx_special_block_type,unique" json:"type"`
	Content  JSONBMap  `gorm:"type:jsonb;not null;default:'{}'" json:"content"`
	Order    int       `gorm:"not null;default:0" json:"order"`
}

func (b *RecipeSpecialBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
