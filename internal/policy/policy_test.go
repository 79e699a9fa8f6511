package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/forkful/backend/internal/models"
)

func newUser() *models.User {
	return &models.User{ID: uuid.New(), IsActive: true, IsVerified: true}
}

func publishedRecipe(author *models.User) *models.Recipe {
	return &models.Recipe{
		ID:       uuid.New(),
		Title:    "Shakshuka",
		Slug:     "shakshuka",
		Status:   models.StatusPublished,
		AuthorID: author.ID,
	}
}

func TestCanViewPublishedRecipe(t *testing.T) {
	author := newUser()
	recipe := publishedRecipe(author)

	assert.Equal(t, Allow, CanView(author, recipe))
	assert.Equal(t, Allow, CanView(newUser(), recipe))
	assert.Equal(t, Allow, CanView(nil, recipe), "anonymous read of a published recipe")
}

func TestCanViewDraftRecipe(t *testing.T) {
	author := newUser()
	recipe := publishedRecipe(author)
	recipe.Status = models.StatusDraft

	assert.Equal(t, Allow, CanView(author, recipe))
	assert.Equal(t, DenyNotFound, CanView(newUser(), recipe))
	assert.Equal(t, DenyNotFound, CanView(nil, recipe))

	super := newUser()
	super.IsSuperuser = true
	assert.Equal(t, Allow, CanView(super, recipe))
}

func TestCanViewPendingRecipe(t *testing.T) {
	author := newUser()
	recipe := publishedRecipe(author)
	recipe.Status = models.StatusPending

	assert.Equal(t, Allow, CanView(author, recipe))
	assert.Equal(t, DenyNotFound, CanView(newUser(), recipe))
}

func TestCanViewPrivateRecipe(t *testing.T) {
	author := newUser()
	recipe := publishedRecipe(author)
	recipe.IsPrivate = true

	assert.Equal(t, Allow, CanView(author, recipe))
	assert.Equal(t, DenyNotFound, CanView(newUser(), recipe))
	assert.Equal(t, DenyNotFound, CanView(nil, recipe))

	super := newUser()
	super.IsSuperuser = true
	assert.Equal(t, Allow, CanView(super, recipe))
}

func TestCanViewBannedRecipe(t *testing.T) {
	author := newUser()
	recipe := publishedRecipe(author)
	recipe.IsBanned = true

	assert.Equal(t, Allow, CanView(author, recipe), "author still sees their banned recipe")
	assert.Equal(t, DenyHidden, CanView(newUser(), recipe))
	assert.Equal(t, DenyHidden, CanView(nil, recipe))

	super := newUser()
	super.IsSuperuser = true
	assert.Equal(t, Allow, CanView(super, recipe))
}

func TestCanViewDeletedRecipe(t *testing.T) {
	author := newUser()
	recipe := publishedRecipe(author)
	recipe.IsDeleted = true

	// The author keeps read access until the purge; everyone else, superusers
	// included, gets the deleted reason.
	assert.Equal(t, Allow, CanView(author, recipe))
	assert.Equal(t, DenyDeleted, CanView(newUser(), recipe))
	assert.Equal(t, DenyDeleted, CanView(nil, recipe))

	super := newUser()
	super.IsSuperuser = true
	assert.Equal(t, DenyDeleted, CanView(super, recipe))
}

func TestBanPrecedesPublicationState(t *testing.T) {
	author := newUser()
	recipe := publishedRecipe(author)
	recipe.IsBanned = true
	recipe.Status = models.StatusDraft

	// A banned draft surfaces the ban, not the draft invisibility.
	assert.Equal(t, DenyHidden, CanView(newUser(), recipe))
}

func TestCanModify(t *testing.T) {
	author := newUser()
	recipe := publishedRecipe(author)

	admin := newUser()
	admin.IsAdmin = true
	super := newUser()
	super.IsSuperuser = true

	assert.True(t, CanModify(author, recipe))
	assert.False(t, CanModify(newUser(), recipe))
	assert.False(t, CanModify(admin, recipe), "admins cannot edit someone else's recipe")
	assert.False(t, CanModify(super, recipe))
	assert.False(t, CanModify(nil, recipe))
}

func TestCanModerate(t *testing.T) {
	for _, tc := range []struct {
		name string
		prep func(u *models.User)
		want bool
	}{
		{"plain user", func(u *models.User) {}, false},
		{"admin", func(u *models.User) { u.IsAdmin = true }, true},
		{"staff", func(u *models.User) { u.IsStaff = true }, true},
		{"superuser", func(u *models.User) { u.IsSuperuser = true }, true},
		{"inactive admin", func(u *models.User) { u.IsAdmin = true; u.IsActive = false }, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			u := newUser()
			tc.prep(u)
			assert.Equal(t, tc.want, CanModerate(u))
		})
	}
	assert.False(t, CanModerate(nil))
}

func TestCanViewStatistics(t *testing.T) {
	author := newUser()
	recipe := publishedRecipe(author)

	admin := newUser()
	admin.IsAdmin = true

	assert.True(t, CanViewStatistics(author, recipe))
	assert.True(t, CanViewStatistics(admin, recipe))
	assert.False(t, CanViewStatistics(newUser(), recipe))
	assert.False(t, CanViewStatistics(nil, recipe))
}

func TestCanPublish(t *testing.T) {
	u := newUser()
	assert.True(t, CanPublish(u))

	banned := newUser()
	banned.IsBanned = true
	assert.False(t, CanPublish(banned))

	unverified := newUser()
	unverified.IsVerified = false
	assert.False(t, CanPublish(unverified))

	inactive := newUser()
	inactive.IsActive = false
	assert.False(t, CanPublish(inactive))

	assert.False(t, CanPublish(nil))
}
