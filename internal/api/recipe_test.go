package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/api"
	"github.com/forkful/backend/internal/models"
)

func TestRecipeLifecycle(t *testing.T) {
	env := SetupTestEnv(t)
	_, token := CreateTestUser(t, env)

	slug := createRecipe(t, env, token, "Braised Short Ribs")
	assert.Equal(t, "braised-short-ribs", slug)

	// Retrieve
	w := PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Recipe retrieved successfully.", body["detail"])

	// Update the title; the slug follows
	w = PerformRequest(env, http.MethodPatch, "/api/v1/recipes/"+slug, token, map[string]interface{}{
		"title": "Braised Beef Ribs",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Recipe updated successfully.", body["detail"])
	recipe := body["recipe"].(map[string]interface{})
	assert.Equal(t, "braised-beef-ribs", recipe["slug"])
	slug = recipe["slug"].(string)

	// Soft delete
	w = PerformRequest(env, http.MethodDelete, "/api/v1/recipes/"+slug, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Anonymous readers see a tombstone
	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "This recipe has been deleted.", decodeBody(t, w)["detail"])

	// The author can still read it
	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Double delete fails
	w = PerformRequest(env, http.MethodDelete, "/api/v1/recipes/"+slug, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This recipe has already been deleted.", decodeBody(t, w)["detail"])

	// Restore brings it back
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/restore", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe has been restored.", decodeBody(t, w)["detail"])

	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/restore", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This recipe has not been deleted.", decodeBody(t, w)["detail"])

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecipeVisibility(t *testing.T) {
	env := SetupTestEnv(t)
	_, authorToken := CreateTestUser(t, env)
	_, otherToken := CreateTestUser(t, env)
	_, adminToken := CreateTestAdmin(t, env)

	// Draft: only the author sees it
	w := PerformRequest(env, http.MethodPost, "/api/v1/recipes", authorToken, api.CreateRecipeRequest{
		Title:  "Secret Draft",
		Status: models.StatusDraft,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	slug := decodeBody(t, w)["recipe"].(map[string]interface{})["slug"].(string)

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No Recipe matches the given query.", decodeBody(t, w)["detail"])

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug, authorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Private published recipe: hidden from everyone but the author
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes", authorToken, api.CreateRecipeRequest{
		Title:      "Family Recipe",
		Status:     models.StatusPublished,
		FinalImage: "https://example.com/final.jpg",
		Private:    true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	privateSlug := decodeBody(t, w)["recipe"].(map[string]interface{})["slug"].(string)

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+privateSlug, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Banned recipe: readers get the moderation message, the author still sees it
	publicSlug := createRecipe(t, env, authorToken, "Banned Casserole")
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+publicSlug+"/ban", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe has been banned.", decodeBody(t, w)["detail"])

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+publicSlug, otherToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "This recipe has been flagged as inappropriate and is hidden.", decodeBody(t, w)["detail"])

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+publicSlug, authorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = PerformRequest(env, http.MethodDelete, "/api/v1/recipes/"+publicSlug+"/ban", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe has been unbanned.", decodeBody(t, w)["detail"])

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+publicSlug, otherToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecipeCreateValidation(t *testing.T) {
	env := SetupTestEnv(t)
	_, token := CreateTestUser(t, env)

	// Unverified users cannot create recipes
	unverified, unverifiedToken, err := env.AuthService.Register("newcomer@example.com", "newcomer", "testpassword123", "")
	require.NoError(t, err)
	require.False(t, unverified.IsVerified)

	w := PerformRequest(env, http.MethodPost, "/api/v1/recipes", unverifiedToken, api.CreateRecipeRequest{
		Title: "Nope",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "User must be verified, active, and not banned.", decodeBody(t, w)["detail"])

	// Titles are capped at 64 characters
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes", token, api.CreateRecipeRequest{
		Title: string(long),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, []interface{}{"Title is too long"}, body["title"])

	// Publishing requires a final image
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes", token, api.CreateRecipeRequest{
		Title:  "No Image",
		Status: models.StatusPublished,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body = decodeBody(t, w)
	assert.Contains(t, body, "final_image")

	// Anonymous creation is rejected
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes", "", api.CreateRecipeRequest{Title: "Anon"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication credentials were not provided.", decodeBody(t, w)["detail"])
}

func TestSlugCollisions(t *testing.T) {
	env := SetupTestEnv(t)
	_, token := CreateTestUser(t, env)

	assert.Equal(t, "weeknight-curry", createRecipe(t, env, token, "Weeknight Curry"))
	assert.Equal(t, "weeknight-curry-1", createRecipe(t, env, token, "Weeknight Curry"))
	assert.Equal(t, "weeknight-curry-2", createRecipe(t, env, token, "Weeknight Curry"))
}

func TestLikeUnlike(t *testing.T) {
	env := SetupTestEnv(t)
	_, authorToken := CreateTestUser(t, env)
	_, readerToken := CreateTestUser(t, env)

	slug := createRecipe(t, env, authorToken, "Lemon Tart")

	w := PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/like", readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Recipe liked.", decodeBody(t, w)["detail"])

	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/like", readerToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already liked this recipe.", decodeBody(t, w)["detail"])

	// The like shows up on the detail payload
	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug, readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipe := decodeBody(t, w)["recipe"].(map[string]interface{})
	assert.Equal(t, float64(1), recipe["likes_count"])
	assert.Equal(t, true, recipe["is_liked"])

	w = PerformRequest(env, http.MethodDelete, "/api/v1/recipes/"+slug+"/like", readerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = PerformRequest(env, http.MethodDelete, "/api/v1/recipes/"+slug+"/like", readerToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You haven't liked this recipe yet.", decodeBody(t, w)["detail"])
}

func TestReportRecipe(t *testing.T) {
	env := SetupTestEnv(t)
	_, authorToken := CreateTestUser(t, env)
	_, readerToken := CreateTestUser(t, env)

	slug := createRecipe(t, env, authorToken, "Suspicious Stew")

	w := PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/report", readerToken, api.ReportRequest{
		Reason: "spam",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, []interface{}{"Please provide a more detailed reason."}, body["reason"])

	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/report", readerToken, api.ReportRequest{
		Reason: "This recipe is copied verbatim from a cookbook.",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Recipe reported successfully.", decodeBody(t, w)["detail"])

	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/report", readerToken, api.ReportRequest{
		Reason: "This recipe is copied verbatim from a cookbook.",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already reported this recipe.", decodeBody(t, w)["detail"])
}

func TestRandomRecipe(t *testing.T) {
	env := SetupTestEnv(t)
	_, token := CreateTestUser(t, env)

	w := PerformRequest(env, http.MethodGet, "/api/v1/recipes/random", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No recipes found.", decodeBody(t, w)["detail"])

	// Drafts and private recipes are not eligible
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes", token, api.CreateRecipeRequest{
		Title: "Hidden Draft",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/random", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	slug := createRecipe(t, env, token, "Garlic Noodles")

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/random", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Random recipe retrieved successfully.", body["detail"])
	assert.Equal(t, slug, body["recipe"].(map[string]interface{})["slug"])
}

func TestAdminListAndPermissions(t *testing.T) {
	env := SetupTestEnv(t)
	_, authorToken := CreateTestUser(t, env)
	_, otherToken := CreateTestUser(t, env)
	_, adminToken := CreateTestAdmin(t, env)

	slug := createRecipe(t, env, authorToken, "Moderated Dish")

	// Only moderators reach the admin listing
	w := PerformRequest(env, http.MethodGet, "/api/v1/recipes/admin", otherToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to perform this action.", decodeBody(t, w)["detail"])

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/admin", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipes := decodeBody(t, w)["recipes"].([]interface{})
	assert.Len(t, recipes, 1)

	// Moderators cannot delete someone else's recipe
	w = PerformRequest(env, http.MethodDelete, "/api/v1/recipes/"+slug, adminToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "User must be owner.", decodeBody(t, w)["detail"])

	// Non-admin ban attempts are rejected
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/ban", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Featuring is admin-only as well
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/feature", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe has been featured.", decodeBody(t, w)["detail"])
}

func TestDeletedListing(t *testing.T) {
	env := SetupTestEnv(t)
	_, authorToken := CreateTestUser(t, env)
	_, otherToken := CreateTestUser(t, env)

	slug := createRecipe(t, env, authorToken, "Short Lived Salad")
	w := PerformRequest(env, http.MethodDelete, "/api/v1/recipes/"+slug, authorToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/deleted", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["recipes"].([]interface{}), 1)

	// Other users do not see it in their deleted listing
	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/deleted", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["recipes"].([]interface{}), 0)

	// And it is excluded from the default listing
	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["recipes"].([]interface{}), 0)
}

func TestRecipeStatisticsEndpoint(t *testing.T) {
	env := SetupTestEnv(t)
	_, authorToken := CreateTestUser(t, env)
	_, readerToken := CreateTestUser(t, env)

	slug := createRecipe(t, env, authorToken, "Tracked Tacos")

	// A read and a like from another user
	w := PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug, readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes/"+slug+"/like", readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Statistics are owner-only
	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug+"/statistics", readerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes/"+slug+"/statistics", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "week", body["time_range"])
	assert.Equal(t, "day", body["time_view"])
	assert.Equal(t, float64(1), body["total_views"])
	assert.Equal(t, float64(1), body["total_likes"])
	assert.Equal(t, float64(100), body["engagement_rate"])
	assert.NotEmpty(t, body["data"])
}
