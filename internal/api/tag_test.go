package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/api"
)

func TestTagEndpoints(t *testing.T) {
	env := SetupTestEnv(t)
	_, token := CreateTestUser(t, env)

	w := PerformRequest(env, http.MethodPost, "/api/v1/tags", token, api.CreateTagRequest{Name: "Weeknight"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Tag created successfully.", body["detail"])
	tag := body["tag"].(map[string]interface{})
	assert.Equal(t, "weeknight", tag["name"])
	assert.Equal(t, "weeknight", tag["slug"])

	// Names are case-insensitive duplicates
	w = PerformRequest(env, http.MethodPost, "/api/v1/tags", token, api.CreateTagRequest{Name: "WEEKNIGHT"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A tag with this name already exists.", decodeBody(t, w)["detail"])

	// Listing is public
	w = PerformRequest(env, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["tags"].([]interface{}), 1)

	w = PerformRequest(env, http.MethodGet, "/api/v1/tags/weeknight", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "weeknight", decodeBody(t, w)["name"])

	w = PerformRequest(env, http.MethodGet, "/api/v1/tags/missing", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No Tag matches the given query.", decodeBody(t, w)["detail"])

	// Creation requires authentication
	w = PerformRequest(env, http.MethodPost, "/api/v1/tags", "", api.CreateTagRequest{Name: "anon"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeTagFiltering(t *testing.T) {
	env := SetupTestEnv(t)
	_, token := CreateTestUser(t, env)

	w := PerformRequest(env, http.MethodPost, "/api/v1/recipes", token, api.CreateRecipeRequest{
		Title:      "Tagged Pasta",
		Status:     "published",
		FinalImage: "https://example.com/final.jpg",
		Tags:       []string{"Italian", "weeknight"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = PerformRequest(env, http.MethodPost, "/api/v1/recipes", token, api.CreateRecipeRequest{
		Title:      "Plain Rice",
		Status:     "published",
		FinalImage: "https://example.com/final.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes?tag=italian", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipes := decodeBody(t, w)["recipes"].([]interface{})
	require.Len(t, recipes, 1)
	assert.Equal(t, "Tagged Pasta", recipes[0].(map[string]interface{})["title"])

	w = PerformRequest(env, http.MethodGet, "/api/v1/recipes?search=rice", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipes = decodeBody(t, w)["recipes"].([]interface{})
	require.Len(t, recipes, 1)
	assert.Equal(t, "Plain Rice", recipes[0].(map[string]interface{})["title"])
}
