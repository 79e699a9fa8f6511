package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/api"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/router"
	"github.com/forkful/backend/internal/service"
	"github.com/forkful/backend/internal/testhelpers"
)

// TestEnv bundles the database, services and router for handler tests.
type TestEnv struct {
	DB          *gorm.DB
	AuthService *service.AuthService
	Router      *gin.Engine
}

// SetupTestEnv starts a database container and builds the full route table
// against it, without rate limiting.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.StartPostgres(t)

	authService := service.NewAuthService(db, "test-secret")
	recipeService := service.NewRecipeService(db)
	engagementService := service.NewEngagementService(db)
	statsService := service.NewStatisticsService(db)
	tagService := service.NewTagService(db)

	handlers := router.Handlers{
		Auth:   api.NewAuthHandler(authService),
		Recipe: api.NewRecipeHandler(recipeService, engagementService, statsService, authService, nil),
		Tag:    api.NewTagHandler(tagService, authService),
	}

	return &TestEnv{
		DB:          db,
		AuthService: authService,
		Router:      router.SetupRouter(handlers, authService, db, nil),
	}
}

// CreateTestUser registers a verified user and returns it with a valid token.
func CreateTestUser(t *testing.T, env *TestEnv) (*models.User, string) {
	t.Helper()

	suffix := uuid.New().String()[:8]
	email := fmt.Sprintf("user+%s@example.com", suffix)
	user, token, err := env.AuthService.Register(email, "user"+suffix, "testpassword123", "")
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}

	user.IsVerified = true
	if err := env.DB.Model(user).Update("is_verified", true).Error; err != nil {
		t.Fatalf("failed to verify test user: %v", err)
	}

	return user, token
}

// CreateTestAdmin registers a verified user with the admin flag set.
func CreateTestAdmin(t *testing.T, env *TestEnv) (*models.User, string) {
	t.Helper()

	user, token := CreateTestUser(t, env)
	user.IsAdmin = true
	if err := env.DB.Model(user).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote test user: %v", err)
	}
	return user, token
}

// PerformRequest makes an HTTP request against the test router. An empty token
// sends the request anonymously.
func PerformRequest(env *TestEnv, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	env.Router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded JSON response body.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

// createRecipe creates a published recipe through the API and returns its slug.
func createRecipe(t *testing.T, env *TestEnv, token, title string) string {
	t.Helper()

	w := PerformRequest(env, http.MethodPost, "/api/v1/recipes", token, api.CreateRecipeRequest{
		Title:      title,
		Status:     models.StatusPublished,
		FinalImage: "https://example.com/final.jpg",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create recipe: status %d body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	recipe, ok := body["recipe"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing recipe in response: %s", w.Body.String())
	}
	return recipe["slug"].(string)
}
