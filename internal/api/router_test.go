package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

// setupTestRouter builds the full route tree against an in-memory database,
// without rate limiting or image storage.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-jwt-secret")

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/health", HealthCheck)
	NewAuthHandler(auth).RegisterRoutes(v1)
	NewRecipeHandler(
		service.NewRecipeService(db),
		service.NewCartService(db),
		service.NewImageService(nil),
	).RegisterRoutes(v1, auth, nil)
	NewCatalogHandler(service.NewCatalogService(db)).RegisterRoutes(v1)
	NewUserHandler(service.NewSubscriptionService(db)).RegisterRoutes(v1, auth)

	return router, db
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func seedCatalog(t *testing.T, db *gorm.DB) (models.Tag, models.Ingredient, models.Ingredient) {
	t.Helper()
	tag := models.Tag{Name: "dinner", Color: "#49B64E", Slug: "dinner"}
	require.NoError(t, db.Create(&tag).Error)
	flour := models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&flour).Error)
	egg := models.Ingredient{Name: "egg", MeasurementUnit: "pcs"}
	require.NoError(t, db.Create(&egg).Error)
	return tag, flour, egg
}

func recipeBody(name string, tag models.Tag, ingredients ...gin.H) gin.H {
	return gin.H{
		"name":         name,
		"text":         "Mix everything and cook.",
		"cooking_time": 30,
		"tags":         []string{tag.ID.String()},
		"ingredients":  ingredients,
	}
}

func ingredientLine(ingredient models.Ingredient, amount int) gin.H {
	return gin.H{"id": ingredient.ID.String(), "amount": amount}
}

func recipePath(format string, args ...interface{}) string {
	return fmt.Sprintf("/api/v1/recipes"+format, args...)
}
