package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testhelpers"
	"github.com/platefeed/backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testhelpers.NewTestDB(t)
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()
	// Color is unique per tag, so derive it from the slug.
	sum := fnv.New32a()
	_, _ = sum.Write([]byte(slug))
	tag := models.Tag{
		Name:  name,
		Color: fmt.Sprintf("#%06X", sum.Sum32()&0xFFFFFF),
		Slug:  slug,
	}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

func recipeRequest(name string, tags []uuid.UUID, ingredients ...types.IngredientAmount) types.RecipeWriteRequest {
	return types.RecipeWriteRequest{
		Name:        name,
		Text:        "Mix everything and cook.",
		CookingTime: 30,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func createRecipe(t *testing.T, svc *RecipeService, author uuid.UUID, name string, tags []uuid.UUID, ingredients ...types.IngredientAmount) *types.RecipeView {
	t.Helper()
	view, err := svc.Create(context.Background(), author, recipeRequest(name, tags, ingredients...))
	require.NoError(t, err)
	return view
}
