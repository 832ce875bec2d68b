package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// buildRecipeViews assembles fully-formed recipe aggregates with a fixed
// number of queries, keyed to the viewer for the boolean annotations. No
// per-row lazy loading.
func buildRecipeViews(db *gorm.DB, recipes []models.Recipe, viewer *uuid.UUID) ([]types.RecipeView, error) {
	views := make([]types.RecipeView, 0, len(recipes))
	if len(recipes) == 0 {
		return views, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	var authors []models.User
	if err := db.Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	authorByID := make(map[uuid.UUID]models.User, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}

	type ingredientRow struct {
		RecipeID        uuid.UUID
		IngredientID    uuid.UUID
		Name            string
		MeasurementUnit string
		Amount          int
	}
	var ingredientRows []ingredientRow
	if err := db.Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, recipe_ingredients.ingredient_id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", recipeIDs).
		Order("ingredients.name").
		Scan(&ingredientRows).Error; err != nil {
		return nil, err
	}
	ingredientsByRecipe := make(map[uuid.UUID][]types.RecipeIngredientView)
	for _, row := range ingredientRows {
		ingredientsByRecipe[row.RecipeID] = append(ingredientsByRecipe[row.RecipeID], types.RecipeIngredientView{
			ID:              row.IngredientID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	type tagRow struct {
		RecipeID uuid.UUID
		ID       uuid.UUID
		Name     string
		Color    string
		Slug     string
	}
	var tagRows []tagRow
	if err := db.Table("recipe_tags").
		Select("recipe_tags.recipe_id, tags.id, tags.name, tags.color, tags.slug").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", recipeIDs).
		Order("tags.name").
		Scan(&tagRows).Error; err != nil {
		return nil, err
	}
	tagsByRecipe := make(map[uuid.UUID][]models.Tag)
	for _, row := range tagRows {
		tagsByRecipe[row.RecipeID] = append(tagsByRecipe[row.RecipeID], models.Tag{
			ID:    row.ID,
			Name:  row.Name,
			Color: row.Color,
			Slug:  row.Slug,
		})
	}

	favorited := make(map[uuid.UUID]bool)
	inCart := make(map[uuid.UUID]bool)
	subscribed := make(map[uuid.UUID]bool)
	if viewer != nil {
		var favs []models.Favorite
		if err := db.Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).Find(&favs).Error; err != nil {
			return nil, err
		}
		for _, f := range favs {
			favorited[f.RecipeID] = true
		}

		var items []models.CartItem
		if err := db.Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).Find(&items).Error; err != nil {
			return nil, err
		}
		for _, item := range items {
			inCart[item.RecipeID] = true
		}

		var err error
		subscribed, err = subscribedAuthors(db, *viewer, authorIDs)
		if err != nil {
			return nil, err
		}
	}

	for _, r := range recipes {
		author := authorByID[r.AuthorID]
		ingredients := ingredientsByRecipe[r.ID]
		if ingredients == nil {
			ingredients = []types.RecipeIngredientView{}
		}
		tags := tagsByRecipe[r.ID]
		if tags == nil {
			tags = []models.Tag{}
		}
		views = append(views, types.RecipeView{
			ID:               r.ID,
			Author:           userView(author, subscribed[author.ID]),
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			Ingredients:      ingredients,
			Tags:             tags,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		})
	}
	return views, nil
}

// subscribedAuthors reports which of the given authors the viewer follows.
func subscribedAuthors(db *gorm.DB, viewer uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool)
	if len(authorIDs) == 0 {
		return result, nil
	}
	var follows []models.Follow
	if err := db.Where("follower_id = ? AND author_id IN ?", viewer, authorIDs).Find(&follows).Error; err != nil {
		return nil, err
	}
	for _, f := range follows {
		result[f.AuthorID] = true
	}
	return result, nil
}

func userView(user models.User, isSubscribed bool) types.UserView {
	return types.UserView{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}
