package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// RecipeService handles recipe authoring, listing and favorites.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeFilter narrows a recipe listing. Favorited/InCart restrict to the
// viewer's favorites/cart when true; false means no restriction, it is not a
// negative filter.
type RecipeFilter struct {
	Author    *uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
	Page      int
	Limit     int
}

// Create inserts a recipe with its full tag and ingredient sets in one
// transaction. Duplicate ingredient ids in the input are rejected before any
// row is written.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req types.RecipeWriteRequest) (*types.RecipeView, error) {
	if err := validateIngredientList(req.Ingredients); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := verifyReferences(tx, req); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return insertAssociations(tx, recipe.ID, req)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &authorID)
}

// Update replaces the recipe's tag and ingredient sets wholesale and saves
// scalar fields, all inside one transaction. Author-only.
func (s *RecipeService) Update(ctx context.Context, recipeID, userID uuid.UUID, req types.RecipeWriteRequest) (*types.RecipeView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrNotOwner
	}
	if err := validateIngredientList(req.Ingredients); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := verifyReferences(tx, req); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := insertAssociations(tx, recipeID, req); err != nil {
			return err
		}
		return tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(map[string]interface{}{
			"name":         req.Name,
			"image":        req.Image,
			"text":         req.Text,
			"cooking_time": req.CookingTime,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID, &userID)
}

// Get retrieves a recipe as a fully-formed aggregate.
func (s *RecipeService) Get(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*types.RecipeView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	views, err := buildRecipeViews(s.db.WithContext(ctx), []models.Recipe{recipe}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete removes a recipe and its association rows. Author-only.
func (s *RecipeService) Delete(ctx context.Context, recipeID, userID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != userID {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, assoc := range []interface{}{
			&models.RecipeTag{}, &models.RecipeIngredient{}, &models.Favorite{}, &models.CartItem{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(assoc).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
}

// List returns filtered recipes, newest first, with the total match count.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter, viewer *uuid.UUID) ([]types.RecipeView, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.Author != nil {
		query = query.Where("author_id = ?", *filter.Author)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.Favorited && viewer != nil {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("favorites").Select("recipe_id").Where("user_id = ?", *viewer))
	}
	if filter.InCart && viewer != nil {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("cart_items").Select("recipe_id").Where("user_id = ?", *viewer))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	views, err := buildRecipeViews(s.db.WithContext(ctx), recipes, viewer)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Favorite marks a recipe as a favorite of the user.
func (s *RecipeService) Favorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if err := s.ensureRecipeExists(ctx, recipeID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Create(&models.Favorite{UserID: userID, RecipeID: recipeID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

// Unfavorite removes the favorite row; ErrNotFound when it was absent.
func (s *RecipeService) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RecipeService) ensureRecipeExists(ctx context.Context, recipeID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// validateIngredientList rejects duplicate ingredient ids before any write.
func validateIngredientList(ingredients []types.IngredientAmount) error {
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	for _, item := range ingredients {
		if _, ok := seen[item.ID]; ok {
			return ErrDuplicateIngredient
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// verifyReferences checks every referenced tag and ingredient id exists.
func verifyReferences(tx *gorm.DB, req types.RecipeWriteRequest) error {
	if len(req.Tags) > 0 {
		var count int64
		if err := tx.Model(&models.Tag{}).Where("id IN ?", req.Tags).Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(req.Tags)) {
			return ErrNotFound
		}
	}

	ids := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ids = append(ids, item.ID)
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrNotFound
	}
	return nil
}

func insertAssociations(tx *gorm.DB, recipeID uuid.UUID, req types.RecipeWriteRequest) error {
	for _, tagID := range req.Tags {
		if err := tx.Create(&models.RecipeTag{RecipeID: recipeID, TagID: tagID}).Error; err != nil {
			return err
		}
	}
	for _, item := range req.Ingredients {
		err := tx.Create(&models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Unreachable for a validated input; covers concurrent writers.
			return ErrDuplicateIngredient
		}
		if err != nil {
			return err
		}
	}
	return nil
}
