package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/models"
)

// UserView is the public representation of a user, annotated with whether the
// requesting user follows them.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// RecipeIngredientView is one ingredient line of a recipe.
type RecipeIngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeView is a fully-formed recipe aggregate. The boolean annotations are
// computed against the requesting user; false for anonymous requests.
type RecipeView struct {
	ID               uuid.UUID              `json:"id"`
	Author           UserView               `json:"author"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	Tags             []models.Tag           `json:"tags"`
	CookingTime      int                    `json:"cooking_time"`
	CreatedAt        time.Time              `json:"created_at"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
}

// RecipePreview is the short recipe form used in subscription listings.
type RecipePreview struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionView is a followed author with a capped slice of their recipes.
type SubscriptionView struct {
	UserView
	Recipes      []RecipePreview `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}
