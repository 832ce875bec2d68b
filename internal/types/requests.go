package types

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=200"`
	FirstName string `json:"first_name" binding:"required,max=200"`
	LastName  string `json:"last_name" binding:"required,max=200"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientAmount is one (ingredient id, amount) pair in a recipe write.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required,min=1"`
}

// RecipeWriteRequest represents the request body for creating or updating a
// recipe. Updates replace the tag and ingredient sets wholesale.
type RecipeWriteRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Image       string             `json:"image"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"required,min=1"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,min=1,dive"`
}
