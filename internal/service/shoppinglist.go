package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// ShoppingItem is one aggregated line of the shopping list: the total demand
// for an ingredient in a given measurement unit across the cart.
type ShoppingItem struct {
	Name            string `json:"name"`
	Amount          int    `json:"amount"`
	MeasurementUnit string `json:"measurement_unit"`
}

// CartService handles shopping-cart membership and the shopping-list export.
type CartService struct {
	db *gorm.DB
}

// NewCartService creates a new CartService instance
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Add stages a recipe in the user's cart.
func (s *CartService) Add(ctx context.Context, userID, recipeID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	err := s.db.WithContext(ctx).Create(&models.CartItem{UserID: userID, RecipeID: recipeID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

// Remove takes a recipe out of the user's cart; ErrNotFound when absent.
func (s *CartService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ShoppingList flattens every ingredient line across the user's cart recipes
// and aggregates them. Lines come out in cart insertion order, by ingredient
// name within one recipe, so the aggregated order is stable. An empty cart
// yields an empty list.
func (s *CartService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingItem, error) {
	var rows []ShoppingItem
	if err := s.db.WithContext(ctx).Table("cart_items").
		Select("ingredients.name, recipe_ingredients.amount, ingredients.measurement_unit").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = cart_items.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at").
		Order("ingredients.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return AggregateIngredients(rows), nil
}

// AggregateIngredients groups ingredient demand by (name, unit) and sums the
// amounts within each group. Output order is first-encountered order; the same
// name with a different unit stays a separate line.
func AggregateIngredients(rows []ShoppingItem) []ShoppingItem {
	type key struct {
		name string
		unit string
	}
	index := make(map[key]int, len(rows))
	items := make([]ShoppingItem, 0, len(rows))
	for _, row := range rows {
		k := key{name: row.Name, unit: row.MeasurementUnit}
		if i, ok := index[k]; ok {
			items[i].Amount += row.Amount
			continue
		}
		index[k] = len(items)
		items = append(items, row)
	}
	return items
}

// RenderShoppingListText renders the list as plain text, one line per group.
func RenderShoppingListText(items []ShoppingItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}

// Page layout for the PDF rendering, in points on A4 (595x842).
const (
	pdfLeftMargin   = 40.0
	pdfTitleY       = 152.0
	pdfFirstEntryY  = 192.0
	pdfLineHeight   = 30.0
	pdfPageHeight   = 842.0
	pdfBottomMargin = 100.0
	pdfContinuedY   = 142.0
)

// RenderShoppingListPDF renders the list as a paginated PDF: a title line,
// then numbered entries in 24pt stepping down the page; when the cursor
// passes the bottom margin a fresh page is started and the cursor resets.
// Uses the Helvetica core font, which covers cp1252 (Latin) text only;
// ingredient names beyond that need a font registered via pdf.AddUTF8Font.
func RenderShoppingListPDF(items []ShoppingItem, w io.Writer) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Shopping list", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 50)
	pdf.Text(pdfLeftMargin, pdfTitleY, "Shopping list:")

	pdf.SetFont("Helvetica", "", 24)
	y := pdfFirstEntryY
	for i, item := range items {
		if y > pdfPageHeight-pdfBottomMargin {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 24)
			y = pdfContinuedY
		}
		pdf.Text(pdfLeftMargin, y,
			fmt.Sprintf("%d.  %s - %d %s", i+1, item.Name, item.Amount, item.MeasurementUnit))
		y += pdfLineHeight
	}

	return pdf.Output(w)
}
