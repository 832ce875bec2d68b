package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := doJSON(router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecipeCreateRequiresAuth(t *testing.T) {
	router, db := setupTestRouter(t)
	tag, flour, _ := seedCatalog(t, db)

	w := doJSON(router, http.MethodPost, recipePath(""), "",
		recipeBody("Bread", tag, ingredientLine(flour, 100)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeLifecycle(t *testing.T) {
	router, db := setupTestRouter(t)
	tag, flour, egg := seedCatalog(t, db)
	owner := registerUser(t, router, "owner")
	other := registerUser(t, router, "other")

	w := doJSON(router, http.MethodPost, recipePath(""), owner,
		recipeBody("Pancakes", tag, ingredientLine(flour, 200), ingredientLine(egg, 2)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Anonymous read works.
	w = doJSON(router, http.MethodGet, recipePath("/%s", created.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Listing includes the recipe.
	w = doJSON(router, http.MethodGet, recipePath(""), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.EqualValues(t, 1, listing.Count)

	// Only the author may update or delete.
	w = doJSON(router, http.MethodPatch, recipePath("/%s", created.ID), other,
		recipeBody("Stolen", tag, ingredientLine(flour, 1)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodDelete, recipePath("/%s", created.ID), other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodPatch, recipePath("/%s", created.ID), owner,
		recipeBody("Crepes", tag, ingredientLine(flour, 150), ingredientLine(egg, 3)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodDelete, recipePath("/%s", created.ID), owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, recipePath("/%s", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeCreateDuplicateIngredient(t *testing.T) {
	router, db := setupTestRouter(t)
	tag, flour, _ := seedCatalog(t, db)
	owner := registerUser(t, router, "owner")

	w := doJSON(router, http.MethodPost, recipePath(""), owner,
		recipeBody("Broken", tag, ingredientLine(flour, 100), ingredientLine(flour, 200)))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	router, db := setupTestRouter(t)
	tag, flour, _ := seedCatalog(t, db)
	owner := registerUser(t, router, "owner")
	fan := registerUser(t, router, "fan")

	w := doJSON(router, http.MethodPost, recipePath(""), owner,
		recipeBody("Bread", tag, ingredientLine(flour, 100)))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodPost, recipePath("/%s/favorite", created.ID), fan, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, http.MethodPost, recipePath("/%s/favorite", created.ID), fan, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The annotation follows the viewer.
	w = doJSON(router, http.MethodGet, recipePath("/%s", created.ID), fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		IsFavorited bool `json:"is_favorited"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.True(t, view.IsFavorited)

	w = doJSON(router, http.MethodDelete, recipePath("/%s/favorite", created.ID), fan, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(router, http.MethodDelete, recipePath("/%s/favorite", created.ID), fan, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoppingCartDownload(t *testing.T) {
	router, db := setupTestRouter(t)
	tag, flour, egg := seedCatalog(t, db)
	owner := registerUser(t, router, "owner")

	w := doJSON(router, http.MethodPost, recipePath(""), owner,
		recipeBody("Pancakes", tag, ingredientLine(flour, 200), ingredientLine(egg, 2)))
	require.Equal(t, http.StatusCreated, w.Code)
	var pancakes struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pancakes))

	w = doJSON(router, http.MethodPost, recipePath(""), owner,
		recipeBody("Bread", tag, ingredientLine(flour, 100)))
	require.Equal(t, http.StatusCreated, w.Code)
	var bread struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bread))

	w = doJSON(router, http.MethodPost, recipePath("/%s/shopping_cart", pancakes.ID), owner, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, http.MethodPost, recipePath("/%s/shopping_cart", bread.ID), owner, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, recipePath("/download_shopping_cart?format=txt"), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.txt")
	assert.Contains(t, w.Body.String(), "flour - 300 g")
	assert.Contains(t, w.Body.String(), "egg - 2 pcs")

	w = doJSON(router, http.MethodGet, recipePath("/download_shopping_cart"), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, len(w.Body.Bytes()) > 4 && string(w.Body.Bytes()[:4]) == "%PDF")
}

func TestTagAndIngredientEndpoints(t *testing.T) {
	router, db := setupTestRouter(t)
	seedCatalog(t, db)

	w := doJSON(router, http.MethodGet, "/api/v1/tags", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/ingredients?search=flo", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "flour", ingredients[0].Name)
}
