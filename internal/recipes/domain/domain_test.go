package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeMapRoundTrip(t *testing.T) {
	full := Recipe{
		ID:          "r1",
		Name:        "Shakshuka",
		Description: "Eggs poached in tomato sauce",
		Category:    "Breakfast",
		CookingTime: "25 min",
		Difficulty:  DifficultyMedium,
		Ingredients: []string{"eggs", "tomatoes", "onion"},
		Steps:       []string{"saute onion", "add tomatoes", "poach eggs"},
		ImageURL:    "https://storage.googleapis.com/b/recipe_images/u1/r1.jpg",
		CreatedBy:   "u1",
		CreatedAt:   1718000000123,
	}

	empty := Recipe{Ingredients: []string{}, Steps: []string{}}

	for name, r := range map[string]Recipe{"full": full, "empty values": empty, "constructor": NewRecipe()} {
		t.Run(name, func(t *testing.T) {
			got := RecipeFromMap("ignored", r.ToMap())
			assert.Equal(t, r, got)
		})
	}
}

func TestRecipeFromMapDefaults(t *testing.T) {
	created := time.UnixMilli(1718000000000)

	got := RecipeFromMap("doc-7", map[string]interface{}{
		FieldName:        "Pancakes",
		FieldIngredients: []interface{}{"flour", 3, "milk"},
		FieldCreatedAt:   created,
		FieldCategory:    42,
	})

	assert.Equal(t, "doc-7", got.ID)
	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, "", got.Category)
	assert.Equal(t, DifficultyEasy, got.Difficulty)
	assert.Equal(t, []string{"flour", "milk"}, got.Ingredients)
	assert.NotNil(t, got.Steps)
	assert.Empty(t, got.Steps)
	assert.Equal(t, created.UnixMilli(), got.CreatedAt)
}

func TestShoppingItemMapRoundTrip(t *testing.T) {
	items := []ShoppingItem{
		{ID: "s1", Ingredient: "2 eggs", Checked: true, RecipeID: "r1"},
		{ID: "s2", Ingredient: "salt"},
		{},
	}
	for _, item := range items {
		got := ShoppingItemFromMap("", item.ToMap())
		assert.Equal(t, item, got)
	}

	_, linked := items[1].ToMap()[fieldShoppingRecipeID]
	assert.False(t, linked)
}

func TestEditableFields(t *testing.T) {
	r := Recipe{ID: "r1", Name: "Soup", ImageURL: "https://img", CreatedBy: "u1", CreatedAt: 10}
	fields := r.EditableFields()

	assert.Equal(t, "Soup", fields[FieldName])
	for _, key := range []string{FieldID, FieldImageURL, FieldCreatedBy, FieldCreatedAt} {
		assert.NotContains(t, fields, key)
	}
	for key := range fields {
		assert.Contains(t, r.ToMap(), key)
	}
}

func TestDraft(t *testing.T) {
	assert.ErrorIs(t, Draft{Name: "   "}.Validate(), ErrNameRequired)
	require.NoError(t, Draft{Name: "Soup"}.Validate())

	r := NewRecipe()
	r.ID, r.CreatedBy, r.ImageURL, r.CreatedAt = "r1", "u1", "https://img", 10

	Draft{
		Name:        "  Soup ",
		Ingredients: []string{"water", " ", "salt"},
		Steps:       nil,
	}.Apply(&r)

	assert.Equal(t, "Soup", r.Name)
	assert.Equal(t, DifficultyEasy, r.Difficulty)
	assert.Equal(t, []string{"water", "salt"}, r.Ingredients)
	assert.Equal(t, []string{}, r.Steps)
	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, "u1", r.CreatedBy)
	assert.Equal(t, "https://img", r.ImageURL)
	assert.Equal(t, int64(10), r.CreatedAt)
}

func TestFilter(t *testing.T) {
	recipes := []Recipe{
		{ID: "1", Name: "Tomato Soup", Description: "warm"},
		{ID: "2", Name: "Pasta", Description: "with TOMATO sauce"},
		{ID: "3", Name: "Salad", Description: "green"},
	}

	ids := func(rs []Recipe) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2"}, ids(Filter(recipes, "tomato")))
	assert.Equal(t, []string{"1", "2"}, ids(Filter(recipes, "  ToMaTo ")))
	assert.Equal(t, []string{"3"}, ids(Filter(recipes, "GREEN")))
	assert.Empty(t, Filter(recipes, "curry"))
	assert.Equal(t, recipes, Filter(recipes, ""))
	assert.Equal(t, recipes, Filter(recipes, "   "))
}

func TestChunk(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 20, 25} {
		t.Run(fmt.Sprintf("%d ids", n), func(t *testing.T) {
			ids := make([]string, n)
			for i := range ids {
				ids[i] = fmt.Sprintf("r%02d", i)
			}

			chunks := Chunk(ids, MaxInQuery)
			assert.Len(t, chunks, (n+MaxInQuery-1)/MaxInQuery)

			var flat []string
			for _, c := range chunks {
				assert.LessOrEqual(t, len(c), MaxInQuery)
				flat = append(flat, c...)
			}
			assert.ElementsMatch(t, ids, flat)
		})
	}

	t.Run("drops blanks and duplicates", func(t *testing.T) {
		chunks := Chunk([]string{"a", "", "b", "a", "  "}, MaxInQuery)
		assert.Equal(t, [][]string{{"a", "b"}}, chunks)
	})
}
