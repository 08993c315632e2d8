package domain

import (
	"strings"
	"time"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Recipe mirrors one document of the recipes collection.
type Recipe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	CookingTime string   `json:"cooking_time"` // free text, e.g. "30 min"
	Difficulty  string   `json:"difficulty"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	ImageURL    string   `json:"image_url"`
	CreatedBy   string   `json:"created_by"`
	CreatedAt   int64    `json:"created_at"` // unix millis
}

// NewRecipe returns a recipe with non-nil lists and the default difficulty.
func NewRecipe() Recipe {
	return Recipe{
		Difficulty:  DifficultyEasy,
		Ingredients: []string{},
		Steps:       []string{},
	}
}

// Draft is the user-editable part of a recipe.
type Draft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	CookingTime string   `json:"cooking_time"`
	Difficulty  string   `json:"difficulty"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// Validate checks the only client-side invariant: a non-blank name.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Apply copies the draft onto r, keeping identity, ownership and image.
func (d Draft) Apply(r *Recipe) {
	r.Name = strings.TrimSpace(d.Name)
	r.Description = d.Description
	r.Category = d.Category
	r.CookingTime = d.CookingTime
	if d.Difficulty != "" {
		r.Difficulty = d.Difficulty
	}
	r.Ingredients = nonBlank(d.Ingredients)
	r.Steps = nonBlank(d.Steps)
}

func CreatedAtNow() int64 {
	return time.Now().UnixMilli()
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// ListFilter narrows list queries. Empty fields do not filter.
type ListFilter struct {
	Category  string
	CreatedBy string
}

// ShoppingItem is declared for the shopping list; no operation serves it yet.
type ShoppingItem struct {
	ID         string `json:"id"`
	Ingredient string `json:"ingredient"`
	Checked    bool   `json:"checked"`
	RecipeID   string `json:"recipe_id,omitempty"`
}
