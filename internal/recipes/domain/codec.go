package domain

import "github.com/cookbook-app/cookbook-backend/internal/docmap"

// Field names of the recipes collection.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldCookingTime = "cookingTime"
	FieldDifficulty  = "difficulty"
	FieldIngredients = "ingredients"
	FieldSteps       = "steps"
	FieldImageURL    = "imageUrl"
	FieldCreatedBy   = "createdBy"
	FieldCreatedAt   = "createdAt"
)

func (r Recipe) ToMap() map[string]interface{} {
	return map[string]interface{}{
		FieldID:          r.ID,
		FieldName:        r.Name,
		FieldDescription: r.Description,
		FieldCategory:    r.Category,
		FieldCookingTime: r.CookingTime,
		FieldDifficulty:  r.Difficulty,
		FieldIngredients: docmap.Copy(r.Ingredients),
		FieldSteps:       docmap.Copy(r.Steps),
		FieldImageURL:    r.ImageURL,
		FieldCreatedBy:   r.CreatedBy,
		FieldCreatedAt:   r.CreatedAt,
	}
}

// EditableFields is the subset of ToMap a draft may change. Updates write
// only these keys so a concurrent image upload or the ownership fields are
// never overwritten.
func (r Recipe) EditableFields() map[string]interface{} {
	return map[string]interface{}{
		FieldName:        r.Name,
		FieldDescription: r.Description,
		FieldCategory:    r.Category,
		FieldCookingTime: r.CookingTime,
		FieldDifficulty:  r.Difficulty,
		FieldIngredients: docmap.Copy(r.Ingredients),
		FieldSteps:       docmap.Copy(r.Steps),
	}
}

// RecipeFromMap decodes a document. Missing or mistyped fields take their
// defaults; id falls back to docID when the document has no id field.
func RecipeFromMap(docID string, m map[string]interface{}) Recipe {
	r := NewRecipe()
	r.ID = docmap.String(m, FieldID, docID)
	r.Name = docmap.String(m, FieldName, "")
	r.Description = docmap.String(m, FieldDescription, "")
	r.Category = docmap.String(m, FieldCategory, "")
	r.CookingTime = docmap.String(m, FieldCookingTime, "")
	r.Difficulty = docmap.String(m, FieldDifficulty, DifficultyEasy)
	r.Ingredients = docmap.StringList(m, FieldIngredients)
	r.Steps = docmap.StringList(m, FieldSteps)
	r.ImageURL = docmap.String(m, FieldImageURL, "")
	r.CreatedBy = docmap.String(m, FieldCreatedBy, "")
	r.CreatedAt = docmap.Millis(m, FieldCreatedAt)
	return r
}

const (
	fieldShoppingIngredient = "ingredient"
	fieldShoppingChecked    = "checked"
	fieldShoppingRecipeID   = "recipeId"
)

func (s ShoppingItem) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		FieldID:                 s.ID,
		fieldShoppingIngredient: s.Ingredient,
		fieldShoppingChecked:    s.Checked,
	}
	if s.RecipeID != "" {
		m[fieldShoppingRecipeID] = s.RecipeID
	}
	return m
}

func ShoppingItemFromMap(docID string, m map[string]interface{}) ShoppingItem {
	return ShoppingItem{
		ID:         docmap.String(m, FieldID, docID),
		Ingredient: docmap.String(m, fieldShoppingIngredient, ""),
		Checked:    docmap.Bool(m, fieldShoppingChecked),
		RecipeID:   docmap.String(m, fieldShoppingRecipeID, ""),
	}
}
