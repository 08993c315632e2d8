package domain

import "errors"

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrForbidden      = errors.New("only the creator can modify this recipe")
	ErrNameRequired   = errors.New("recipe name is required")
	ErrNoImage        = errors.New("image is required")
)
