package domain

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrNameTooShort   = errors.New("name must be at least 2 characters")
	ErrRecipeRequired = errors.New("recipe id is required")
)
