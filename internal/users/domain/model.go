package domain

import (
	"slices"

	"github.com/cookbook-app/cookbook-backend/internal/docmap"
)

// User is the profile document stored under users/{uid}.
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Favorites []string `json:"favorites"`
}

func NewUser(id, name, email string) User {
	return User{
		ID:        id,
		Name:      name,
		Email:     email,
		Favorites: []string{},
	}
}

func (u User) IsFavorite(recipeID string) bool {
	return slices.Contains(u.Favorites, recipeID)
}

const (
	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldFavorites = "favorites"
)

func (u User) ToMap() map[string]interface{} {
	return map[string]interface{}{
		FieldID:        u.ID,
		FieldName:      u.Name,
		FieldEmail:     u.Email,
		FieldFavorites: docmap.Copy(u.Favorites),
	}
}

func UserFromMap(docID string, m map[string]interface{}) User {
	return User{
		ID:        docmap.String(m, FieldID, docID),
		Name:      docmap.String(m, FieldName, ""),
		Email:     docmap.String(m, FieldEmail, ""),
		Favorites: docmap.StringList(m, FieldFavorites),
	}
}
