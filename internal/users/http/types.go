package http

import (
	"github.com/cookbook-app/cookbook-backend/internal/api/http/sse"
	"github.com/cookbook-app/cookbook-backend/internal/users/service"
)

type Handler struct {
	userService *service.UserService
	feeds       sse.Registry
}

func New(userService *service.UserService, feeds sse.Registry) *Handler {
	return &Handler{
		userService: userService,
		feeds:       feeds,
	}
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

type favoriteResponse struct {
	RecipeID string `json:"recipe_id"`
	Favorite bool   `json:"favorite"`
}
