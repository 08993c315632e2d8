package http

import (
	"github.com/cookbook-app/cookbook-backend/internal/api/http/sse"
	"github.com/cookbook-app/cookbook-backend/internal/recipes/service"
)

const maxImageBytes = 10 << 20

type Handler struct {
	recipeService *service.RecipeService
	feeds         sse.Registry
}

func New(recipeService *service.RecipeService, feeds sse.Registry) *Handler {
	return &Handler{
		recipeService: recipeService,
		feeds:         feeds,
	}
}

type batchRequest struct {
	IDs []string `json:"ids"`
}
