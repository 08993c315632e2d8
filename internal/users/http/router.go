package http

import "github.com/gin-gonic/gin"

// Register mounts the profile routes. Every route acts on the caller.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.GetProfile)
	rg.PUT("/me", h.UpdateProfile)

	rg.GET("/me/favorites", h.ListFavorites)
	rg.GET("/me/favorites/stream", h.StreamFavorites)
	rg.GET("/me/favorites/:recipeId", h.IsFavorite)
	rg.PUT("/me/favorites/:recipeId", h.AddFavorite)
	rg.DELETE("/me/favorites/:recipeId", h.RemoveFavorite)
	rg.POST("/me/favorites/:recipeId/toggle", h.ToggleFavorite)
}
