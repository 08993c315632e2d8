package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookbook-app/cookbook-backend/internal/api/http/sse"
	"github.com/cookbook-app/cookbook-backend/internal/auth"
	recipedomain "github.com/cookbook-app/cookbook-backend/internal/recipes/domain"
	"github.com/cookbook-app/cookbook-backend/internal/state"
	"github.com/cookbook-app/cookbook-backend/internal/users/domain"
)

// GetProfile returns the caller's profile
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) (*domain.User, error) {
		return h.userService.GetProfile(ctx, uid)
	})
	writeResult(c, http.StatusOK, res)
}

// UpdateProfile renames the caller
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) (*domain.User, error) {
		return h.userService.UpdateProfile(ctx, uid, req.Name)
	})
	writeResult(c, http.StatusOK, res)
}

// ListFavorites resolves the caller's favorites into recipes
func (h *Handler) ListFavorites(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) ([]recipedomain.Recipe, error) {
		return h.userService.Favorites(ctx, uid)
	})
	writeResult(c, http.StatusOK, res)
}

// StreamFavorites pushes the favorite recipes every time the profile changes
func (h *Handler) StreamFavorites(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	sse.Live(c, h.feeds, uid, sse.ScreenID(c, "favorites"), func(ctx context.Context) <-chan state.Result[[]recipedomain.Recipe] {
		return h.userService.WatchFavorites(ctx, uid)
	})
}

func (h *Handler) IsFavorite(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID := c.Param("recipeId")

	res := state.Do(c.Request.Context(), func(ctx context.Context) (favoriteResponse, error) {
		fav, err := h.userService.IsFavorite(ctx, uid, recipeID)
		return favoriteResponse{RecipeID: recipeID, Favorite: fav}, err
	})
	writeResult(c, http.StatusOK, res)
}

func (h *Handler) AddFavorite(c *gin.Context) {
	h.setFavorite(c, true)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.setFavorite(c, false)
}

func (h *Handler) setFavorite(c *gin.Context, favorite bool) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID := c.Param("recipeId")

	res := state.Do(c.Request.Context(), func(ctx context.Context) (favoriteResponse, error) {
		err := h.userService.SetFavorite(ctx, uid, recipeID, favorite)
		return favoriteResponse{RecipeID: recipeID, Favorite: favorite}, err
	})
	writeResult(c, http.StatusOK, res)
}

// ToggleFavorite flips the favorite flag and returns the new value
func (h *Handler) ToggleFavorite(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID := c.Param("recipeId")

	res := state.Do(c.Request.Context(), func(ctx context.Context) (favoriteResponse, error) {
		fav, err := h.userService.ToggleFavorite(ctx, uid, recipeID)
		return favoriteResponse{RecipeID: recipeID, Favorite: fav}, err
	})
	writeResult(c, http.StatusOK, res)
}

func requireUser(c *gin.Context) (string, bool) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return uid, true
}

func writeResult[T any](c *gin.Context, okStatus int, res state.Result[T]) {
	if res.Status == state.StatusSuccess {
		c.JSON(okStatus, res)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(res.Err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(res.Err, domain.ErrNameTooShort), errors.Is(res.Err, domain.ErrRecipeRequired):
		status = http.StatusBadRequest
	}
	c.JSON(status, res)
}
