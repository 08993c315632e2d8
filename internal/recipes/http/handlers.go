package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cookbook-app/cookbook-backend/internal/api/http/sse"
	"github.com/cookbook-app/cookbook-backend/internal/auth"
	"github.com/cookbook-app/cookbook-backend/internal/recipes/domain"
	"github.com/cookbook-app/cookbook-backend/internal/state"
	"github.com/cookbook-app/cookbook-backend/internal/storage/images"
)

// List serves the feed: ?q= searches, ?mine=true lists the caller's recipes,
// ?category= filters by category, otherwise everything newest first.
func (h *Handler) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	query, hasQuery := c.GetQuery("q")
	category := strings.TrimSpace(c.Query("category"))
	mine := c.Query("mine") == "true"

	res := state.Do(c.Request.Context(), func(ctx context.Context) ([]domain.Recipe, error) {
		switch {
		case hasQuery:
			return h.recipeService.Search(ctx, query)
		case mine:
			return h.recipeService.ListByCreator(ctx, uid)
		case category != "":
			return h.recipeService.ListByCategory(ctx, category)
		default:
			return h.recipeService.List(ctx)
		}
	})
	writeResult(c, http.StatusOK, res)
}

// Stream pushes the category feed (all recipes without ?category=) on every change
func (h *Handler) Stream(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	category := c.Query("category")

	sse.Live(c, h.feeds, uid, sse.ScreenID(c, "home"), func(ctx context.Context) <-chan state.Result[[]domain.Recipe] {
		return h.recipeService.WatchCategory(ctx, category)
	})
}

// Batch resolves a list of recipe ids
func (h *Handler) Batch(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) ([]domain.Recipe, error) {
		return h.recipeService.GetByIDs(ctx, req.IDs)
	})
	writeResult(c, http.StatusOK, res)
}

func (h *Handler) Get(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id := c.Param("id")

	res := state.Do(c.Request.Context(), func(ctx context.Context) (*domain.Recipe, error) {
		return h.recipeService.Get(ctx, id)
	})
	writeResult(c, http.StatusOK, res)
}

// Create stores a recipe owned by the caller
func (h *Handler) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	var draft domain.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) (*domain.Recipe, error) {
		return h.recipeService.Create(ctx, uid, draft)
	})
	writeResult(c, http.StatusCreated, res)
}

func (h *Handler) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var draft domain.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) (*domain.Recipe, error) {
		return h.recipeService.Update(ctx, uid, id, draft)
	})
	writeResult(c, http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id := c.Param("id")

	res := state.Do(c.Request.Context(), func(ctx context.Context) (string, error) {
		return id, h.recipeService.Delete(ctx, uid, id)
	})
	writeResult(c, http.StatusOK, res)
}

// UploadImage replaces the recipe image with the multipart "image" file
func (h *Handler) UploadImage(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id := c.Param("id")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) (*domain.Recipe, error) {
		return h.recipeService.SetImage(ctx, uid, id, data)
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
	case errors.Is(res.Err, domain.ErrRecipeNotFound):
		status = http.StatusNotFound
	case errors.Is(res.Err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(res.Err, domain.ErrNameRequired),
		errors.Is(res.Err, domain.ErrNoImage),
		errors.Is(res.Err, images.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(res.Err, images.ErrImageTooLarge):
		status = http.StatusRequestEntityTooLarge
	}
	c.JSON(status, res)
}
