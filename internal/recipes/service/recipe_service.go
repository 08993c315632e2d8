package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cookbook-app/cookbook-backend/internal/recipes/domain"
	"github.com/cookbook-app/cookbook-backend/internal/state"
)

type Repository interface {
	NewID() string
	Get(ctx context.Context, id string) (*domain.Recipe, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Recipe, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Recipe, error)
	Save(ctx context.Context, recipe domain.Recipe) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	SetImageURL(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context, filter domain.ListFilter) (func() ([]domain.Recipe, error), func())
}

// ImageStore is the object storage side of a recipe.
type ImageStore interface {
	UploadRecipeImage(ctx context.Context, uid, recipeID string, data []byte) (string, error)
	DeleteRecipeImage(ctx context.Context, uid, recipeID string)
}

// RecipeService handles recipe reads and writes, enforcing that only the
// creator of a recipe may change it.
type RecipeService struct {
	repo   Repository
	images ImageStore
}

func NewRecipeService(repo Repository, images ImageStore) *RecipeService {
	return &RecipeService{
		repo:   repo,
		images: images,
	}
}

// Get retrieves a recipe by its ID
func (s *RecipeService) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.repo.Get(ctx, id)
}

// List returns every recipe, newest first
func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	return s.repo.List(ctx, domain.ListFilter{})
}

func (s *RecipeService) ListByCategory(ctx context.Context, category string) ([]domain.Recipe, error) {
	return s.repo.List(ctx, domain.ListFilter{Category: category})
}

func (s *RecipeService) ListByCreator(ctx context.Context, uid string) ([]domain.Recipe, error) {
	return s.repo.List(ctx, domain.ListFilter{CreatedBy: uid})
}

// Search fetches the whole collection and filters it in memory. A blank
// query returns the unfiltered feed.
func (s *RecipeService) Search(ctx context.Context, query string) ([]domain.Recipe, error) {
	all, err := s.repo.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}
	return domain.Filter(all, query), nil
}

// GetByIDs resolves ids with one query per chunk of domain.MaxInQuery ids.
// Missing recipes are skipped; result order is unspecified.
func (s *RecipeService) GetByIDs(ctx context.Context, ids []string) ([]domain.Recipe, error) {
	chunks := domain.Chunk(ids, domain.MaxInQuery)
	results := make([][]domain.Recipe, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			recipes, err := s.repo.FindByIDs(gctx, chunk)
			if err != nil {
				return err
			}
			results[i] = recipes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []domain.Recipe{}
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// Create stores a new recipe owned by uid
func (s *RecipeService) Create(ctx context.Context, uid string, draft domain.Draft) (*domain.Recipe, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	recipe := domain.NewRecipe()
	draft.Apply(&recipe)
	recipe.ID = s.repo.NewID()
	recipe.CreatedBy = uid
	recipe.CreatedAt = domain.CreatedAtNow()

	if err := s.repo.Save(ctx, recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Update replaces the editable fields of a recipe owned by uid
func (s *RecipeService) Update(ctx context.Context, uid, id string, draft domain.Draft) (*domain.Recipe, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	recipe, err := s.owned(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	draft.Apply(recipe)
	if err := s.repo.UpdateFields(ctx, id, recipe.EditableFields()); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Delete removes a recipe owned by uid and then its image. Image deletion
// never fails the call.
func (s *RecipeService) Delete(ctx context.Context, uid, id string) error {
	recipe, err := s.owned(ctx, uid, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if recipe.ImageURL != "" {
		s.images.DeleteRecipeImage(ctx, uid, id)
	}
	slog.InfoContext(ctx, "recipe deleted", "recipe_id", id, "uid", uid)
	return nil
}

// SetImage uploads data as the recipe image and stores its URL
func (s *RecipeService) SetImage(ctx context.Context, uid, id string, data []byte) (*domain.Recipe, error) {
	if len(data) == 0 {
		return nil, domain.ErrNoImage
	}

	recipe, err := s.owned(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	url, err := s.images.UploadRecipeImage(ctx, uid, id, data)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetImageURL(ctx, id, url); err != nil {
		return nil, err
	}
	recipe.ImageURL = url
	return recipe, nil
}

// WatchCategory emits the category feed (all recipes for a blank category)
// every time it changes, until ctx ends.
func (s *RecipeService) WatchCategory(ctx context.Context, category string) <-chan state.Result[[]domain.Recipe] {
	next, stop := s.repo.Watch(ctx, domain.ListFilter{Category: strings.TrimSpace(category)})
	return state.Stream(ctx, next, stop)
}

func (s *RecipeService) owned(ctx context.Context, uid, id string) (*domain.Recipe, error) {
	recipe, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.CreatedBy != uid {
		return nil, domain.ErrForbidden
	}
	return recipe, nil
}
