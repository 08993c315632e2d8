package service

import (
	"context"
	"strings"
	"unicode/utf8"

	recipedomain "github.com/cookbook-app/cookbook-backend/internal/recipes/domain"
	"github.com/cookbook-app/cookbook-backend/internal/state"
	"github.com/cookbook-app/cookbook-backend/internal/users/domain"
)

// MinNameLength is the shortest display name accepted on sign-up and profile edits.
const MinNameLength = 2

type Repository interface {
	Get(ctx context.Context, uid string) (*domain.User, error)
	Create(ctx context.Context, user domain.User) error
	UpdateName(ctx context.Context, uid, name string) error
	AddFavorite(ctx context.Context, uid, recipeID string) error
	RemoveFavorite(ctx context.Context, uid, recipeID string) error
	ToggleFavorite(ctx context.Context, uid, recipeID string) (bool, error)
	Watch(ctx context.Context, uid string) (func() (domain.User, error), func())
}

// RecipeFetcher resolves favorite ids into recipes.
type RecipeFetcher interface {
	GetByIDs(ctx context.Context, ids []string) ([]recipedomain.Recipe, error)
}

// UserService handles profiles and favorites. Every method acts on the
// caller's own profile; handlers pass the authenticated uid.
type UserService struct {
	repo    Repository
	recipes RecipeFetcher
}

func NewUserService(repo Repository, recipes RecipeFetcher) *UserService {
	return &UserService{
		repo:    repo,
		recipes: recipes,
	}
}

// GetProfile retrieves the profile of uid
func (s *UserService) GetProfile(ctx context.Context, uid string) (*domain.User, error) {
	return s.repo.Get(ctx, uid)
}

// CreateProfile writes the profile created at sign-up
func (s *UserService) CreateProfile(ctx context.Context, uid, name, email string) (*domain.User, error) {
	user := domain.NewUser(uid, strings.TrimSpace(name), email)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile renames the caller
func (s *UserService) UpdateProfile(ctx context.Context, uid, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinNameLength {
		return nil, domain.ErrNameTooShort
	}

	if err := s.repo.UpdateName(ctx, uid, name); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, uid)
}

func (s *UserService) IsFavorite(ctx context.Context, uid, recipeID string) (bool, error) {
	user, err := s.repo.Get(ctx, uid)
	if err != nil {
		return false, err
	}
	return user.IsFavorite(recipeID), nil
}

// SetFavorite marks or unmarks recipeID. Both directions are idempotent.
func (s *UserService) SetFavorite(ctx context.Context, uid, recipeID string, favorite bool) error {
	if strings.TrimSpace(recipeID) == "" {
		return domain.ErrRecipeRequired
	}
	if favorite {
		return s.repo.AddFavorite(ctx, uid, recipeID)
	}
	return s.repo.RemoveFavorite(ctx, uid, recipeID)
}

// ToggleFavorite flips the favorite flag and returns the new value. The
// read and the write happen atomically in the repository.
func (s *UserService) ToggleFavorite(ctx context.Context, uid, recipeID string) (bool, error) {
	if strings.TrimSpace(recipeID) == "" {
		return false, domain.ErrRecipeRequired
	}
	return s.repo.ToggleFavorite(ctx, uid, recipeID)
}

// Favorites returns the caller's favorite recipes (order unspecified).
func (s *UserService) Favorites(ctx context.Context, uid string) ([]recipedomain.Recipe, error) {
	user, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.recipes.GetByIDs(ctx, user.Favorites)
}

// WatchFavorites emits the favorite recipes every time the profile changes,
// until ctx ends.
func (s *UserService) WatchFavorites(ctx context.Context, uid string) <-chan state.Result[[]recipedomain.Recipe] {
	nextUser, stop := s.repo.Watch(ctx, uid)

	next := func() ([]recipedomain.Recipe, error) {
		user, err := nextUser()
		if err != nil {
			return nil, err
		}
		return s.recipes.GetByIDs(ctx, user.Favorites)
	}

	return state.Stream(ctx, next, stop)
}
