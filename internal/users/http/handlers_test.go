package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	authctx "github.com/cookbook-app/cookbook-backend/internal/auth"
	recipedomain "github.com/cookbook-app/cookbook-backend/internal/recipes/domain"
	"github.com/cookbook-app/cookbook-backend/internal/users/domain"
	"github.com/cookbook-app/cookbook-backend/internal/users/service"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func (r *memRepo) Get(_ context.Context, uid string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Favorites = slices.Clone(u.Favorites)
	return &u, nil
}

func (r *memRepo) Create(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memRepo) UpdateName(_ context.Context, uid, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[uid]
	u.Name = name
	r.users[uid] = u
	return nil
}

func (r *memRepo) AddFavorite(_ context.Context, uid, recipeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[uid]
	if !slices.Contains(u.Favorites, recipeID) {
		u.Favorites = append(u.Favorites, recipeID)
	}
	r.users[uid] = u
	return nil
}

func (r *memRepo) RemoveFavorite(_ context.Context, uid, recipeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[uid]
	u.Favorites = slices.DeleteFunc(u.Favorites, func(id string) bool { return id == recipeID })
	r.users[uid] = u
	return nil
}

func (r *memRepo) ToggleFavorite(_ context.Context, uid, recipeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	next := !u.IsFavorite(recipeID)
	if next {
		u.Favorites = append(slices.Clone(u.Favorites), recipeID)
	} else {
		u.Favorites = slices.DeleteFunc(slices.Clone(u.Favorites), func(id string) bool { return id == recipeID })
	}
	r.users[uid] = u
	return next, nil
}

func (r *memRepo) Watch(ctx context.Context, _ string) (func() (domain.User, error), func()) {
	return func() (domain.User, error) {
		<-ctx.Done()
		return domain.User{}, ctx.Err()
	}, func() {}
}

type memRecipes struct{}

func (memRecipes) GetByIDs(_ context.Context, ids []string) ([]recipedomain.Recipe, error) {
	out := []recipedomain.Recipe{}
	for _, id := range ids {
		out = append(out, recipedomain.Recipe{ID: id, Name: "Recipe " + id})
	}
	return out, nil
}

func setupRouter(uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := &memRepo{users: map[string]domain.User{
		"u1": domain.NewUser("u1", "Ada", "ada@example.com"),
	}}
	h := New(service.NewUserService(repo, memRecipes{}), nil)

	r := gin.New()
	g := r.Group("/users")
	g.Use(func(c *gin.Context) {
		if uid != "" {
			c.Set(authctx.CtxFirebaseUID, uid)
		}
		c.Next()
	})
	h.Register(g)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProfileHandlers(t *testing.T) {
	r := setupRouter("u1")

	w := do(r, http.MethodGet, "/users/me", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"id":"u1","name":"Ada","email":"ada@example.com","favorites":[]}}`, w.Body.String())

	w = do(r, http.MethodPut, "/users/me", `{"name":"Ada Lovelace"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ada Lovelace"`)

	w = do(r, http.MethodPut, "/users/me", `{"name":"A"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error","error":"name must be at least 2 characters"}`, w.Body.String())
}

func TestProfileHandlers_Unauthenticated(t *testing.T) {
	w := do(setupRouter(""), http.MethodGet, "/users/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileHandlers_UnknownUser(t *testing.T) {
	w := do(setupRouter("ghost"), http.MethodGet, "/users/me", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteHandlers(t *testing.T) {
	r := setupRouter("u1")

	w := do(r, http.MethodPost, "/users/me/favorites/r1/toggle", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"recipe_id":"r1","favorite":true}}`, w.Body.String())

	w = do(r, http.MethodGet, "/users/me/favorites/r1", "")
	assert.JSONEq(t, `{"status":"success","data":{"recipe_id":"r1","favorite":true}}`, w.Body.String())

	w = do(r, http.MethodPut, "/users/me/favorites/r2", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/users/me/favorites", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"r1"`)
	assert.Contains(t, w.Body.String(), `"id":"r2"`)

	w = do(r, http.MethodDelete, "/users/me/favorites/r1", "")
	assert.JSONEq(t, `{"status":"success","data":{"recipe_id":"r1","favorite":false}}`, w.Body.String())

	w = do(r, http.MethodPost, "/users/me/favorites/r1/toggle", "")
	assert.Contains(t, w.Body.String(), `"favorite":true`)
	w = do(r, http.MethodPost, "/users/me/favorites/r1/toggle", "")
	assert.Contains(t, w.Body.String(), `"favorite":false`)
}
