package http

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authctx "github.com/cookbook-app/cookbook-backend/internal/auth"
	"github.com/cookbook-app/cookbook-backend/internal/recipes/domain"
	"github.com/cookbook-app/cookbook-backend/internal/recipes/service"
	"github.com/cookbook-app/cookbook-backend/internal/storage/images"
)

type memRepo struct {
	mu      sync.Mutex
	recipes map[string]domain.Recipe
	seq     int
}

func (r *memRepo) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("r%d", r.seq)
}

func (r *memRepo) Get(_ context.Context, id string) (*domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipes[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return &rec, nil
}

func (r *memRepo) List(_ context.Context, f domain.ListFilter) ([]domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Recipe{}
	for _, rec := range r.recipes {
		if (f.Category == "" || rec.Category == f.Category) && (f.CreatedBy == "" || rec.CreatedBy == f.CreatedBy) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Recipe, error) {
	out := []domain.Recipe{}
	for _, id := range ids {
		if rec, err := r.Get(ctx, id); err == nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memRepo) Save(_ context.Context, rec domain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[rec.ID] = rec
	return nil
}

func (r *memRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipes[id]
	if !ok {
		return domain.ErrRecipeNotFound
	}
	doc := rec.ToMap()
	for k, v := range fields {
		doc[k] = v
	}
	r.recipes[id] = domain.RecipeFromMap(id, doc)
	return nil
}

func (r *memRepo) SetImageURL(_ context.Context, id, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.recipes[id]
	rec.ImageURL = url
	r.recipes[id] = rec
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.recipes, id)
	return nil
}

func (r *memRepo) Watch(ctx context.Context, _ domain.ListFilter) (func() ([]domain.Recipe, error), func()) {
	return func() ([]domain.Recipe, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, func() {}
}

type memImages struct {
	uploaded []byte
	err      error
}

func (m *memImages) UploadRecipeImage(_ context.Context, uid, recipeID string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.uploaded = data
	return "https://img.example.com/" + uid + "/" + recipeID + ".jpg", nil
}

func (m *memImages) DeleteRecipeImage(context.Context, string, string) {}

func setupRouter() (*gin.Engine, *memRepo, *memImages) {
	gin.SetMode(gin.TestMode)
	repo := &memRepo{recipes: map[string]domain.Recipe{
		"soup":  {ID: "soup", Name: "Tomato Soup", Category: "Soups", CreatedBy: "owner"},
		"salad": {ID: "salad", Name: "Salad", Description: "with tomato", Category: "Salads", CreatedBy: "other"},
	}}
	imgs := &memImages{}
	h := New(service.NewRecipeService(repo, imgs), nil)

	r := gin.New()
	g := r.Group("/recipes")
	g.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(authctx.CtxFirebaseUID, uid)
		}
		c.Next()
	})
	h.Register(g)
	return r, repo, imgs
}

func do(r *gin.Engine, method, path, uid, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("X-Test-User", uid)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecipeHandlers_RequireAuth(t *testing.T) {
	r, _, _ := setupRouter()
	w := do(r, http.MethodGet, "/recipes", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeHandlers_List(t *testing.T) {
	r, _, _ := setupRouter()

	w := do(r, http.MethodGet, "/recipes", "owner", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"soup"`)
	assert.Contains(t, w.Body.String(), `"id":"salad"`)

	w = do(r, http.MethodGet, "/recipes?category=Soups", "owner", "")
	assert.Contains(t, w.Body.String(), `"id":"soup"`)
	assert.NotContains(t, w.Body.String(), `"id":"salad"`)

	w = do(r, http.MethodGet, "/recipes?mine=true", "other", "")
	assert.Contains(t, w.Body.String(), `"id":"salad"`)
	assert.NotContains(t, w.Body.String(), `"id":"soup"`)

	w = do(r, http.MethodGet, "/recipes?q=TOMATO", "owner", "")
	assert.Contains(t, w.Body.String(), `"id":"soup"`)
	assert.Contains(t, w.Body.String(), `"id":"salad"`)

	w = do(r, http.MethodGet, "/recipes?q=pizza", "owner", "")
	assert.JSONEq(t, `{"status":"success","data":[]}`, w.Body.String())
}

func TestRecipeHandlers_CreateUpdateDelete(t *testing.T) {
	r, repo, _ := setupRouter()

	w := do(r, http.MethodPost, "/recipes", "owner", `{"name":"Pie","created_by":"someone-else"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "owner", repo.recipes["r1"].CreatedBy)

	w = do(r, http.MethodPost, "/recipes", "owner", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error","error":"recipe name is required"}`, w.Body.String())

	w = do(r, http.MethodPut, "/recipes/r1", "intruder", `{"name":"Mine now"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPut, "/recipes/r1", "owner", `{"name":"Apple Pie"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Apple Pie", repo.recipes["r1"].Name)

	w = do(r, http.MethodDelete, "/recipes/r1", "intruder", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/recipes/r1", "owner", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, repo.recipes, "r1")

	w = do(r, http.MethodGet, "/recipes/r1", "owner", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeHandlers_Batch(t *testing.T) {
	r, _, _ := setupRouter()

	w := do(r, http.MethodPost, "/recipes/batch", "owner", `{"ids":["soup","missing","soup"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `"id":"soup"`))
}

func uploadImage(t *testing.T, r *gin.Engine, path, uid string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Test-User", uid)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecipeHandlers_UploadImage(t *testing.T) {
	r, repo, imgs := setupRouter()

	w := uploadImage(t, r, "/recipes/soup/image", "owner", []byte("jpeg-bytes"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("jpeg-bytes"), imgs.uploaded)
	assert.Equal(t, "https://img.example.com/owner/soup.jpg", repo.recipes["soup"].ImageURL)

	w = do(r, http.MethodPut, "/recipes/soup/image", "owner", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeHandlers_UploadImageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"undecodable", fmt.Errorf("%w: png: invalid format", images.ErrUnsupportedFormat), http.StatusBadRequest},
		{"too many pixels", fmt.Errorf("%w: 30000x30000", images.ErrImageTooLarge), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, repo, imgs := setupRouter()
			imgs.err = tt.err

			w := uploadImage(t, r, "/recipes/soup/image", "owner", []byte("data"))
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"error"`)
			assert.Empty(t, repo.recipes["soup"].ImageURL)
		})
	}
}
