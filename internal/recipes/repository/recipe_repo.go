package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cookbook-app/cookbook-backend/internal/recipes/domain"
)

const recipesCollection = "recipes"

// RecipeRepository is a pass-through to the recipes collection
type RecipeRepository struct {
	client *firestore.Client
}

func NewRecipeRepository(client *firestore.Client) *RecipeRepository {
	return &RecipeRepository{client: client}
}

func (r *RecipeRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(recipesCollection)
}

// NewID reserves a generated document id without writing anything
func (r *RecipeRepository) NewID() string {
	return r.collection().NewDoc().ID
}

// Get retrieves a recipe by its document id
func (r *RecipeRepository) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("recipes: get %s: %w", id, err)
	}

	recipe := domain.RecipeFromMap(snap.Ref.ID, snap.Data())
	return &recipe, nil
}

// Exists reports whether the recipe document is still present
func (r *RecipeRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.Get(ctx, id)
	if errors.Is(err, domain.ErrRecipeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List runs a one-shot query, newest first
func (r *RecipeRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Recipe, error) {
	docs, err := r.query(filter).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("recipes: list: %w", err)
	}
	return decodeAll(docs), nil
}

// FindByIDs fetches at most domain.MaxInQuery documents in one query.
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Recipe, error) {
	if len(ids) == 0 {
		return []domain.Recipe{}, nil
	}
	if len(ids) > domain.MaxInQuery {
		return nil, fmt.Errorf("recipes: find by ids: %d ids exceeds limit of %d", len(ids), domain.MaxInQuery)
	}

	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = r.collection().Doc(id)
	}

	docs, err := r.collection().Where(firestore.DocumentID, "in", refs).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("recipes: find by ids: %w", err)
	}
	return decodeAll(docs), nil
}

// Save writes the whole document
func (r *RecipeRepository) Save(ctx context.Context, recipe domain.Recipe) error {
	if _, err := r.collection().Doc(recipe.ID).Set(ctx, recipe.ToMap()); err != nil {
		return fmt.Errorf("recipes: save %s: %w", recipe.ID, err)
	}
	return nil
}

// UpdateFields writes only the given top-level fields of an existing document.
func (r *RecipeRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	_, err := r.collection().Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return domain.ErrRecipeNotFound
	}
	if err != nil {
		return fmt.Errorf("recipes: update %s: %w", id, err)
	}
	return nil
}

func (r *RecipeRepository) SetImageURL(ctx context.Context, id, url string) error {
	_, err := r.collection().Doc(id).Update(ctx, []firestore.Update{{Path: domain.FieldImageURL, Value: url}})
	if status.Code(err) == codes.NotFound {
		return domain.ErrRecipeNotFound
	}
	if err != nil {
		return fmt.Errorf("recipes: set image url %s: %w", id, err)
	}
	return nil
}

// Delete removes the document. Deleting a missing document is not an error.
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("recipes: delete %s: %w", id, err)
	}
	return nil
}

// Watch subscribes to the query and yields the full result set on every change.
func (r *RecipeRepository) Watch(ctx context.Context, filter domain.ListFilter) (func() ([]domain.Recipe, error), func()) {
	it := r.query(filter).Snapshots(ctx)

	next := func() ([]domain.Recipe, error) {
		snap, err := it.Next()
		if err != nil {
			return nil, err
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return nil, fmt.Errorf("recipes: read snapshot: %w", err)
		}
		return decodeAll(docs), nil
	}

	return next, it.Stop
}

func (r *RecipeRepository) query(filter domain.ListFilter) firestore.Query {
	q := r.collection().Query
	if filter.Category != "" {
		q = q.Where(domain.FieldCategory, "==", filter.Category)
	}
	if filter.CreatedBy != "" {
		q = q.Where(domain.FieldCreatedBy, "==", filter.CreatedBy)
	}
	return q.OrderBy(domain.FieldCreatedAt, firestore.Desc)
}

func decodeAll(docs []*firestore.DocumentSnapshot) []domain.Recipe {
	out := make([]domain.Recipe, 0, len(docs))
	for _, doc := range docs {
		out = append(out, domain.RecipeFromMap(doc.Ref.ID, doc.Data()))
	}
	return out
}
