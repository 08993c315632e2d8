package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cookbook-app/cookbook-backend/internal/users/domain"
)

const usersCollection = "users"

// UserRepository stores profiles in the users collection, one document per
// identity keyed by uid.
type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(uid)
}

// Get retrieves a profile by uid
func (r *UserRepository) Get(ctx context.Context, uid string) (*domain.User, error) {
	snap, err := r.doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("users: get %s: %w", uid, err)
	}

	user := domain.UserFromMap(snap.Ref.ID, snap.Data())
	return &user, nil
}

// Create writes a new profile, replacing any existing document
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	if _, err := r.doc(user.ID).Set(ctx, user.ToMap()); err != nil {
		return fmt.Errorf("users: create %s: %w", user.ID, err)
	}
	return nil
}

func (r *UserRepository) UpdateName(ctx context.Context, uid, name string) error {
	return r.update(ctx, uid, firestore.Update{Path: domain.FieldName, Value: name})
}

func (r *UserRepository) AddFavorite(ctx context.Context, uid, recipeID string) error {
	return r.update(ctx, uid, firestore.Update{Path: domain.FieldFavorites, Value: firestore.ArrayUnion(recipeID)})
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, uid, recipeID string) error {
	return r.update(ctx, uid, firestore.Update{Path: domain.FieldFavorites, Value: firestore.ArrayRemove(recipeID)})
}

// ToggleFavorite flips recipeID in the favorites list inside a transaction and
// returns the new flag. Concurrent toggles are serialized by Firestore retries.
func (r *UserRepository) ToggleFavorite(ctx context.Context, uid, recipeID string) (bool, error) {
	ref := r.doc(uid)
	var next bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}

		user := domain.UserFromMap(snap.Ref.ID, snap.Data())
		next = !user.IsFavorite(recipeID)

		var value any = firestore.ArrayRemove(recipeID)
		if next {
			value = firestore.ArrayUnion(recipeID)
		}
		return tx.Update(ref, []firestore.Update{{Path: domain.FieldFavorites, Value: value}})
	})
	if status.Code(err) == codes.NotFound {
		return false, domain.ErrUserNotFound
	}
	if err != nil {
		return false, fmt.Errorf("users: toggle favorite %s: %w", uid, err)
	}
	return next, nil
}

func (r *UserRepository) update(ctx context.Context, uid string, updates ...firestore.Update) error {
	_, err := r.doc(uid).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("users: update %s: %w", uid, err)
	}
	return nil
}

// Watch follows the profile document. A missing document is reported as an
// empty profile so feeds keep running until it is created.
func (r *UserRepository) Watch(ctx context.Context, uid string) (func() (domain.User, error), func()) {
	it := r.doc(uid).Snapshots(ctx)

	next := func() (domain.User, error) {
		snap, err := it.Next()
		if err != nil {
			return domain.User{}, err
		}
		if !snap.Exists() {
			return domain.NewUser(uid, "", ""), nil
		}
		return domain.UserFromMap(snap.Ref.ID, snap.Data()), nil
	}

	return next, it.Stop
}
