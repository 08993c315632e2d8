package images

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// RecipePrefix is the root of every recipe image key.
const RecipePrefix = "recipe_images/"

// Service stores recipe images under recipe_images/{uid}/{recipeID}.jpg.
type Service struct {
	store   Store
	baseURL string
	limits  Limits
	now     func() time.Time
}

// NewService builds the image service. baseURL is prepended to object keys
// to build public URLs, e.g. https://storage.googleapis.com/{bucket}.
func NewService(store Store, baseURL string, limits Limits) *Service {
	return &Service{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		limits:  limits,
		now:     time.Now,
	}
}

// PublicBaseURL returns override when set, otherwise the public GCS URL of bucket.
func PublicBaseURL(override, bucket string) string {
	if override != "" {
		return override
	}
	return "https://storage.googleapis.com/" + bucket
}

func RecipeKey(uid, recipeID string) string {
	return fmt.Sprintf("%s%s/%s.jpg", RecipePrefix, uid, recipeID)
}

// ParseRecipeKey is the inverse of RecipeKey.
func ParseRecipeKey(key string) (uid, recipeID string, ok bool) {
	rest, found := strings.CutPrefix(key, RecipePrefix)
	if !found {
		return "", "", false
	}
	rest, found = strings.CutSuffix(rest, ".jpg")
	if !found {
		return "", "", false
	}
	uid, recipeID, found = strings.Cut(rest, "/")
	if !found || uid == "" || recipeID == "" || strings.Contains(recipeID, "/") {
		return "", "", false
	}
	return uid, recipeID, true
}

func (s *Service) URL(key string) string {
	return s.baseURL + "/" + key
}

// VersionedURL is URL with a ?v= upload stamp. The key is reused across
// uploads, so the stamp is what makes caches fetch the new image.
func (s *Service) VersionedURL(key string, at time.Time) string {
	return s.URL(key) + "?v=" + strconv.FormatInt(at.UnixMilli(), 10)
}

// UploadRecipeImage normalizes data, stores it and returns its public URL.
// Uploading again for the same recipe overwrites the previous object and
// returns a URL with a new version stamp.
func (s *Service) UploadRecipeImage(ctx context.Context, uid, recipeID string, data []byte) (string, error) {
	normalized, err := Normalize(data, s.limits)
	if err != nil {
		return "", err
	}

	key := RecipeKey(uid, recipeID)
	if err := s.store.Put(ctx, key, ContentTypeJPEG, normalized); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "recipe image uploaded", "key", key, "bytes", len(normalized))
	return s.VersionedURL(key, s.now()), nil
}

// DeleteRecipeImage removes the image. Failures are logged and otherwise
// ignored; the sweeper reclaims anything left behind.
func (s *Service) DeleteRecipeImage(ctx context.Context, uid, recipeID string) {
	key := RecipeKey(uid, recipeID)
	if err := s.store.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "recipe image delete failed", "key", key, "error", err)
	}
}
