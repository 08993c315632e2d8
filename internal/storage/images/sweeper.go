package images

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
)

// RecipeChecker reports whether a recipe document still exists.
type RecipeChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// SweepReport summarizes one sweep.
type SweepReport struct {
	Scanned int
	Orphans int
	Deleted int
	Skipped int
}

// Sweeper deletes recipe images whose recipe no longer exists.
type Sweeper struct {
	store   Store
	recipes RecipeChecker
	limiter *rate.Limiter
}

// NewSweeper processes at most perSecond parseable objects per second. Each
// object costs one recipe lookup and, when orphaned, one delete.
func NewSweeper(store Store, recipes RecipeChecker, perSecond float64) *Sweeper {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &Sweeper{
		store:   store,
		recipes: recipes,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Sweep walks every recipe image once. Per-object failures are logged and
// counted as skipped; only listing failures and ctx cancellation abort it.
func (s *Sweeper) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	keys, err := s.store.List(ctx, RecipePrefix)
	if err != nil {
		return report, fmt.Errorf("images: sweep: %w", err)
	}

	for _, key := range keys {
		report.Scanned++

		_, recipeID, ok := ParseRecipeKey(key)
		if !ok {
			report.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}
		exists, err := s.recipes.Exists(ctx, recipeID)
		if err != nil {
			slog.WarnContext(ctx, "sweep: recipe lookup failed", "recipe_id", recipeID, "error", err)
			report.Skipped++
			continue
		}
		if exists {
			continue
		}

		report.Orphans++
		if err := s.store.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "sweep: delete failed", "key", key, "error", err)
			continue
		}
		report.Deleted++
	}

	slog.InfoContext(ctx, "image sweep finished",
		"scanned", report.Scanned,
		"orphans", report.Orphans,
		"deleted", report.Deleted,
		"skipped", report.Skipped,
	)
	return report, nil
}
