package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cookbook-app/cookbook-backend/config"
	"github.com/cookbook-app/cookbook-backend/internal/bootstrap"
	cronjob "github.com/cookbook-app/cookbook-backend/internal/jobs/cron"
	reciperepo "github.com/cookbook-app/cookbook-backend/internal/recipes/repository"
	"github.com/cookbook-app/cookbook-backend/internal/storage/images"
)

var errUsage = errors.New("usage: worker [sweep]")

// usage: worker [sweep]
//
// Without arguments the worker runs the image sweep on SWEEP_SCHEDULE until
// interrupted. "sweep" runs it once and exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	bootstrap.SetupLogger(cfg.App.LogLevel, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if err := run(ctx, cfg, cmd); err != nil {
		slog.Error("worker exited", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, cmd string) error {
	fb, err := bootstrap.OpenFirebase(ctx, cfg)
	if err != nil {
		return err
	}
	defer fb.Close()

	store, closeStore, err := bootstrap.OpenImageStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sweeper := images.NewSweeper(store, reciperepo.NewRecipeRepository(fb.Firestore), cfg.Sweep.Rate)
	sweep := func(ctx context.Context) error {
		_, err := sweeper.Sweep(ctx)
		return err
	}

	switch cmd {
	case "sweep":
		return sweep(ctx)
	case "":
		scheduler := cronjob.NewScheduler(ctx)
		if err := scheduler.Add("image-sweep", cfg.Sweep.Schedule, sweep); err != nil {
			return err
		}
		scheduler.Start()
		return nil
	default:
		return errUsage
	}
}
