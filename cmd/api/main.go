package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cookbook-app/cookbook-backend/config"
	httpapi "github.com/cookbook-app/cookbook-backend/internal/api/http"
	"github.com/cookbook-app/cookbook-backend/internal/api/http/routes"
	authhttp "github.com/cookbook-app/cookbook-backend/internal/auth/http"
	"github.com/cookbook-app/cookbook-backend/internal/auth/middleware"
	authrepo "github.com/cookbook-app/cookbook-backend/internal/auth/repository"
	authservice "github.com/cookbook-app/cookbook-backend/internal/auth/service"
	"github.com/cookbook-app/cookbook-backend/internal/bootstrap"
	recipehttp "github.com/cookbook-app/cookbook-backend/internal/recipes/http"
	reciperepo "github.com/cookbook-app/cookbook-backend/internal/recipes/repository"
	recipeservice "github.com/cookbook-app/cookbook-backend/internal/recipes/service"
	"github.com/cookbook-app/cookbook-backend/internal/subscriptions"
	userhttp "github.com/cookbook-app/cookbook-backend/internal/users/http"
	userrepo "github.com/cookbook-app/cookbook-backend/internal/users/repository"
	userservice "github.com/cookbook-app/cookbook-backend/internal/users/service"
)

const serviceName = "cookbook-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	bootstrap.SetupLogger(cfg.App.LogLevel, cfg.App.Environment)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	fb, err := bootstrap.OpenFirebase(ctx, cfg)
	if err != nil {
		return err
	}
	defer fb.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	store, closeStore, err := bootstrap.OpenImageStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	identities, err := authrepo.NewIdentityRepository(ctx, cfg.Firebase.WebAPIKey, fb.Auth)
	if err != nil {
		return err
	}

	recipeSvc := recipeservice.NewRecipeService(
		reciperepo.NewRecipeRepository(fb.Firestore),
		bootstrap.NewImageService(store, cfg),
	)
	userSvc := userservice.NewUserService(userrepo.NewUserRepository(fb.Firestore), recipeSvc)
	authSvc := authservice.NewAuthService(identities, userSvc, authservice.Options{
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		CallTimeout:       cfg.Auth.CallTimeout,
	})
	feeds := subscriptions.NewRegistry(rdb, subscriptions.DefaultTTL)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Redis: httpapi.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
		V1: routes.V1Deps{
			Auth:           authhttp.New(authSvc),
			Users:          userhttp.New(userSvc, feeds),
			Recipes:        recipehttp.New(recipeSvc, feeds),
			AuthMiddleware: middleware.FirebaseAuthMiddleware(fb.Auth),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr, "env", cfg.App.Environment, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
