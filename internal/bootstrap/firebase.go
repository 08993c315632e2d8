package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"

	"github.com/cookbook-app/cookbook-backend/config"
	"github.com/cookbook-app/cookbook-backend/internal/auth"
)

// FirebaseClients are the Admin SDK handles shared by the API and the worker.
type FirebaseClients struct {
	App       *firebase.App
	Auth      *fbauth.Client
	Firestore *firestore.Client
}

func OpenFirebase(ctx context.Context, cfg *config.Config) (*FirebaseClients, error) {
	app, err := auth.InitializeFirebase(ctx, cfg.Firebase, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	return &FirebaseClients{
		App:       app,
		Auth:      authClient,
		Firestore: fs,
	}, nil
}

func (f *FirebaseClients) Close() error {
	return f.Firestore.Close()
}
