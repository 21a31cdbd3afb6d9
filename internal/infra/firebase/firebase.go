// Package firebase wires the Firebase admin SDK: one app per process, with
// auth and Firestore clients derived from it.
package firebase

import (
	"context"

	"journal/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// NewApp initializes the Firebase admin app. Fx memoizes the provider, so the
// app is created exactly once per process and reused by every request.
func NewApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	fbCfg := cfg.Firebase
	if fbCfg == nil {
		return nil, errors.New("firebase configuration is required")
	}

	var opts []option.ClientOption
	if fbCfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(fbCfg.CredentialsPath))
	}
	// With no credentials file, application default credentials apply.

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: fbCfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	return app, nil
}

// NewAuthClient returns the admin auth client used for ID token verification.
func NewAuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auth client")
	}

	return client, nil
}

// FirestoreParams holds dependencies for the Firestore client, injected by Fx.
type FirestoreParams struct {
	fx.In
	fx.Lifecycle

	Ctx context.Context
	App *firebase.App
}

// NewFirestoreClient returns the process-scoped Firestore client and registers
// its shutdown with the fx lifecycle.
func NewFirestoreClient(params FirestoreParams) (*firestore.Client, error) {
	client, err := params.App.Firestore(params.Ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get firestore client")
	}

	params.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	return client, nil
}
