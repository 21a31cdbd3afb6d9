package main

import (
	"context"
	"log/slog"
	"os"

	"journal/config"
	"journal/internal/delivery"
	"journal/internal/delivery/http"
	"journal/internal/delivery/http/middleware"
	"journal/internal/delivery/http/router/handler"
	"journal/internal/infra/firebase"
	"journal/internal/infra/gemini"
	logs "journal/internal/infra/log"
	"journal/internal/infra/persistence/firestore"
	"journal/internal/infra/pubsub"
	"journal/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		firebase.NewApp,
		firebase.NewAuthClient,
		firebase.NewFirestoreClient,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			firestore.NewEntryRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			firebase.NewTokenVerifier,
			gemini.NewClient,
			pubsub.NewEventPublisher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewJournalService,
			impl.NewCompletionService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewJournalHandler,
			handler.NewCompletionHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
