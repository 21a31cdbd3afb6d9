// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"journal/internal/delivery/http/middleware"
	"journal/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	JournalHandler      *handler.JournalHandler
	CompletionHandler   *handler.CompletionHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	journalHandler      *handler.JournalHandler
	completionHandler   *handler.CompletionHandler
	authMiddleware      *middleware.AuthMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		journalHandler:      params.JournalHandler,
		completionHandler:   params.CompletionHandler,
		authMiddleware:      params.AuthMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")
	api.Use(r.requestIDMiddleware.Process)

	// Completion proxy: no bearer auth, the hidden provider key is the
	// only credential involved.
	api.POST("/completion", r.completionHandler.Complete)

	// Journal gateway: every request re-verifies the bearer token before
	// any store access.
	journalGroup := api.Group("/journal")
	journalGroup.Use(r.authMiddleware.Authenticate)
	{
		journalGroup.POST("", r.journalHandler.Dispatch)
	}
}
