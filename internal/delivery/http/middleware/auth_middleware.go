package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "journal/internal/delivery/context"
	"journal/internal/delivery/http/response"
	"journal/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware authenticates requests by verifying the bearer ID token
// against the identity provider. No store call happens before this gate.
type AuthMiddleware struct {
	verifier service.TokenVerifier
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(verifier service.TokenVerifier, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// Authenticate validates the Authorization header and binds the verified
// caller to the request. The caller's identity comes exclusively from the
// verified token, never from the request body.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing Authorization Bearer token.")
		}

		idToken := strings.TrimPrefix(authHeader, "Bearer ")
		if idToken == authHeader || idToken == "" {
			return response.Unauthorized(c, "Missing Authorization Bearer token.")
		}

		caller, err := m.verifier.VerifyIDToken(c.Request().Context(), idToken)
		if err != nil {
			m.logger.Warn("Token verification failed",
				slog.String("path", c.Request().URL.Path),
				slog.Any("error", err),
			)

			return response.Unauthorized(c, "Invalid or expired token.")
		}

		c.Set(deliverycontext.KeyCaller, caller)

		return next(c)
	}
}

// GetCaller returns the verified caller bound by Authenticate, or nil when
// the request did not pass through it.
func GetCaller(c echo.Context) *service.VerifiedToken {
	caller, _ := c.Get(deliverycontext.KeyCaller).(*service.VerifiedToken)

	return caller
}
